// internal/game/scoring.go
package game

import (
	"github.com/Cassssian/five-crowns/internal/models"
	"github.com/google/uuid"
)

// CardPoints returns the penalty value of a card left in hand at round end:
// permanent jokers 50, the round's wildcard rank 20, otherwise the literal
// rank (jack 11, queen 12, king 13).
func CardPoints(card *models.Card, round int) int {
	if card.IsJoker {
		return JokerPoints
	}
	if card.Rank == WildRankForRound(round) {
		return WildCardPoints
	}
	return BasePoints(card.Rank)
}

// HandScore sums CardPoints over a hand.
func HandScore(hand []*models.Card, round int) int {
	total := 0
	for _, card := range hand {
		total += CardPoints(card, round)
	}
	return total
}

// RoundScores computes the round-end score per player: 0 for whoever went
// out, the remaining hand value for everyone else.
func RoundScores(players []*models.GamePlayer, round int) map[uuid.UUID]int {
	scores := make(map[uuid.UUID]int, len(players))
	for _, p := range players {
		if p.HasFinishedRound {
			scores[p.ID] = 0
		} else {
			scores[p.ID] = HandScore(p.Hand, round)
		}
	}
	return scores
}

// DetermineWinner returns the player with the strictly lowest cumulative
// score. Ties go to the earliest seat in turn order.
func DetermineWinner(players []*models.GamePlayer) uuid.UUID {
	if len(players) == 0 {
		return uuid.Nil
	}
	winnerID := players[0].ID
	lowest := players[0].Score
	for _, p := range players {
		if p.Score < lowest {
			lowest = p.Score
			winnerID = p.ID
		}
	}
	return winnerID
}
