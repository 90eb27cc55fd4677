// internal/game/ai.go
package game

import (
	"math/rand"

	"github.com/Cassssian/five-crowns/internal/models"
)

// DrawSource names where a player draws from.
type DrawSource string

const (
	DrawSourceDeck    DrawSource = "deck"
	DrawSourceDiscard DrawSource = "discard"
)

// discardDrawChance is the probability a forced timeout draw takes the
// discard pile instead of the deck.
const discardDrawChance = 0.3

// DecideDraw picks the AI's draw source. The discard pile is preferred when
// its top card is not a wildcard and the hand already holds two or more cards
// of the same rank or suit; otherwise the AI draws blind from the deck.
func DecideDraw(hand []*models.Card, discardTop *models.Card, round int) DrawSource {
	if discardTop == nil || IsWildcard(discardTop, round) {
		return DrawSourceDeck
	}
	sameRank, sameSuit := 0, 0
	for _, c := range hand {
		if c.Rank == discardTop.Rank {
			sameRank++
		}
		if c.Suit == discardTop.Suit {
			sameSuit++
		}
	}
	if sameRank >= 2 || sameSuit >= 2 {
		return DrawSourceDiscard
	}
	return DrawSourceDeck
}

// ChooseDiscard picks the highest-point non-wildcard card, ties broken by
// original hand order. A hand holding only wildcards discards its first card.
func ChooseDiscard(hand []*models.Card, round int) *models.Card {
	if len(hand) == 0 {
		return nil
	}
	var best *models.Card
	bestPoints := -1
	for _, c := range hand {
		if IsWildcard(c, round) {
			continue
		}
		if pts := CardPoints(c, round); pts > bestPoints {
			best = c
			bestPoints = pts
		}
	}
	if best == nil {
		return hand[0]
	}
	return best
}

// RandomDrawSource is the forced-timeout draw choice: the discard pile with
// fixed probability when it has cards, else the deck.
func RandomDrawSource(discardSize int, rng *rand.Rand) DrawSource {
	if discardSize > 0 && rng.Float64() < discardDrawChance {
		return DrawSourceDiscard
	}
	return DrawSourceDeck
}

// ForcedDiscard is the forced-timeout discard choice: the single
// highest-point card in hand by the static point table, jokers counting 50
// regardless of round. Ties go to the earliest card in hand.
func ForcedDiscard(hand []*models.Card) *models.Card {
	if len(hand) == 0 {
		return nil
	}
	best := hand[0]
	for _, c := range hand[1:] {
		if BasePoints(c.Rank) > BasePoints(best.Rank) {
			best = c
		}
	}
	return best
}
