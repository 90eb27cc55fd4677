// internal/game/scoring_test.go
package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Cassssian/five-crowns/internal/models"
)

func TestCardPoints(t *testing.T) {
	round := 4 // wild rank 6

	assert.Equal(t, JokerPoints, CardPoints(tj(), round))
	assert.Equal(t, WildCardPoints, CardPoints(tc(models.SuitHearts, models.RankSix), round))
	assert.Equal(t, 3, CardPoints(tc(models.SuitClubs, models.RankThree), round))
	assert.Equal(t, 11, CardPoints(tc(models.SuitStars, models.RankJack), round))
	assert.Equal(t, 12, CardPoints(tc(models.SuitSpades, models.RankQueen), round))
	assert.Equal(t, 13, CardPoints(tc(models.SuitDiamonds, models.RankKing), round))

	// The same rank is worth face value once the wild round has passed.
	assert.Equal(t, 6, CardPoints(tc(models.SuitHearts, models.RankSix), 5))
}

func TestHandScore(t *testing.T) {
	// Round 1: joker 50, the wild three 20, the ten its face value.
	round := 1
	hand := []*models.Card{
		tj(),
		tc(models.SuitHearts, models.RankThree),
		tc(models.SuitClubs, models.RankTen),
	}
	assert.Equal(t, 80, HandScore(hand, round))
	assert.Equal(t, 0, HandScore(nil, round))
}

func TestRoundScoresZeroForFinisher(t *testing.T) {
	finisher := &models.GamePlayer{ID: uuid.New(), HasFinishedRound: true}
	loser := &models.GamePlayer{
		ID:   uuid.New(),
		Hand: []*models.Card{tc(models.SuitHearts, models.RankTen), tj()},
	}

	scores := RoundScores([]*models.GamePlayer{finisher, loser}, 5)
	assert.Equal(t, 0, scores[finisher.ID])
	assert.Equal(t, 60, scores[loser.ID])
}

func TestDetermineWinnerLowestScoreEarliestSeat(t *testing.T) {
	a := &models.GamePlayer{ID: uuid.New(), Score: 40}
	b := &models.GamePlayer{ID: uuid.New(), Score: 25}
	c := &models.GamePlayer{ID: uuid.New(), Score: 25}

	assert.Equal(t, b.ID, DetermineWinner([]*models.GamePlayer{a, b, c}))
	assert.Equal(t, uuid.Nil, DetermineWinner(nil))
}
