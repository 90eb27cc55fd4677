// internal/game/deck_test.go
package game

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cassssian/five-crowns/internal/models"
)

var testCardCounter int

// tc builds a normal card with a unique ID for test hands.
func tc(suit models.Suit, rank models.Rank) *models.Card {
	testCardCounter++
	return &models.Card{
		ID:   fmt.Sprintf("t_%s_%d_%d", suit, rank, testCardCounter),
		Suit: suit,
		Rank: rank,
	}
}

// tj builds a permanent joker.
func tj() *models.Card {
	testCardCounter++
	return &models.Card{
		ID:      fmt.Sprintf("t_joker_%d", testCardCounter),
		Suit:    models.SuitStars,
		IsJoker: true,
	}
}

func TestNewDeckComposition(t *testing.T) {
	deck := NewDeck()
	require.Len(t, deck, DeckSize)

	jokers := 0
	counts := make(map[string]int)
	ids := make(map[string]bool)
	for _, c := range deck {
		require.False(t, ids[c.ID], "duplicate card ID %s", c.ID)
		ids[c.ID] = true
		if c.IsJoker {
			jokers++
			continue
		}
		counts[fmt.Sprintf("%s_%d", c.Suit, c.Rank)]++
	}

	assert.Equal(t, JokerCount, jokers)
	assert.Len(t, counts, len(models.Suits)*len(models.Ranks))
	for key, n := range counts {
		assert.Equal(t, 2, n, "expected two copies of %s", key)
	}
}

func TestShuffleIsDeterministicPerSeed(t *testing.T) {
	deck := NewDeck()

	a := Shuffle(deck, rand.New(rand.NewSource(42)))
	b := Shuffle(deck, rand.New(rand.NewSource(42)))
	c := Shuffle(deck, rand.New(rand.NewSource(7)))

	require.Len(t, a, len(deck))
	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID)
	}

	// Same multiset of cards in every permutation.
	idsIn := make(map[string]bool)
	for _, card := range deck {
		idsIn[card.ID] = true
	}
	for _, card := range c {
		assert.True(t, idsIn[card.ID])
	}

	// Shuffle must not mutate its input ordering.
	assert.Equal(t, NewDeck()[0].ID, deck[0].ID)
}

func TestDealCounts(t *testing.T) {
	for round := 1; round <= TotalRounds; round++ {
		deck := Shuffle(NewDeck(), rand.New(rand.NewSource(int64(round))))
		hands, seed, remaining, err := Deal(deck, 4, round)
		require.NoError(t, err, "round %d", round)
		require.Len(t, hands, 4)

		perPlayer := CardsPerRound(round)
		assert.Equal(t, round+2, perPlayer)
		for _, h := range hands {
			assert.Len(t, h, perPlayer)
		}
		require.NotNil(t, seed)
		assert.Len(t, remaining, DeckSize-4*perPlayer-1)
	}
}

func TestDealInsufficientCards(t *testing.T) {
	deck := NewDeck()[:10]
	_, _, _, err := Deal(deck, 4, 5)
	require.ErrorIs(t, err, ErrInsufficientCards)
}

func TestWildRankPerRound(t *testing.T) {
	assert.Equal(t, models.RankThree, WildRankForRound(1))
	assert.Equal(t, models.Rank(7), WildRankForRound(5))
	assert.Equal(t, models.RankKing, WildRankForRound(11))
	assert.Equal(t, models.RankJoker, WildRankForRound(0))
	assert.Equal(t, models.RankJoker, WildRankForRound(12))
}
