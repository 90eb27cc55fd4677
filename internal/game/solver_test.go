// internal/game/solver_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cassssian/five-crowns/internal/models"
)

func comboCardIDs(combos []models.Combination) map[string]bool {
	ids := make(map[string]bool)
	for _, combo := range combos {
		for _, c := range combo.Cards {
			ids[c.ID] = true
		}
	}
	return ids
}

func TestSolveHandFindsSet(t *testing.T) {
	round := 9
	hand := []*models.Card{
		tc(models.SuitHearts, models.RankSeven),
		tc(models.SuitClubs, models.RankSeven),
		tc(models.SuitStars, models.RankSeven),
	}
	combos := SolveHand(hand, round)
	require.Len(t, combos, 1)
	assert.Equal(t, models.CombinationSet, combos[0].Type)
	require.NoError(t, ValidateLayDown(combos, hand, round))
}

func TestSolveHandFindsRunWithWildcardBridge(t *testing.T) {
	round := 9
	hand := []*models.Card{
		tc(models.SuitSpades, models.RankFour),
		tc(models.SuitSpades, models.RankSix),
		tj(),
	}
	combos := SolveHand(hand, round)
	require.Len(t, combos, 1)
	assert.Equal(t, models.CombinationRun, combos[0].Type)
	require.Len(t, combos[0].Cards, 3)
	require.NoError(t, ValidateLayDown(combos, hand, round))
}

func TestSolveHandPadsShortGroupWithWildcards(t *testing.T) {
	round := 9
	// A lone pair plus a wildcard becomes a padded set.
	hand := []*models.Card{
		tc(models.SuitHearts, models.RankTen),
		tc(models.SuitClubs, models.RankTen),
		tc(models.SuitDiamonds, models.RankJack), // wild in round 9
	}
	combos := SolveHand(hand, round)
	require.Len(t, combos, 1)
	assert.Equal(t, models.CombinationSet, combos[0].Type)
	require.NoError(t, ValidateLayDown(combos, hand, round))
}

func TestSolveHandLeavesUnplaceableCards(t *testing.T) {
	round := 9
	hand := []*models.Card{
		tc(models.SuitHearts, models.RankFour),
		tc(models.SuitClubs, models.RankNine),
		tc(models.SuitSpades, models.RankKing),
	}
	combos := SolveHand(hand, round)
	assert.Empty(t, combos)
	require.ErrorIs(t, ValidateLayDown(combos, hand, round), ErrHandNotCovered)
}

func TestSolveHandSetsClaimWildcardsBeforeRuns(t *testing.T) {
	round := 9
	// One joker, claimable by either the pair of fives (set) or the 8-_-10
	// spades gap (run). Sets run first and win the claim.
	hand := []*models.Card{
		tc(models.SuitHearts, models.RankFive),
		tc(models.SuitClubs, models.RankFive),
		tc(models.SuitSpades, models.RankEight),
		tc(models.SuitSpades, models.RankTen),
		tj(),
	}
	combos := SolveHand(hand, round)
	require.NotEmpty(t, combos)
	assert.Equal(t, models.CombinationSet, combos[0].Type)

	ids := comboCardIDs(combos[:1])
	assert.True(t, ids[hand[4].ID], "joker should be consumed by the set")
}

func TestSolveHandMultipleGroupsFullCover(t *testing.T) {
	round := 11 // 13 cards, kings wild
	hand := []*models.Card{
		// Set of threes.
		tc(models.SuitHearts, models.RankThree),
		tc(models.SuitClubs, models.RankThree),
		tc(models.SuitStars, models.RankThree),
		// Set of sixes.
		tc(models.SuitHearts, models.RankSix),
		tc(models.SuitDiamonds, models.RankSix),
		tc(models.SuitSpades, models.RankSix),
		// Run 7-8-9-10 of clubs.
		tc(models.SuitClubs, models.RankSeven),
		tc(models.SuitClubs, models.RankEight),
		tc(models.SuitClubs, models.RankNine),
		tc(models.SuitClubs, models.RankTen),
		// Pair of queens plus a king (wild) padding.
		tc(models.SuitStars, models.RankQueen),
		tc(models.SuitHearts, models.RankQueen),
		tc(models.SuitSpades, models.RankKing),
	}
	combos := SolveHand(hand, round)
	require.NoError(t, ValidateLayDown(combos, hand, round))
}

func TestSolveHandIsDeterministic(t *testing.T) {
	round := 7
	hand := []*models.Card{
		tc(models.SuitHearts, models.RankFive),
		tc(models.SuitClubs, models.RankFive),
		tc(models.SuitSpades, models.RankEight),
		tc(models.SuitSpades, models.RankNine),
		tc(models.SuitSpades, models.RankJack),
		tj(),
		tc(models.SuitDiamonds, models.RankQueen),
	}

	first := SolveHand(hand, round)
	for i := 0; i < 10; i++ {
		again := SolveHand(hand, round)
		require.Len(t, again, len(first))
		for j := range first {
			assert.Equal(t, first[j].Type, again[j].Type)
			require.Len(t, again[j].Cards, len(first[j].Cards))
			for k := range first[j].Cards {
				assert.Equal(t, first[j].Cards[k].ID, again[j].Cards[k].ID)
			}
		}
	}
}

func TestSolveHandNeverReusesCards(t *testing.T) {
	round := 3
	hand := []*models.Card{
		tc(models.SuitHearts, models.RankFive), // wild in round 3
		tc(models.SuitClubs, models.RankNine),
		tc(models.SuitStars, models.RankNine),
		tc(models.SuitHearts, models.RankNine),
		tc(models.SuitHearts, models.RankSeven),
	}
	combos := SolveHand(hand, round)
	seen := make(map[string]int)
	for _, combo := range combos {
		for _, c := range combo.Cards {
			seen[c.ID]++
		}
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "card %s appears %d times", id, n)
	}
}
