// internal/game/validate_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cassssian/five-crowns/internal/models"
)

func TestIsWildcard(t *testing.T) {
	assert.True(t, IsWildcard(tj(), 1))
	assert.True(t, IsWildcard(tj(), 11))

	// Round 3 => rank 5 is wild.
	assert.True(t, IsWildcard(tc(models.SuitHearts, models.RankFive), 3))
	assert.False(t, IsWildcard(tc(models.SuitHearts, models.RankFive), 4))
	assert.False(t, IsWildcard(tc(models.SuitHearts, models.RankSix), 3))
}

func TestValidateSet(t *testing.T) {
	round := 9 // wild rank 11 (jacks)

	valid := []*models.Card{
		tc(models.SuitHearts, models.RankSeven),
		tc(models.SuitClubs, models.RankSeven),
		tc(models.SuitStars, models.RankSeven),
	}
	assert.True(t, ValidateSet(valid, round))

	withWilds := []*models.Card{
		tc(models.SuitHearts, models.RankSeven),
		tj(),
		tc(models.SuitSpades, models.RankJack), // wild this round
	}
	assert.True(t, ValidateSet(withWilds, round))

	tooShort := []*models.Card{
		tc(models.SuitHearts, models.RankSeven),
		tc(models.SuitClubs, models.RankSeven),
	}
	assert.False(t, ValidateSet(tooShort, round))

	mixedRanks := []*models.Card{
		tc(models.SuitHearts, models.RankSeven),
		tc(models.SuitClubs, models.RankEight),
		tc(models.SuitStars, models.RankSeven),
	}
	assert.False(t, ValidateSet(mixedRanks, round))

	allWild := []*models.Card{tj(), tj(), tj()}
	assert.False(t, ValidateSet(allWild, round))
}

func TestValidateRun(t *testing.T) {
	round := 9

	consecutive := []*models.Card{
		tc(models.SuitHearts, models.RankFour),
		tc(models.SuitHearts, models.RankFive),
		tc(models.SuitHearts, models.RankSix),
	}
	assert.True(t, ValidateRun(consecutive, round))

	// 4 _ 6 with a joker bridging the gap.
	bridged := []*models.Card{
		tc(models.SuitHearts, models.RankFour),
		tj(),
		tc(models.SuitHearts, models.RankSix),
	}
	assert.True(t, ValidateRun(bridged, round))

	// 4 _ _ 7 with only one wildcard cannot close a two-card gap.
	tooWide := []*models.Card{
		tc(models.SuitHearts, models.RankFour),
		tj(),
		tc(models.SuitHearts, models.RankSeven),
	}
	assert.False(t, ValidateRun(tooWide, round))

	mixedSuit := []*models.Card{
		tc(models.SuitHearts, models.RankFour),
		tc(models.SuitClubs, models.RankFive),
		tc(models.SuitHearts, models.RankSix),
	}
	assert.False(t, ValidateRun(mixedSuit, round))

	// Unsorted input is fine; validation sorts internally.
	unsorted := []*models.Card{
		tc(models.SuitSpades, models.RankNine),
		tc(models.SuitSpades, models.RankSeven),
		tc(models.SuitSpades, models.RankEight),
	}
	assert.True(t, ValidateRun(unsorted, round))

	// Duplicate rank in a run needs a wildcard slot it doesn't have.
	duplicated := []*models.Card{
		tc(models.SuitSpades, models.RankSeven),
		tc(models.SuitSpades, models.RankSeven),
		tc(models.SuitSpades, models.RankEight),
	}
	assert.False(t, ValidateRun(duplicated, round))
}

func TestValidateLayDownFullCover(t *testing.T) {
	round := 5 // wild rank 7
	hand := []*models.Card{
		tc(models.SuitHearts, models.RankFour),
		tc(models.SuitClubs, models.RankFour),
		tc(models.SuitStars, models.RankFour),
		tc(models.SuitSpades, models.RankNine),
		tc(models.SuitSpades, models.RankTen),
		tc(models.SuitSpades, models.RankJack),
		tc(models.SuitDiamonds, models.RankKing),
	}

	set := models.Combination{Type: models.CombinationSet, Cards: hand[0:3]}
	run := models.Combination{Type: models.CombinationRun, Cards: hand[3:6]}

	// The king is left over.
	err := ValidateLayDown([]models.Combination{set, run}, hand, round)
	require.ErrorIs(t, err, ErrHandNotCovered)

	// Reusing a card across combinations.
	dupRun := models.Combination{Type: models.CombinationRun, Cards: []*models.Card{hand[3], hand[4], hand[5]}}
	err = ValidateLayDown([]models.Combination{set, run, dupRun}, hand[0:6], round)
	require.ErrorIs(t, err, ErrCardReused)

	// Covering hand[0:6] exactly is valid.
	require.NoError(t, ValidateLayDown([]models.Combination{set, run}, hand[0:6], round))

	// A combination containing a card the player does not hold.
	foreign := models.Combination{Type: models.CombinationSet, Cards: []*models.Card{
		hand[0], hand[1], tc(models.SuitHearts, models.RankFour),
	}}
	err = ValidateLayDown([]models.Combination{foreign, run}, hand[0:6], round)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in hand")

	// Full cover but one combination is structurally invalid.
	badSet := models.Combination{Type: models.CombinationSet, Cards: []*models.Card{hand[0], hand[1], hand[3]}}
	rest := models.Combination{Type: models.CombinationRun, Cards: []*models.Card{hand[2], hand[4], hand[5]}}
	err = ValidateLayDown([]models.Combination{badSet, rest}, hand[0:6], round)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid combination")
}
