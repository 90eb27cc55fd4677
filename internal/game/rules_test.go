// internal/game/rules_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardsPerRound(t *testing.T) {
	assert.Equal(t, 3, CardsPerRound(1))
	assert.Equal(t, 13, CardsPerRound(11))
	assert.Equal(t, 0, CardsPerRound(0))
	assert.Equal(t, 0, CardsPerRound(12))
}

func TestRulesUpdate(t *testing.T) {
	rules := DefaultGameRules()

	// JSON decoding delivers numbers as float64.
	err := rules.Update(map[string]interface{}{
		"timerEnabled": false,
		"turnTimerSec": float64(60),
		"maxPlayers":   5,
	})
	require.NoError(t, err)
	assert.False(t, rules.TimerEnabled)
	assert.Equal(t, 60, rules.TurnTimerSec)
	assert.Equal(t, 5, rules.MaxPlayers)

	// Absent keys keep their values.
	require.NoError(t, rules.Update(map[string]interface{}{}))
	assert.Equal(t, 60, rules.TurnTimerSec)

	require.Error(t, rules.Update(map[string]interface{}{"timerEnabled": "yes"}))
	require.Error(t, rules.Update(map[string]interface{}{"turnTimerSec": float64(1)}))
	require.Error(t, rules.Update(map[string]interface{}{"maxPlayers": 50}))
}
