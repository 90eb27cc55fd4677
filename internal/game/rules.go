// internal/game/rules.go
package game

import (
	"fmt"

	"github.com/Cassssian/five-crowns/internal/models"
)

const (
	// MinPlayers and MaxPlayers bound a lobby.
	MinPlayers = 2
	MaxPlayers = 8

	// TotalRounds is fixed: rounds 1..11, hand size 3..13, wild rank 3..king.
	TotalRounds = 11

	// MinCombinationSize is the smallest legal run or set.
	MinCombinationSize = 3

	// DeckSize is 5 suits x 11 ranks x 2 copies + 6 permanent jokers.
	DeckSize = 116

	// JokerCount is the number of permanent jokers in the deck.
	JokerCount = 6

	// JokerPoints and WildCardPoints are the scoring penalties for wildcards
	// left in hand at round end.
	JokerPoints    = 50
	WildCardPoints = 20

	// DefaultTurnTimerSec is the per-turn countdown in ticks (seconds).
	DefaultTurnTimerSec = 30
)

// CardsPerRound returns the hand size dealt in the given round (round 1 -> 3
// cards ... round 11 -> 13 cards). Returns 0 for rounds outside 1..11.
func CardsPerRound(round int) int {
	if round < 1 || round > TotalRounds {
		return 0
	}
	return round + 2
}

// WildRankForRound returns the rank that acts as a wildcard for the given
// round (round 1 -> threes ... round 11 -> kings). There is no wild rank past
// round 11; the game ends there.
func WildRankForRound(round int) models.Rank {
	if round < 1 || round > TotalRounds {
		return models.RankJoker
	}
	return models.Rank(round + 2)
}

// BasePoints is the static rank-to-points table used when a card is neither a
// permanent joker nor the round's wildcard. Jokers always count 50 here; the
// timeout discard heuristic uses this table round-agnostically.
func BasePoints(rank models.Rank) int {
	if rank == models.RankJoker {
		return JokerPoints
	}
	return int(rank)
}

// GameRules holds the per-game options a lobby host may tune.
type GameRules struct {
	TimerEnabled bool `json:"timerEnabled"` // countdown forces an action on expiry
	TurnTimerSec int  `json:"turnTimerSec"` // ticks per turn; ignored when timer disabled
	MaxPlayers   int  `json:"maxPlayers"`
}

// DefaultGameRules returns the standard configuration.
func DefaultGameRules() GameRules {
	return GameRules{
		TimerEnabled: true,
		TurnTimerSec: DefaultTurnTimerSec,
		MaxPlayers:   MaxPlayers,
	}
}

// Update applies the provided fields to the rules in place. Fields absent from
// the map keep their current value.
func (rules *GameRules) Update(newRules map[string]interface{}) error {
	if val, exists := newRules["timerEnabled"]; exists && val != nil {
		b, ok := val.(bool)
		if !ok {
			return fmt.Errorf("invalid type for timerEnabled")
		}
		rules.TimerEnabled = b
	}

	assignInt := func(field *int, key string, minVal, maxVal int) error {
		val, exists := newRules[key]
		if !exists || val == nil {
			return nil
		}
		// JSON numbers arrive as float64.
		switch v := val.(type) {
		case float64:
			*field = int(v)
		case int:
			*field = v
		default:
			return fmt.Errorf("invalid type for %s", key)
		}
		if *field < minVal || *field > maxVal {
			return fmt.Errorf("%s must be between %d and %d", key, minVal, maxVal)
		}
		return nil
	}

	if err := assignInt(&rules.TurnTimerSec, "turnTimerSec", 5, 300); err != nil {
		return err
	}
	if err := assignInt(&rules.MaxPlayers, "maxPlayers", MinPlayers, MaxPlayers); err != nil {
		return err
	}
	return nil
}
