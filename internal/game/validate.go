// internal/game/validate.go
package game

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Cassssian/five-crowns/internal/models"
)

// Lay-down rejection reasons surfaced to the submitting player. The round is
// not ended and the turn state is unchanged when any of these is returned.
var (
	ErrCardReused     = errors.New("card used multiple times")
	ErrHandNotCovered = errors.New("not all cards used")
)

// IsWildcard reports whether the card substitutes freely in the given round:
// permanent jokers always, plus cards of the round's designated rank.
func IsWildcard(card *models.Card, round int) bool {
	if card.IsJoker {
		return true
	}
	return card.Rank == WildRankForRound(round)
}

// splitWildcards partitions cards into wildcards and normal cards for the
// round, preserving order.
func splitWildcards(cards []*models.Card, round int) (wild, normal []*models.Card) {
	for _, c := range cards {
		if IsWildcard(c, round) {
			wild = append(wild, c)
		} else {
			normal = append(normal, c)
		}
	}
	return wild, normal
}

// ValidateSet checks a set: 3+ cards, at least one normal card, all normal
// cards sharing one rank. Wildcards fill the remaining slots unconditionally.
func ValidateSet(cards []*models.Card, round int) bool {
	if len(cards) < MinCombinationSize {
		return false
	}
	_, normal := splitWildcards(cards, round)
	if len(normal) == 0 {
		return false
	}
	rank := normal[0].Rank
	for _, c := range normal {
		if c.Rank != rank {
			return false
		}
	}
	return true
}

// ValidateRun checks a run: 3+ same-suit cards of consecutive rank, with gaps
// between the sorted normal cards coverable by the combination's wildcards.
// Wildcards are not bound to positions; only counts are balanced.
func ValidateRun(cards []*models.Card, round int) bool {
	if len(cards) < MinCombinationSize {
		return false
	}
	wild, normal := splitWildcards(cards, round)

	if len(normal) > 0 {
		suit := normal[0].Suit
		for _, c := range normal {
			if c.Suit != suit {
				return false
			}
		}
	}

	ranks := make([]int, len(normal))
	for i, c := range normal {
		ranks[i] = int(c.Rank)
	}
	sort.Ints(ranks)

	wildcardsUsed := 0
	expected := 0
	if len(ranks) > 0 {
		expected = ranks[0]
	}
	for _, r := range ranks {
		gap := r - expected
		// Negative gap means a duplicate rank, which no wildcard can absorb.
		if gap < 0 || gap > len(wild)-wildcardsUsed {
			return false
		}
		wildcardsUsed += gap
		expected = r + 1
	}
	return true
}

// ValidateCombination dispatches on the combination's type tag.
func ValidateCombination(combo models.Combination, round int) bool {
	switch combo.Type {
	case models.CombinationRun:
		return ValidateRun(combo.Cards, round)
	case models.CombinationSet:
		return ValidateSet(combo.Cards, round)
	}
	return false
}

// ValidateLayDown is the authoritative gate for going out: the combinations
// must partition the player's entire hand, no card reused, no card left over,
// and every combination must individually validate. Returns nil when valid.
func ValidateLayDown(combinations []models.Combination, hand []*models.Card, round int) error {
	inHand := make(map[string]bool, len(hand))
	for _, card := range hand {
		inHand[card.ID] = true
	}

	used := make(map[string]bool)
	for _, combo := range combinations {
		for _, card := range combo.Cards {
			if !inHand[card.ID] {
				return fmt.Errorf("card not in hand: %s", card.ID)
			}
			if used[card.ID] {
				return ErrCardReused
			}
			used[card.ID] = true
		}
	}

	for _, card := range hand {
		if !used[card.ID] {
			return ErrHandNotCovered
		}
	}

	for _, combo := range combinations {
		if !ValidateCombination(combo, round) {
			return fmt.Errorf("invalid combination: %s", combo.Type)
		}
	}
	return nil
}
