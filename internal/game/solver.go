// internal/game/solver.go
package game

import (
	"sort"

	"github.com/Cassssian/five-crowns/internal/models"
)

// SolveHand auto-groups a hand into valid combinations using a greedy
// two-pass heuristic: sets first, then runs, with a single wildcard pool
// shared across all groups. Groups are visited in ascending rank order (sets)
// and fixed suit order (runs), so the greedy wildcard claims are fully
// deterministic. Cards the heuristic cannot place stay outside the result;
// callers must check full-hand coverage with ValidateLayDown before treating
// the result as a go-out.
//
// The heuristic is deliberately not optimal: the same bias is shared by the
// AI and the UI's auto lay-down action.
func SolveHand(hand []*models.Card, round int) []models.Combination {
	var combinations []models.Combination
	used := make(map[string]bool)

	// Wildcard pool in hand order; earlier groups get first claim.
	var pool []*models.Card
	for _, c := range hand {
		if IsWildcard(c, round) {
			pool = append(pool, c)
		}
	}
	availableWild := func() int {
		n := 0
		for _, w := range pool {
			if !used[w.ID] {
				n++
			}
		}
		return n
	}
	takeWild := func(count int) []*models.Card {
		taken := make([]*models.Card, 0, count)
		for _, w := range pool {
			if len(taken) == count {
				break
			}
			if !used[w.ID] {
				used[w.ID] = true
				taken = append(taken, w)
			}
		}
		return taken
	}

	// Pass 1: sets. Group unplaced normal cards by rank; any rank that can
	// reach three cards with the remaining wildcards becomes a set, consuming
	// all its normals plus exactly enough wildcards.
	byRank := make(map[models.Rank][]*models.Card)
	for _, c := range hand {
		if !used[c.ID] && !IsWildcard(c, round) {
			byRank[c.Rank] = append(byRank[c.Rank], c)
		}
	}
	setRanks := make([]int, 0, len(byRank))
	for r := range byRank {
		setRanks = append(setRanks, int(r))
	}
	sort.Ints(setRanks)

	for _, r := range setRanks {
		normals := byRank[models.Rank(r)]
		if len(normals)+availableWild() < MinCombinationSize {
			continue
		}
		need := MinCombinationSize - len(normals)
		if need < 0 {
			need = 0
		}
		cards := make([]*models.Card, 0, len(normals)+need)
		for _, c := range normals {
			used[c.ID] = true
			cards = append(cards, c)
		}
		cards = append(cards, takeWild(need)...)
		combinations = append(combinations, models.Combination{
			Type:  models.CombinationSet,
			Cards: cards,
		})
	}

	// Pass 2: runs. Group the still-unplaced normal cards by suit, walk each
	// suit ascending by rank, bridging internal gaps with wildcards and
	// padding short trailing buffers up to three when the pool allows.
	bySuit := make(map[models.Suit][]*models.Card)
	for _, c := range hand {
		if !used[c.ID] && !IsWildcard(c, round) {
			bySuit[c.Suit] = append(bySuit[c.Suit], c)
		}
	}

	for _, suit := range models.Suits {
		cards := bySuit[suit]
		if len(cards) == 0 {
			continue
		}
		sort.SliceStable(cards, func(i, j int) bool {
			return cards[i].Rank < cards[j].Rank
		})

		var run []*models.Card
		lastRank := 0

		finalize := func() {
			if len(run) == 0 {
				return
			}
			switch {
			case len(run) >= MinCombinationSize:
				for _, c := range run {
					used[c.ID] = true
				}
				combinations = append(combinations, models.Combination{
					Type:  models.CombinationRun,
					Cards: run,
				})
			case len(run)+availableWild() >= MinCombinationSize:
				need := MinCombinationSize - len(run)
				combo := append(run, takeWild(need)...)
				for _, c := range combo {
					used[c.ID] = true
				}
				combinations = append(combinations, models.Combination{
					Type:  models.CombinationRun,
					Cards: combo,
				})
			}
			// Buffers that never reach three are abandoned; their cards stay
			// unplaced.
			run = nil
		}

		for _, c := range cards {
			if len(run) == 0 {
				run = append(run, c)
				lastRank = int(c.Rank)
				continue
			}
			gap := int(c.Rank) - lastRank - 1
			switch {
			case gap == 0:
				run = append(run, c)
				lastRank = int(c.Rank)
			case gap >= 1 && gap <= availableWild():
				run = append(run, takeWild(gap)...)
				run = append(run, c)
				lastRank = int(c.Rank)
			default:
				finalize()
				run = append(run, c)
				lastRank = int(c.Rank)
			}
		}
		finalize()
	}

	return combinations
}
