// internal/game/deck.go
package game

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/Cassssian/five-crowns/internal/models"
)

// ErrInsufficientCards is returned by Deal when the deck cannot cover the
// requested round and player count. This is a configuration bug (too many
// players for the round's hand size) and must abort round setup.
var ErrInsufficientCards = errors.New("not enough cards in deck")

// NewDeck builds the full 116-card Five Crowns deck in deterministic order:
// two full suit-by-rank sweeps, then the six permanent jokers. Card IDs encode
// suit, rank and occurrence index; jokers use their own scheme.
func NewDeck() []*models.Card {
	deck := make([]*models.Card, 0, DeckSize)
	cardIndex := 0
	for copyNum := 0; copyNum < 2; copyNum++ {
		for _, suit := range models.Suits {
			for _, rank := range models.Ranks {
				deck = append(deck, &models.Card{
					ID:   fmt.Sprintf("%s_%d_%d", suit, rank, cardIndex),
					Suit: suit,
					Rank: rank,
				})
				cardIndex++
			}
		}
	}
	for i := 0; i < JokerCount; i++ {
		deck = append(deck, &models.Card{
			ID:      fmt.Sprintf("joker_%d", i),
			Suit:    models.SuitStars, // arbitrary, never consulted
			Rank:    models.RankJoker,
			IsJoker: true,
		})
	}
	return deck
}

// Shuffle returns a new slice holding the deck in uniformly random order
// (Fisher-Yates). The input is not mutated.
func Shuffle(deck []*models.Card, rng *rand.Rand) []*models.Card {
	shuffled := make([]*models.Card, len(deck))
	copy(shuffled, deck)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// Deal slices a shuffled deck into per-player hands, one discard seed card and
// the remaining draw pile. Deterministic given deck order; all randomness
// comes from the prior Shuffle.
func Deal(deck []*models.Card, numPlayers, round int) (hands [][]*models.Card, discardSeed *models.Card, remaining []*models.Card, err error) {
	cardsPerPlayer := CardsPerRound(round)
	needed := cardsPerPlayer*numPlayers + 1 // +1 seeds the discard pile
	if cardsPerPlayer == 0 || len(deck) < needed {
		return nil, nil, nil, ErrInsufficientCards
	}

	hands = make([][]*models.Card, numPlayers)
	idx := 0
	for i := 0; i < numPlayers; i++ {
		hand := make([]*models.Card, cardsPerPlayer)
		copy(hand, deck[idx:idx+cardsPerPlayer])
		hands[i] = hand
		idx += cardsPerPlayer
	}
	discardSeed = deck[idx]
	idx++
	remaining = deck[idx:]
	return hands, discardSeed, remaining, nil
}
