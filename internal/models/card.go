// internal/models/card.go
package models

// Suit is one of the five Five Crowns suits. Suit is meaningless for the six
// permanent jokers.
type Suit string

const (
	SuitStars    Suit = "stars"
	SuitHearts   Suit = "hearts"
	SuitClubs    Suit = "clubs"
	SuitSpades   Suit = "spades"
	SuitDiamonds Suit = "diamonds"
)

// Suits lists every suit in deck-construction order.
var Suits = []Suit{SuitStars, SuitHearts, SuitClubs, SuitSpades, SuitDiamonds}

// Rank is the card value. The deck spans 3 through king; RankJoker is reserved
// for the permanent jokers.
type Rank int

const (
	RankJoker Rank = 0
	RankThree Rank = 3
	RankFour  Rank = 4
	RankFive  Rank = 5
	RankSix   Rank = 6
	RankSeven Rank = 7
	RankEight Rank = 8
	RankNine  Rank = 9
	RankTen   Rank = 10
	RankJack  Rank = 11
	RankQueen Rank = 12
	RankKing  Rank = 13
)

// Ranks lists the eleven ranked values, ascending. Jokers are excluded.
var Ranks = []Rank{
	RankThree, RankFour, RankFive, RankSix, RankSeven, RankEight,
	RankNine, RankTen, RankJack, RankQueen, RankKing,
}

// Card is immutable once created. ID is the only field ever compared for
// membership or removal.
type Card struct {
	ID      string `json:"id"`
	Suit    Suit   `json:"suit"`
	Rank    Rank   `json:"value"`
	IsJoker bool   `json:"isJoker"`
}

// CombinationType tags a combination as a run or a set.
type CombinationType string

const (
	CombinationRun CombinationType = "run"
	CombinationSet CombinationType = "set"
)

// Combination is a candidate grouping of cards submitted for a lay-down.
type Combination struct {
	Type  CombinationType `json:"type"`
	Cards []*Card         `json:"cards"`
}
