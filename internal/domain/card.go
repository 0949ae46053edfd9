package domain

import "fmt"

// Suit enumerates the four Lexio suits in ascending strength.
type Suit int32

const (
	SuitCloud Suit = iota
	SuitStar
	SuitMoon
	SuitSun
)

var suitNames = [...]string{"cloud", "star", "moon", "sun"}

func (s Suit) String() string {
	if s < SuitCloud || s > SuitSun {
		return fmt.Sprintf("suit(%d)", int32(s))
	}
	return suitNames[s]
}

// Rank is a Lexio tile number, 1..15. Numeric order is not play order:
// the play order runs 3,4,...,15,1,2 with 2 the strongest tile.
type Rank int32

// Card is a single Lexio tile.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

func (c Card) String() string {
	return fmt.Sprintf("%s-%d", c.Suit, c.Rank)
}

// RankOrder maps a rank to its position in the play order 3..15,1,2.
func RankOrder(r Rank) int {
	switch r {
	case 1:
		return 13
	case 2:
		return 14
	default:
		return int(r) - 3
	}
}

// CardPower collapses (rank order, suit) into a single comparable value.
// No two cards of one deck share a power.
func CardPower(c Card) int {
	return RankOrder(c.Rank)*4 + int(c.Suit)
}

// CompareCards returns a negative value if a is weaker than b, positive if
// stronger, zero only for the identical card. Rank order decides first,
// suit breaks ties.
func CompareCards(a, b Card) int {
	return CardPower(a) - CardPower(b)
}
