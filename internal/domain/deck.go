package domain

import (
	"fmt"
	"sort"
)

// MaxRankForSeats returns the deck ceiling for the given seat count:
// 3 players play with ranks 1..9, 4 with 1..13, 5 with 1..15.
func MaxRankForSeats(seats int) (Rank, error) {
	switch seats {
	case 3:
		return 9, nil
	case 4:
		return 13, nil
	case 5:
		return 15, nil
	default:
		return 0, fmt.Errorf("unsupported seat count %d: %w", seats, ErrInvalidSeatCount)
	}
}

// NewDeck returns the ordered deck for the given seat count: every
// (suit, rank) pair with rank in 1..maxRank, 4*maxRank cards total.
func NewDeck(seats int) ([]Card, error) {
	maxRank, err := MaxRankForSeats(seats)
	if err != nil {
		return nil, err
	}
	deck := make([]Card, 0, 4*int(maxRank))
	for s := SuitCloud; s <= SuitSun; s++ {
		for r := Rank(1); r <= maxRank; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck, nil
}

// Deal splits a shuffled deck into equal hands of floor(len/seats) cards,
// each sorted ascending by power. With the supported seat counts the
// division is exact, so no cards are left over.
func Deal(deck []Card, seats int) [][]Card {
	size := len(deck) / seats
	hands := make([][]Card, seats)
	for i := 0; i < seats; i++ {
		hand := append([]Card{}, deck[i*size:(i+1)*size]...)
		SortCards(hand)
		hands[i] = hand
	}
	return hands
}

// SortCards orders cards by ascending power in place.
func SortCards(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		return CardPower(cards[i]) < CardPower(cards[j])
	})
}

// RemoveCards removes the specified cards from a hand and returns the
// updated hand, using multiset semantics.
func RemoveCards(hand []Card, toRemove []Card) []Card {
	if len(toRemove) == 0 || len(hand) == 0 {
		return hand
	}

	removeCounts := make(map[Card]int, len(toRemove))
	for _, card := range toRemove {
		removeCounts[card]++
	}

	updated := make([]Card, 0, len(hand))
	for _, card := range hand {
		if count, ok := removeCounts[card]; ok && count > 0 {
			removeCounts[card] = count - 1
			continue
		}
		updated = append(updated, card)
	}
	return updated
}

// ContainsCards reports whether the hand holds every card in want.
func ContainsCards(hand []Card, want []Card) bool {
	have := make(map[Card]int, len(hand))
	for _, c := range hand {
		have[c]++
	}
	for _, c := range want {
		if have[c] == 0 {
			return false
		}
		have[c]--
	}
	return true
}
