package domain

// CompareHands totally orders two valid hands. Positive means a beats b.
// Hands of different categories compare by category alone; this is only
// meaningful for legality when both hands have the same size, which
// CanBeat enforces.
func CompareHands(a, b Hand) int {
	if a.Category != b.Category {
		return int(a.Category) - int(b.Category)
	}
	switch a.Category {
	case Single, Flush:
		return CompareCards(a.High, b.High)
	case Straight, StraightFlush:
		if a.StraightKind != b.StraightKind {
			return int(a.StraightKind) - int(b.StraightKind)
		}
		// Same run type: the designated high card decides, by rank
		// order for normal runs and by suit for the wrap runs.
		return CompareCards(a.High, b.High)
	case Pair, Triple, FullHouse, FourOfAKind:
		if d := RankOrder(a.Rank) - RankOrder(b.Rank); d != 0 {
			return d
		}
		return CompareCards(a.High, b.High)
	}
	return 0
}

// CanBeat reports whether next is a legal play over the current pile
// hand: identical cardinality and strictly stronger.
func CanBeat(pile, next Hand) bool {
	if next.Category == Invalid || pile.Category == Invalid {
		return false
	}
	if len(next.Cards) != len(pile.Cards) {
		return false
	}
	return CompareHands(next, pile) > 0
}
