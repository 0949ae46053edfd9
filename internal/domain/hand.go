package domain

// HandCategory classifies a played combination. Categories form a total
// order; a higher category always beats a lower one of equal size.
type HandCategory int32

const (
	Invalid HandCategory = iota
	Single
	Pair
	Triple
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

var categoryNames = [...]string{
	"invalid", "single", "pair", "triple", "straight",
	"flush", "full house", "four of a kind", "straight flush",
}

func (c HandCategory) String() string {
	if c < Invalid || c > StraightFlush {
		return "invalid"
	}
	return categoryNames[c]
}

// StraightType sub-classifies a straight by Lexio's wraparound runs,
// in ascending strength.
type StraightType int32

const (
	StraightNone StraightType = iota
	StraightNormal
	StraightOneAtEnd // maxRank-3..maxRank plus the 1
	StraightTwoOnly  // 2,3,4,5,6
	StraightOneAndTwo
)

// Hand is an evaluated combination. Only the fields the category needs
// are populated: Rank for same-rank groups (pair/triple/full house/four),
// StraightKind for straights, High for every category.
type Hand struct {
	Category     HandCategory
	Cards        []Card
	Rank         Rank // defining rank, when the category has one
	High         Card // designated high card used to break ties
	StraightKind StraightType
}

// Identify classifies cards into a Hand. Sizes other than 1, 2, 3 and 5
// and unrecognized 5-card shapes yield Category == Invalid; that is a
// legality signal, not an error. maxRank is the deck ceiling of the
// round, needed for the top-wrap straight.
func Identify(cards []Card, maxRank Rank) Hand {
	switch len(cards) {
	case 1:
		return Hand{Category: Single, Cards: cards, Rank: cards[0].Rank, High: cards[0]}
	case 2:
		if cards[0].Rank != cards[1].Rank {
			return Hand{Category: Invalid}
		}
		return Hand{Category: Pair, Cards: cards, Rank: cards[0].Rank, High: highestCard(cards)}
	case 3:
		if cards[0].Rank != cards[1].Rank || cards[1].Rank != cards[2].Rank {
			return Hand{Category: Invalid}
		}
		return Hand{Category: Triple, Cards: cards, Rank: cards[0].Rank, High: highestCard(cards)}
	case 5:
		return identifyFive(cards, maxRank)
	default:
		return Hand{Category: Invalid}
	}
}

// identifyFive applies the five-card classification in fixed order:
// straight flush, four of a kind, full house, flush, straight.
func identifyFive(cards []Card, maxRank Rank) Hand {
	flush := true
	for _, c := range cards {
		if c.Suit != cards[0].Suit {
			flush = false
			break
		}
	}

	kind, high := straightOf(cards, maxRank)

	if flush && kind != StraightNone {
		return Hand{Category: StraightFlush, Cards: cards, High: high, StraightKind: kind}
	}

	counts := make(map[Rank]int, 5)
	for _, c := range cards {
		counts[c.Rank]++
	}
	for rank, n := range counts {
		switch n {
		case 4:
			return Hand{Category: FourOfAKind, Cards: cards, Rank: rank, High: highestOfRank(cards, rank)}
		case 3:
			if len(counts) == 2 {
				return Hand{Category: FullHouse, Cards: cards, Rank: rank, High: highestOfRank(cards, rank)}
			}
		}
	}

	if flush {
		return Hand{Category: Flush, Cards: cards, High: highestCard(cards)}
	}
	if kind != StraightNone {
		return Hand{Category: Straight, Cards: cards, High: high, StraightKind: kind}
	}
	return Hand{Category: Invalid}
}

// straightOf detects the recognized five-card runs and returns the
// straight type with its designated high card: the 2 for the 1-2-3-4-5
// and 2-3-4-5-6 runs, the 1 for the top-wrap run, the naturally highest
// card otherwise.
func straightOf(cards []Card, maxRank Rank) (StraightType, Card) {
	seen := make(map[Rank]bool, 5)
	for _, c := range cards {
		if seen[c.Rank] {
			return StraightNone, Card{}
		}
		seen[c.Rank] = true
	}

	switch {
	case seen[1] && seen[2] && seen[3] && seen[4] && seen[5]:
		return StraightOneAndTwo, cardOfRank(cards, 2)
	case seen[2] && seen[3] && seen[4] && seen[5] && seen[6]:
		return StraightTwoOnly, cardOfRank(cards, 2)
	case seen[1] && seen[maxRank] && seen[maxRank-1] && seen[maxRank-2] && seen[maxRank-3]:
		return StraightOneAtEnd, cardOfRank(cards, 1)
	}

	low := Rank(0)
	for r := range seen {
		if low == 0 || r < low {
			low = r
		}
	}
	if low < 3 || low+4 > maxRank {
		return StraightNone, Card{}
	}
	for r := low; r < low+5; r++ {
		if !seen[r] {
			return StraightNone, Card{}
		}
	}
	return StraightNormal, highestCard(cards)
}

func cardOfRank(cards []Card, rank Rank) Card {
	for _, c := range cards {
		if c.Rank == rank {
			return c
		}
	}
	return Card{}
}

func highestOfRank(cards []Card, rank Rank) Card {
	var best Card
	found := false
	for _, c := range cards {
		if c.Rank != rank {
			continue
		}
		if !found || CompareCards(c, best) > 0 {
			best = c
			found = true
		}
	}
	return best
}

func highestCard(cards []Card) Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if CompareCards(c, best) > 0 {
			best = c
		}
	}
	return best
}
