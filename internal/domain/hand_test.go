package domain

import "testing"

func TestIdentify(t *testing.T) {
	tests := []struct {
		name     string
		cards    []Card
		maxRank  Rank
		category HandCategory
		kind     StraightType
	}{
		{
			name:     "single",
			cards:    []Card{{SuitMoon, 9}},
			maxRank:  13,
			category: Single,
		},
		{
			name:     "pair",
			cards:    []Card{{SuitCloud, 4}, {SuitSun, 4}},
			maxRank:  13,
			category: Pair,
		},
		{
			name:     "mismatched pair is no hand",
			cards:    []Card{{SuitCloud, 4}, {SuitSun, 5}},
			maxRank:  13,
			category: Invalid,
		},
		{
			name:     "triple",
			cards:    []Card{{SuitCloud, 11}, {SuitStar, 11}, {SuitMoon, 11}},
			maxRank:  13,
			category: Triple,
		},
		{
			name:     "four cards never form a hand",
			cards:    []Card{{SuitCloud, 11}, {SuitStar, 11}, {SuitMoon, 11}, {SuitSun, 11}},
			maxRank:  13,
			category: Invalid,
		},
		{
			name:     "straight flush normal run",
			cards:    []Card{{SuitCloud, 3}, {SuitCloud, 4}, {SuitCloud, 5}, {SuitCloud, 6}, {SuitCloud, 7}},
			maxRank:  13,
			category: StraightFlush,
			kind:     StraightNormal,
		},
		{
			name:     "one-and-two straight is recognized across suits",
			cards:    []Card{{SuitCloud, 1}, {SuitStar, 2}, {SuitMoon, 3}, {SuitSun, 4}, {SuitCloud, 5}},
			maxRank:  13,
			category: Straight,
			kind:     StraightOneAndTwo,
		},
		{
			name:     "two-only straight",
			cards:    []Card{{SuitCloud, 2}, {SuitStar, 3}, {SuitMoon, 4}, {SuitSun, 5}, {SuitCloud, 6}},
			maxRank:  13,
			category: Straight,
			kind:     StraightTwoOnly,
		},
		{
			name:     "top wrap straight ends at one",
			cards:    []Card{{SuitCloud, 10}, {SuitStar, 11}, {SuitMoon, 12}, {SuitSun, 13}, {SuitCloud, 1}},
			maxRank:  13,
			category: Straight,
			kind:     StraightOneAtEnd,
		},
		{
			name:     "top wrap respects three-player ceiling",
			cards:    []Card{{SuitCloud, 6}, {SuitStar, 7}, {SuitMoon, 8}, {SuitSun, 9}, {SuitCloud, 1}},
			maxRank:  9,
			category: Straight,
			kind:     StraightOneAtEnd,
		},
		{
			name:     "four of a kind",
			cards:    []Card{{SuitCloud, 7}, {SuitStar, 7}, {SuitMoon, 7}, {SuitSun, 7}, {SuitCloud, 2}},
			maxRank:  13,
			category: FourOfAKind,
		},
		{
			name:     "full house",
			cards:    []Card{{SuitCloud, 9}, {SuitStar, 9}, {SuitMoon, 9}, {SuitCloud, 4}, {SuitStar, 4}},
			maxRank:  13,
			category: FullHouse,
		},
		{
			name:     "flush",
			cards:    []Card{{SuitStar, 3}, {SuitStar, 5}, {SuitStar, 8}, {SuitStar, 11}, {SuitStar, 2}},
			maxRank:  13,
			category: Flush,
		},
		{
			name:     "two pair plus kicker is no hand",
			cards:    []Card{{SuitCloud, 9}, {SuitStar, 9}, {SuitCloud, 4}, {SuitStar, 4}, {SuitMoon, 6}},
			maxRank:  13,
			category: Invalid,
		},
		{
			name:     "run crossing the ceiling without the one is no straight",
			cards:    []Card{{SuitCloud, 11}, {SuitStar, 12}, {SuitMoon, 13}, {SuitSun, 1}, {SuitCloud, 2}},
			maxRank:  13,
			category: Invalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hand := Identify(tt.cards, tt.maxRank)
			if hand.Category != tt.category {
				t.Fatalf("category = %v, want %v", hand.Category, tt.category)
			}
			if tt.kind != StraightNone && hand.StraightKind != tt.kind {
				t.Errorf("straight kind = %v, want %v", hand.StraightKind, tt.kind)
			}
		})
	}
}

func TestIdentifyDefiningRanks(t *testing.T) {
	four := Identify([]Card{{SuitCloud, 7}, {SuitStar, 7}, {SuitMoon, 7}, {SuitSun, 7}, {SuitCloud, 2}}, 13)
	if four.Rank != 7 {
		t.Errorf("four of a kind rank = %d, want 7", four.Rank)
	}

	full := Identify([]Card{{SuitCloud, 9}, {SuitStar, 9}, {SuitMoon, 9}, {SuitCloud, 4}, {SuitStar, 4}}, 13)
	if full.Rank != 9 {
		t.Errorf("full house rank = %d, want the triple's 9", full.Rank)
	}
}

func TestStraightHighCardDesignation(t *testing.T) {
	oneAndTwo := Identify([]Card{{SuitCloud, 1}, {SuitStar, 2}, {SuitMoon, 3}, {SuitSun, 4}, {SuitCloud, 5}}, 13)
	if oneAndTwo.High.Rank != 2 {
		t.Errorf("one-and-two high = %v, want the 2", oneAndTwo.High)
	}

	wrap := Identify([]Card{{SuitCloud, 10}, {SuitStar, 11}, {SuitMoon, 12}, {SuitSun, 13}, {SuitMoon, 1}}, 13)
	if wrap.High.Rank != 1 {
		t.Errorf("top wrap high = %v, want the 1", wrap.High)
	}

	normal := Identify([]Card{{SuitCloud, 5}, {SuitStar, 6}, {SuitMoon, 7}, {SuitSun, 8}, {SuitCloud, 9}}, 13)
	if normal.High.Rank != 9 {
		t.Errorf("normal straight high = %v, want the 9", normal.High)
	}
}
