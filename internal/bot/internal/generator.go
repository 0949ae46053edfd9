package internal

import "lexio/internal/domain"

// Candidate is a legal play the policy may choose.
type Candidate struct {
	Cards []domain.Card
	Hand  domain.Hand
}

// Family names the combination shapes an opening strategy prefers.
type Family int

const (
	FamilySingle Family = iota
	FamilyPair
	FamilyTriple
	FamilyFlush
)

// BeatingMoves enumerates every candidate of the pile's exact cardinality
// that beats the pile. The search mirrors the game's response rules:
// singles, same-rank pairs and triples, and for five-card piles only
// same-suit groups (straights and full houses are deliberately not
// searched as responses).
func BeatingMoves(hand []domain.Card, pile domain.Hand, maxRank domain.Rank) []Candidate {
	sorted := append([]domain.Card{}, hand...)
	domain.SortCards(sorted)

	var out []Candidate
	switch len(pile.Cards) {
	case 1:
		for _, c := range sorted {
			out = appendBeating(out, []domain.Card{c}, pile, maxRank)
		}
	case 2:
		for _, group := range rankGroups(sorted, 2) {
			out = appendBeating(out, group[:2], pile, maxRank)
		}
	case 3:
		for _, group := range rankGroups(sorted, 3) {
			out = appendBeating(out, group[:3], pile, maxRank)
		}
	case 5:
		for _, group := range suitGroups(sorted, 5) {
			for _, combo := range combinations(group, 5) {
				out = appendBeating(out, combo, pile, maxRank)
			}
		}
	}
	return out
}

func appendBeating(out []Candidate, cards []domain.Card, pile domain.Hand, maxRank domain.Rank) []Candidate {
	h := domain.Identify(cards, maxRank)
	if h.Category != domain.Invalid && domain.CanBeat(pile, h) {
		out = append(out, Candidate{Cards: cards, Hand: h})
	}
	return out
}

// OpeningMove picks a lead play by searching the preferred families in
// order, falling back to the single lowest card.
func OpeningMove(hand []domain.Card, prefs []Family, maxRank domain.Rank) Candidate {
	sorted := append([]domain.Card{}, hand...)
	domain.SortCards(sorted)

	for _, family := range prefs {
		switch family {
		case FamilyFlush:
			if cand, ok := lowestFlush(sorted, maxRank); ok {
				return cand
			}
		case FamilyTriple:
			if groups := rankGroups(sorted, 3); len(groups) > 0 {
				cards := groups[0][:3]
				return Candidate{Cards: cards, Hand: domain.Identify(cards, maxRank)}
			}
		case FamilyPair:
			if groups := rankGroups(sorted, 2); len(groups) > 0 {
				cards := groups[0][:2]
				return Candidate{Cards: cards, Hand: domain.Identify(cards, maxRank)}
			}
		case FamilySingle:
			// Explicit preference for the lowest single; same as fallback.
			cards := sorted[:1]
			return Candidate{Cards: cards, Hand: domain.Identify(cards, maxRank)}
		}
	}

	cards := sorted[:1]
	return Candidate{Cards: cards, Hand: domain.Identify(cards, maxRank)}
}

// lowestFlush returns the weakest five-card same-suit combination.
func lowestFlush(sorted []domain.Card, maxRank domain.Rank) (Candidate, bool) {
	var best Candidate
	found := false
	for _, group := range suitGroups(sorted, 5) {
		cards := group[:5]
		h := domain.Identify(cards, maxRank)
		if h.Category == domain.Invalid {
			continue
		}
		if !found || domain.CompareHands(h, best.Hand) < 0 {
			best = Candidate{Cards: cards, Hand: h}
			found = true
		}
	}
	return best, found
}

// rankGroups returns the card groups per rank with at least min members,
// ordered by ascending rank order. Input must be sorted.
func rankGroups(sorted []domain.Card, min int) [][]domain.Card {
	var groups [][]domain.Card
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j].Rank == sorted[i].Rank {
			j++
		}
		if j-i >= min {
			groups = append(groups, sorted[i:j])
		}
		i = j
	}
	// Power-sorted input keeps same ranks adjacent and groups ascending.
	return groups
}

// suitGroups returns the card groups per suit with at least min members,
// each ordered by ascending power.
func suitGroups(sorted []domain.Card, min int) [][]domain.Card {
	bySuit := make(map[domain.Suit][]domain.Card, 4)
	for _, c := range sorted {
		bySuit[c.Suit] = append(bySuit[c.Suit], c)
	}
	var groups [][]domain.Card
	for s := domain.SuitCloud; s <= domain.SuitSun; s++ {
		if len(bySuit[s]) >= min {
			groups = append(groups, bySuit[s])
		}
	}
	return groups
}

// combinations yields all k-card subsets of the group.
func combinations(group []domain.Card, k int) [][]domain.Card {
	if len(group) < k {
		return nil
	}
	var out [][]domain.Card
	pick := make([]domain.Card, 0, k)
	var walk func(start int)
	walk = func(start int) {
		if len(pick) == k {
			out = append(out, append([]domain.Card{}, pick...))
			return
		}
		for i := start; i <= len(group)-(k-len(pick)); i++ {
			pick = append(pick, group[i])
			walk(i + 1)
			pick = pick[:len(pick)-1]
		}
	}
	walk(0)
	return out
}
