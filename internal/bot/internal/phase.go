package internal

import "lexio/internal/domain"

// GamePhase describes the current strategic stage for one seat.
type GamePhase int

const (
	// PhaseEarly indicates the seat still holds more than 7 cards.
	PhaseEarly GamePhase = iota
	// PhaseMid indicates the seat holds 7 cards or fewer.
	PhaseMid
	// PhaseEnd indicates the seat holds 3 cards or fewer.
	PhaseEnd
)

// Situation summarizes the public state from one seat's perspective.
type Situation struct {
	OwnCount    int
	MinOpponent int
	MaxOpponent int
	Phase       GamePhase
	Winning     bool // own count <= every opponent's
	Behind      bool // own count > every opponent's
}

// Assess computes the situation summary for the given seat.
func Assess(g *domain.Game, seat int) Situation {
	sit := Situation{OwnCount: len(g.Players[seat].Hand)}

	first := true
	for i, p := range g.Players {
		if i == seat || !p.Active {
			continue
		}
		n := len(p.Hand)
		if first {
			sit.MinOpponent, sit.MaxOpponent = n, n
			first = false
			continue
		}
		if n < sit.MinOpponent {
			sit.MinOpponent = n
		}
		if n > sit.MaxOpponent {
			sit.MaxOpponent = n
		}
	}

	switch {
	case sit.OwnCount <= 3:
		sit.Phase = PhaseEnd
	case sit.OwnCount <= 7:
		sit.Phase = PhaseMid
	default:
		sit.Phase = PhaseEarly
	}

	if !first {
		sit.Winning = sit.OwnCount <= sit.MinOpponent
		sit.Behind = sit.OwnCount > sit.MaxOpponent
	} else {
		// No active opponents left; degenerate but callable.
		sit.Winning = true
	}
	return sit
}
