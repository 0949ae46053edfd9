package app

import "lexio/internal/domain"

// PlayerView is one seat as seen by an observer. Hand is populated only
// in views built for the owning seat; everyone else sees CardCount.
type PlayerView struct {
	Seat      int           `json:"seat"`
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	CardCount int           `json:"card_count"`
	Score     int           `json:"score"`
	IsHost    bool          `json:"is_host"`
	IsAI      bool          `json:"is_ai"`
	Active    bool          `json:"active"`
	Hand      []domain.Card `json:"hand,omitempty"`
}

// PileView is the public pile state.
type PileView struct {
	Cards    []domain.Card       `json:"cards"`
	Owner    int                 `json:"owner"`
	Category domain.HandCategory `json:"category"`
}

// GameView is the sanitized per-seat snapshot collaborators broadcast.
type GameView struct {
	State   domain.GameState `json:"state"`
	Round   int              `json:"round"`
	Turn    int              `json:"turn"`
	Passes  int              `json:"passes"`
	Pile    *PileView        `json:"pile,omitempty"`
	Players []PlayerView     `json:"players"`
	Log     []string         `json:"log"`
}

// Snapshot builds the view for one seat. forSeat < 0 yields a fully
// redacted spectator view. Concealed hands never leave the aggregate for
// any other seat; that redaction is a hard boundary, not cosmetics.
func Snapshot(g *domain.Game, forSeat int) GameView {
	view := GameView{
		State:   g.State,
		Round:   g.Round,
		Turn:    g.Turn,
		Passes:  g.Passes,
		Players: make([]PlayerView, len(g.Players)),
		Log:     append([]string{}, g.Log...),
	}
	if g.Pile != nil {
		view.Pile = &PileView{
			Cards:    append([]domain.Card{}, g.Pile.Cards...),
			Owner:    g.Pile.Owner,
			Category: g.Pile.Hand.Category,
		}
	}
	for i, p := range g.Players {
		pv := PlayerView{
			Seat:      i,
			ID:        p.ID,
			Name:      p.Name,
			CardCount: len(p.Hand),
			Score:     p.Score,
			IsHost:    p.IsHost,
			IsAI:      p.IsAI,
			Active:    p.Active,
		}
		if i == forSeat {
			pv.Hand = append([]domain.Card{}, p.Hand...)
		}
		view.Players[i] = pv
	}
	return view
}
