package bot

import "lexio/internal/domain"

// Move represents the decision made by the AI: a pass or a set of cards.
type Move struct {
	Pass  bool
	Cards []domain.Card
}

// Brain is the interface all bot policies implement. CalculateMove must
// be a pure decision over the game state and the seat's own hand; the
// chosen move is applied through the same validation path as a human
// submission.
type Brain interface {
	CalculateMove(g *domain.Game, seat int) (Move, error)
}
