package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidSeatCount flags a deck request outside the supported 3..5
// player range. It is a configuration error, not a game-rule error.
var ErrInvalidSeatCount = errors.New("seat count must be 3, 4 or 5")

// GameState is the lifecycle stage of a room's game.
type GameState string

const (
	// StateWaiting is the pre-deal state where players gather.
	StateWaiting GameState = "waiting"
	// StatePlaying is the active state where cards are played.
	StatePlaying GameState = "playing"
	// StateFinished is the state after a round settles.
	StateFinished GameState = "finished"
)

// Player holds one seat's state. Hand is concealed: only the owning seat
// (or the AI policy acting for it) may read it in full.
type Player struct {
	ID     string
	Name   string
	Hand   []Card
	IsHost bool
	IsAI   bool
	Active bool
	Score  int
}

// Pile is the most recently played, not-yet-beaten combination.
// Owner is the seat index that played it.
type Pile struct {
	Cards []Card
	Owner int
	Hand  Hand
}

// Game is the authoritative per-room aggregate. It is mutated only
// through the app service, serialized by the owning room actor.
type Game struct {
	State   GameState
	Players []*Player
	MaxRank Rank // deck ceiling of the current round
	Turn    int  // current seat index; always an active seat while playing
	Pile    *Pile
	Passes  int // consecutive passes since the pile was set
	Round   int
	Log     []string
}

// NewGame returns an empty aggregate in the waiting state.
func NewGame() *Game {
	return &Game{State: StateWaiting}
}

// ActiveSeats counts seats that have not departed.
func (g *Game) ActiveSeats() int {
	n := 0
	for _, p := range g.Players {
		if p.Active {
			n++
		}
	}
	return n
}

// NextActiveSeat returns the first active seat strictly after from,
// wrapping around, or -1 when no active seat exists.
func (g *Game) NextActiveSeat(from int) int {
	n := len(g.Players)
	for i := 1; i <= n; i++ {
		seat := (from + i) % n
		if g.Players[seat].Active {
			return seat
		}
	}
	return -1
}

// SeatOf resolves a player ID to its seat index, or -1.
func (g *Game) SeatOf(playerID string) int {
	for i, p := range g.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// HostSeat returns the seat index of the current host, or -1.
func (g *Game) HostSeat() int {
	for i, p := range g.Players {
		if p.IsHost {
			return i
		}
	}
	return -1
}

// Logf appends a formatted entry to the room log.
func (g *Game) Logf(format string, args ...any) {
	g.Log = append(g.Log, fmt.Sprintf(format, args...))
}
