package app

import "lexio/internal/domain"

// EventKind identifies emitted game events for transport dispatch.
type EventKind string

const (
	EventRoundStarted EventKind = "round_started"
	EventHandDealt    EventKind = "hand_dealt"
	EventCardsPlayed  EventKind = "cards_played"
	EventTurnPassed   EventKind = "turn_passed"
	EventPileCleared  EventKind = "pile_cleared"
	EventRoundEnded   EventKind = "round_ended"
	EventPlayerLeft   EventKind = "player_left"
)

// Event is a game event with optional targeted recipients.
// Empty Recipients means broadcast; hand contents are only ever carried
// by events addressed to their owner.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // player IDs
}

type RoundStartedPayload struct {
	Round      int
	LeaderSeat int
	SeatCounts []int // cards per seat, by seat index
}

type HandDealtPayload struct {
	Seat     int
	PlayerID string
	Hand     []domain.Card
}

type CardsPlayedPayload struct {
	Seat         int
	Cards        []domain.Card
	Category     domain.HandCategory
	NextTurnSeat int
}

type TurnPassedPayload struct {
	Seat         int
	NextTurnSeat int
}

// PileClearedPayload announces a trick won by all-pass: the pile owner
// becomes leader and may open with any size.
type PileClearedPayload struct {
	LeaderSeat int
}

type RoundEndedPayload struct {
	WinnerSeat int
	Penalties  map[int]int // seat -> penalty paid (winner absent)
	Scores     []int       // running totals by seat index
}

type PlayerLeftPayload struct {
	Seat         int
	PlayerID     string
	NextTurnSeat int
	NewHostSeat  int
}
