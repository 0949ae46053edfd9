package room

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"lexio/internal/app"
	"lexio/internal/bot"
	"lexio/internal/config"
	"lexio/internal/domain"
	"lexio/internal/history"
)

var (
	ErrRoomFull       = errors.New("room is full")
	ErrRoomClosed     = errors.New("room is closed")
	ErrAlreadySeated  = errors.New("player already seated")
	ErrNotSeated      = errors.New("player is not seated in this room")
	ErrNotHost        = errors.New("only the host may do that")
	ErrGameInProgress = errors.New("round already in progress")
)

// Sender delivers room messages to connected clients. The websocket and
// match-handler transports both implement it.
type Sender interface {
	Broadcast(kind string, payload any)
	SendTo(playerID string, kind string, payload any)
}

// Room owns one Lexio table: the aggregate, its service, and the AI
// pacing. All methods are safe for concurrent use; the mutex makes the
// room a single-writer actor over its game state.
type Room struct {
	ID uuid.UUID

	mu     sync.Mutex
	game   *domain.Game
	svc    *app.Service
	sender Sender
	cfg    *config.GameConfig
	rng    *rand.Rand
	log    *logrus.Entry

	// aiSeq invalidates scheduled AI triggers: every state transition
	// bumps it, and a fired timer whose captured value no longer matches
	// is discarded before it touches the game.
	aiSeq  uint64
	closed bool
}

// New creates an empty room.
func New(sender Sender, cfg *config.GameConfig, rng *rand.Rand) *Room {
	if cfg == nil {
		cfg = config.GetGameConfig()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	id := uuid.New()
	r := &Room{
		ID:     id,
		game:   domain.NewGame(),
		svc:    app.NewService(rng),
		sender: sender,
		cfg:    cfg,
		rng:    rng,
		log:    logrus.WithField("room_id", id),
	}
	r.svc.StartingScore = cfg.StartingScore
	return r
}

// Join seats a player. The first human seat becomes host. A player who
// departed between rounds gets their old seat reactivated rather than a
// duplicate entry.
func (r *Room) Join(playerID, name string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return -1, ErrRoomClosed
	}
	seat := r.game.SeatOf(playerID)
	if seat != -1 && r.game.Players[seat].Active {
		return -1, ErrAlreadySeated
	}
	if r.game.State == domain.StatePlaying {
		return -1, ErrGameInProgress
	}

	if seat != -1 {
		p := r.game.Players[seat]
		p.Active = true
		p.Name = name
		if r.game.HostSeat() == -1 {
			p.IsHost = true
		}
		r.log.WithFields(logrus.Fields{"player_id": playerID, "seat": seat}).Info("player rejoined")

		r.sender.Broadcast("player_joined", map[string]any{"seat": seat, "id": playerID, "name": name})
		r.broadcastViews()
		return seat, nil
	}

	if len(r.game.Players) >= r.cfg.MaxPlayers {
		return -1, ErrRoomFull
	}

	p := &domain.Player{
		ID:     playerID,
		Name:   name,
		IsHost: r.game.HostSeat() == -1,
		Active: true,
	}
	r.game.Players = append(r.game.Players, p)
	seat = len(r.game.Players) - 1
	r.log.WithFields(logrus.Fields{"player_id": playerID, "seat": seat}).Info("player joined")

	r.sender.Broadcast("player_joined", map[string]any{"seat": seat, "id": playerID, "name": name})
	r.broadcastViews()
	return seat, nil
}

// AddBot seats an AI player. Host only.
func (r *Room) AddBot(requesterID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return -1, ErrRoomClosed
	}
	if err := r.requireHost(requesterID); err != nil {
		return -1, err
	}
	if len(r.game.Players) >= r.cfg.MaxPlayers {
		return -1, ErrRoomFull
	}
	if r.game.State == domain.StatePlaying {
		return -1, ErrGameInProgress
	}

	identity := bot.IdentityAt(len(r.game.Players))
	p := &domain.Player{
		ID:     fmt.Sprintf("%s.%s", identity.ID, r.ID),
		Name:   identity.DisplayName,
		IsAI:   true,
		Active: true,
	}
	r.game.Players = append(r.game.Players, p)
	seat := len(r.game.Players) - 1
	r.log.WithFields(logrus.Fields{"bot": p.Name, "seat": seat}).Info("bot added")

	r.sender.Broadcast("player_joined", map[string]any{"seat": seat, "id": p.ID, "name": p.Name, "is_ai": true})
	r.broadcastViews()
	return seat, nil
}

// Start deals a round. Host only, and the table must seat at least the
// configured minimum of active players.
func (r *Room) Start(requesterID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRoomClosed
	}
	if err := r.requireHost(requesterID); err != nil {
		return err
	}
	if r.game.State == domain.StatePlaying {
		return ErrGameInProgress
	}
	if r.activeCount() < r.cfg.MinPlayers {
		return app.ErrInsufficientPlayers
	}

	events, err := r.svc.StartRound(r.game)
	if err != nil {
		return err
	}
	r.afterTransition(events)
	return nil
}

// Play applies a card play by the given player.
func (r *Room) Play(playerID string, cards []domain.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRoomClosed
	}
	seat := r.game.SeatOf(playerID)
	if seat == -1 {
		return ErrNotSeated
	}
	events, err := r.svc.PlayCards(r.game, seat, cards)
	if err != nil {
		return err
	}
	r.afterTransition(events)
	return nil
}

// Pass applies a pass by the given player.
func (r *Room) Pass(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRoomClosed
	}
	seat := r.game.SeatOf(playerID)
	if seat == -1 {
		return ErrNotSeated
	}
	events, err := r.svc.PassTurn(r.game, seat)
	if err != nil {
		return err
	}
	r.afterTransition(events)
	return nil
}

// Leave marks the player departed. The room closes once no active human
// remains.
func (r *Room) Leave(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRoomClosed
	}
	seat := r.game.SeatOf(playerID)
	if seat == -1 || !r.game.Players[seat].Active {
		return ErrNotSeated
	}

	events, err := r.svc.LeaveSeat(r.game, seat)
	if err != nil {
		return err
	}
	r.afterTransition(events)

	if !r.hasActiveHuman() {
		r.closeLocked()
	}
	return nil
}

// View returns the sanitized snapshot for one player, or the spectator
// view for unknown IDs.
func (r *Room) View(playerID string) app.GameView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return app.Snapshot(r.game, r.game.SeatOf(playerID))
}

// Close tears the room down and invalidates pending AI triggers.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeLocked()
}

// Closed reports whether the room has been torn down.
func (r *Room) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Occupancy returns seated and maximum player counts for lobby listings.
func (r *Room) Occupancy() (seated, max int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.game.Players), r.cfg.MaxPlayers
}

func (r *Room) closeLocked() {
	if r.closed {
		return
	}
	r.closed = true
	r.aiSeq++
	r.log.Info("room closed")
}

func (r *Room) requireHost(playerID string) error {
	seat := r.game.SeatOf(playerID)
	if seat == -1 {
		return ErrNotSeated
	}
	if !r.game.Players[seat].IsHost {
		return ErrNotHost
	}
	return nil
}

func (r *Room) activeCount() int {
	n := 0
	for _, p := range r.game.Players {
		if p.Active {
			n++
		}
	}
	return n
}

func (r *Room) hasActiveHuman() bool {
	for _, p := range r.game.Players {
		if p.Active && !p.IsAI {
			return true
		}
	}
	return false
}

// afterTransition dispatches events, refreshes views, records finished
// rounds, and schedules the next AI move. Callers hold the mutex.
func (r *Room) afterTransition(events []app.Event) {
	r.aiSeq++
	r.dispatch(events)
	r.broadcastViews()

	for _, ev := range events {
		if ev.Kind == app.EventRoundEnded {
			r.recordRound(ev.Payload.(app.RoundEndedPayload))
		}
	}

	if r.game.State == domain.StatePlaying {
		current := r.game.Players[r.game.Turn]
		if current.IsAI && current.Active {
			r.scheduleAITurn(r.game.Turn)
		}
	}
}

func (r *Room) dispatch(events []app.Event) {
	for _, ev := range events {
		if len(ev.Recipients) == 0 {
			r.sender.Broadcast(string(ev.Kind), ev.Payload)
			continue
		}
		for _, id := range ev.Recipients {
			r.sender.SendTo(id, string(ev.Kind), ev.Payload)
		}
	}
}

// broadcastViews pushes each human seat its own redacted snapshot.
func (r *Room) broadcastViews() {
	for i, p := range r.game.Players {
		if p.IsAI || !p.Active {
			continue
		}
		r.sender.SendTo(p.ID, "state", app.Snapshot(r.game, i))
	}
}

// scheduleAITurn arms a delayed trigger for the seat. The captured
// sequence number discards the timer if any other transition lands first.
func (r *Room) scheduleAITurn(seat int) {
	seq := r.aiSeq
	delay := r.botDelay()
	time.AfterFunc(delay, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.closed || seq != r.aiSeq {
			return
		}
		events, err := r.svc.TriggerAITurn(r.game, seat)
		if err != nil {
			r.log.WithError(err).Error("ai turn failed, abandoning room")
			r.closeLocked()
			return
		}
		if events == nil {
			return
		}
		r.afterTransition(events)
	})
}

func (r *Room) botDelay() time.Duration {
	min := r.cfg.BotMinDelayMs
	span := r.cfg.BotMaxDelayMs - min
	if span <= 0 {
		return time.Duration(min) * time.Millisecond
	}
	return time.Duration(min+r.rng.Intn(span+1)) * time.Millisecond
}

func (r *Room) recordRound(payload app.RoundEndedPayload) {
	ids := make([]string, len(r.game.Players))
	for i, p := range r.game.Players {
		ids[i] = p.ID
	}
	record := history.RoundRecord{
		RoomID:     r.ID,
		Round:      r.game.Round,
		WinnerSeat: payload.WinnerSeat,
		Penalties:  payload.Penalties,
		Scores:     payload.Scores,
		PlayerIDs:  ids,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := history.PublishRound(ctx, record); err != nil {
		r.log.WithError(err).Warn("failed to publish round record")
	}
}
