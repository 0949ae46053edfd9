package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"lexio/internal/bot"
	"lexio/internal/domain"
)

// Illegal-move and configuration errors. All leave state unchanged and
// are reported to the submitting actor only.
var (
	ErrInsufficientPlayers   = errors.New("need at least 3 active players to start")
	ErrNotPlaying            = errors.New("round is not in progress")
	ErrUnknownSeat           = errors.New("no active player at that seat")
	ErrNotYourTurn           = errors.New("not your turn")
	ErrCardsNotHeld          = errors.New("cards are not in your hand")
	ErrInvalidCombination    = errors.New("cards do not form a playable combination")
	ErrMustMatchPileSize     = errors.New("play must match the pile's card count")
	ErrMustBeatPile          = errors.New("play does not beat the pile")
	ErrCannotPassOnEmptyPile = errors.New("cannot pass when leading")
)

// Internal invariant violations. The room layer treats these as fatal
// for the round and abandons the room rather than limping forward.
var (
	ErrMissingLeadCard = errors.New("cloud 3 not found in any dealt hand")
	ErrNoActiveSeats   = errors.New("no active seats remain")
	ErrAIChainStalled  = errors.New("ai turn chain exceeded its bound")
)

// DefaultStartingScore is each player's baseline before the first round.
const DefaultStartingScore = 100

// Service applies Lexio game transitions to a domain aggregate. It holds
// no room registry; callers own the aggregate and its serialization.
type Service struct {
	rng   *rand.Rand
	brain bot.Brain

	// StartingScore is applied to every seat on the first deal.
	StartingScore int
}

// NewService constructs a Service with the provided rng or a time-seeded
// default. The same rng drives shuffling and the AI policy.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		rng:           rng,
		brain:         bot.NewStandardBrain(rng),
		StartingScore: DefaultStartingScore,
	}
}

// StartRound deals a fresh round. Departed seats are dropped from the
// player list here, so seat indices are stable for the whole round.
// The holder of cloud-3 leads.
func (s *Service) StartRound(g *domain.Game) ([]Event, error) {
	active := make([]*domain.Player, 0, len(g.Players))
	for _, p := range g.Players {
		if p.Active {
			active = append(active, p)
		}
	}
	if len(active) < 3 {
		return nil, ErrInsufficientPlayers
	}

	deck, err := domain.NewDeck(len(active))
	if err != nil {
		return nil, err
	}
	maxRank, _ := domain.MaxRankForSeats(len(active))

	s.rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	hands := domain.Deal(deck, len(active))

	if g.Round == 0 {
		for _, p := range active {
			p.Score = s.StartingScore
		}
	}

	g.Players = active
	g.MaxRank = maxRank
	g.Pile = nil
	g.Passes = 0
	g.Round++

	leader := -1
	events := make([]Event, 0, len(active)+1)
	counts := make([]int, len(active))
	for i, p := range active {
		p.Hand = hands[i]
		counts[i] = len(hands[i])
		if domain.ContainsCards(p.Hand, []domain.Card{{Suit: domain.SuitCloud, Rank: 3}}) {
			leader = i
		}
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{Seat: i, PlayerID: p.ID, Hand: p.Hand},
			Recipients: []string{p.ID},
		})
	}
	if leader == -1 {
		// Cannot occur with a complete deck; corrupted deal.
		return nil, ErrMissingLeadCard
	}

	g.State = domain.StatePlaying
	g.Turn = leader
	g.Logf("round %d started, %s leads with the cloud 3", g.Round, active[leader].Name)

	events = append(events, Event{
		Kind:    EventRoundStarted,
		Payload: RoundStartedPayload{Round: g.Round, LeaderSeat: leader, SeatCounts: counts},
	})
	return events, nil
}

// PlayCards validates and applies a play by the given seat.
func (s *Service) PlayCards(g *domain.Game, seat int, cards []domain.Card) ([]Event, error) {
	player, err := actingPlayer(g, seat)
	if err != nil {
		return nil, err
	}
	if !domain.ContainsCards(player.Hand, cards) {
		return nil, ErrCardsNotHeld
	}

	hand := domain.Identify(cards, g.MaxRank)
	if hand.Category == domain.Invalid {
		return nil, ErrInvalidCombination
	}
	if g.Pile != nil {
		if len(cards) != len(g.Pile.Cards) {
			return nil, ErrMustMatchPileSize
		}
		if domain.CompareHands(hand, g.Pile.Hand) <= 0 {
			return nil, ErrMustBeatPile
		}
	}

	player.Hand = domain.RemoveCards(player.Hand, cards)
	g.Pile = &domain.Pile{Cards: cards, Owner: seat, Hand: hand}
	g.Passes = 0
	g.Logf("%s plays %s (%v)", player.Name, hand.Category, cards)

	if len(player.Hand) == 0 {
		events := []Event{{
			Kind:    EventCardsPlayed,
			Payload: CardsPlayedPayload{Seat: seat, Cards: cards, Category: hand.Category, NextTurnSeat: -1},
		}}
		return append(events, s.settleRound(g, seat)...), nil
	}

	next := g.NextActiveSeat(seat)
	if next == -1 {
		return nil, ErrNoActiveSeats
	}
	g.Turn = next
	return []Event{{
		Kind:    EventCardsPlayed,
		Payload: CardsPlayedPayload{Seat: seat, Cards: cards, Category: hand.Category, NextTurnSeat: next},
	}}, nil
}

// PassTurn applies a pass. Accumulating activeSeats-1 consecutive passes
// clears the pile and hands the lead back to its owner.
func (s *Service) PassTurn(g *domain.Game, seat int) ([]Event, error) {
	player, err := actingPlayer(g, seat)
	if err != nil {
		return nil, err
	}
	if g.Pile == nil {
		return nil, ErrCannotPassOnEmptyPile
	}

	g.Passes++
	g.Logf("%s passes", player.Name)

	if g.Passes >= g.ActiveSeats()-1 {
		events := []Event{{
			Kind:    EventTurnPassed,
			Payload: TurnPassedPayload{Seat: seat, NextTurnSeat: -1},
		}}
		return append(events, s.clearPile(g)...), nil
	}

	next := g.NextActiveSeat(seat)
	if next == -1 {
		return nil, ErrNoActiveSeats
	}
	g.Turn = next
	return []Event{{
		Kind:    EventTurnPassed,
		Payload: TurnPassedPayload{Seat: seat, NextTurnSeat: next},
	}}, nil
}

// clearPile ends a trick: the pile owner leads again with no size
// constraint. A departed owner forfeits the lead to the next active seat.
func (s *Service) clearPile(g *domain.Game) []Event {
	leader := g.Pile.Owner
	if !g.Players[leader].Active {
		leader = g.NextActiveSeat(leader)
	}
	g.Pile = nil
	g.Passes = 0
	g.Turn = leader
	g.Logf("%s becomes leader", g.Players[leader].Name)
	return []Event{{
		Kind:    EventPileCleared,
		Payload: PileClearedPayload{LeaderSeat: leader},
	}}
}

// settleRound converts the terminal hand state into score deltas:
// each active loser pays remaining × 2^(rank-2 count), the winner gains
// the sum. Inactive seats neither pay nor gain.
func (s *Service) settleRound(g *domain.Game, winner int) []Event {
	penalties := make(map[int]int)
	total := 0
	for i, p := range g.Players {
		if i == winner || !p.Active {
			continue
		}
		twos := 0
		for _, c := range p.Hand {
			if c.Rank == 2 {
				twos++
			}
		}
		penalty := len(p.Hand) << twos
		penalties[i] = penalty
		p.Score -= penalty
		total += penalty
	}
	g.Players[winner].Score += total
	g.State = domain.StateFinished
	g.Logf("%s wins round %d (+%d)", g.Players[winner].Name, g.Round, total)

	scores := make([]int, len(g.Players))
	for i, p := range g.Players {
		scores[i] = p.Score
	}
	return []Event{{
		Kind:    EventRoundEnded,
		Payload: RoundEndedPayload{WinnerSeat: winner, Penalties: penalties, Scores: scores},
	}}
}

// LeaveSeat marks a seat departed mid-game. Indices are not renumbered
// until the next round start, so pile ownership stays valid. Host duties
// move to the next active human seat.
func (s *Service) LeaveSeat(g *domain.Game, seat int) ([]Event, error) {
	if seat < 0 || seat >= len(g.Players) {
		return nil, ErrUnknownSeat
	}
	player := g.Players[seat]
	if !player.Active {
		return nil, ErrUnknownSeat
	}
	player.Active = false
	g.Logf("%s leaves", player.Name)

	payload := PlayerLeftPayload{Seat: seat, PlayerID: player.ID, NextTurnSeat: g.Turn, NewHostSeat: g.HostSeat()}

	if player.IsHost {
		player.IsHost = false
		payload.NewHostSeat = -1
		for i := 1; i <= len(g.Players); i++ {
			cand := g.Players[(seat+i)%len(g.Players)]
			if cand.Active && !cand.IsAI {
				cand.IsHost = true
				payload.NewHostSeat = g.SeatOf(cand.ID)
				break
			}
		}
	}

	events := []Event{{Kind: EventPlayerLeft, Payload: payload}}

	if g.State != domain.StatePlaying {
		return events, nil
	}

	if g.ActiveSeats() <= 1 {
		// Round abandonment: nobody left to play against.
		g.State = domain.StateFinished
		g.Logf("round %d abandoned", g.Round)
		return events, nil
	}

	if g.Turn == seat {
		next := g.NextActiveSeat(seat)
		if next == -1 {
			return nil, ErrNoActiveSeats
		}
		g.Turn = next
		payload.NextTurnSeat = next
		events[0].Payload = payload
	}

	// The departure may have satisfied the all-pass condition.
	if g.Pile != nil && g.Passes >= g.ActiveSeats()-1 {
		events = append(events, s.clearPile(g)...)
	}
	return events, nil
}

// TriggerAITurn computes and applies one AI move for the given seat. It
// silently no-ops when the seat is not actually an AI's current turn, so
// stale scheduled triggers are discarded rather than misapplied.
func (s *Service) TriggerAITurn(g *domain.Game, seat int) ([]Event, error) {
	if g.State != domain.StatePlaying || seat != g.Turn {
		return nil, nil
	}
	if seat < 0 || seat >= len(g.Players) {
		return nil, nil
	}
	player := g.Players[seat]
	if !player.IsAI || !player.Active {
		return nil, nil
	}

	move, err := s.brain.CalculateMove(g, seat)
	if err != nil {
		return nil, fmt.Errorf("ai policy for seat %d: %w", seat, err)
	}
	if move.Pass {
		return s.PassTurn(g, seat)
	}
	events, err := s.PlayCards(g, seat, move.Cards)
	if err != nil {
		// The policy chose through the same legality checks the play
		// path applies, so a rejection here is a policy defect.
		return nil, fmt.Errorf("ai move for seat %d rejected: %w", seat, err)
	}
	return events, nil
}

// RunAIChain applies AI turns until a human seat is up or the round
// ends. Pass accumulation bounds every trick, so the explicit cap only
// guards against policy defects.
func (s *Service) RunAIChain(g *domain.Game) ([]Event, error) {
	limit := chainLimit(g)
	var all []Event
	for steps := 0; g.State == domain.StatePlaying; steps++ {
		if steps > limit {
			return all, ErrAIChainStalled
		}
		current := g.Players[g.Turn]
		if !current.IsAI || !current.Active {
			break
		}
		events, err := s.TriggerAITurn(g, g.Turn)
		if err != nil {
			return all, err
		}
		all = append(all, events...)
	}
	return all, nil
}

func chainLimit(g *domain.Game) int {
	cards := 0
	for _, p := range g.Players {
		cards += len(p.Hand)
	}
	// Every full cycle either plays a card or clears the pile.
	return (cards + 1) * (len(g.Players) + 1)
}

func actingPlayer(g *domain.Game, seat int) (*domain.Player, error) {
	if g.State != domain.StatePlaying {
		return nil, ErrNotPlaying
	}
	if seat < 0 || seat >= len(g.Players) || !g.Players[seat].Active {
		return nil, ErrUnknownSeat
	}
	if seat != g.Turn {
		return nil, ErrNotYourTurn
	}
	return g.Players[seat], nil
}
