package app

import (
	"encoding/json"
	"math/rand"
	"strings"
	"testing"

	"lexio/internal/domain"
)

func TestSnapshotRedactsOtherHands(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(1)))
	g := newWaitingGame(4, 0)
	if _, err := svc.StartRound(g); err != nil {
		t.Fatalf("start: %v", err)
	}

	view := Snapshot(g, 2)
	for _, pv := range view.Players {
		if pv.Seat == 2 {
			if len(pv.Hand) != 13 {
				t.Fatalf("own hand = %d cards, want 13", len(pv.Hand))
			}
			continue
		}
		if pv.Hand != nil {
			t.Fatalf("seat %d hand leaked into seat 2's view", pv.Seat)
		}
		if pv.CardCount != 13 {
			t.Fatalf("seat %d card count = %d, want 13", pv.Seat, pv.CardCount)
		}
	}
}

func TestSnapshotSpectatorSeesNoHands(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(2)))
	g := newWaitingGame(3, 0)
	if _, err := svc.StartRound(g); err != nil {
		t.Fatalf("start: %v", err)
	}

	raw, err := json.Marshal(Snapshot(g, -1))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), `"hand"`) {
		t.Fatalf("spectator view serialized a hand: %s", raw)
	}
}

func TestSnapshotCopiesAreIndependent(t *testing.T) {
	g := playingGame(
		[]domain.Card{{Suit: domain.SuitCloud, Rank: 3}, {Suit: domain.SuitCloud, Rank: 4}},
		[]domain.Card{{Suit: domain.SuitStar, Rank: 4}},
		[]domain.Card{{Suit: domain.SuitMoon, Rank: 5}},
	)
	g.Pile = &domain.Pile{
		Cards: []domain.Card{{Suit: domain.SuitSun, Rank: 6}},
		Owner: 2,
		Hand:  domain.Identify([]domain.Card{{Suit: domain.SuitSun, Rank: 6}}, g.MaxRank),
	}

	view := Snapshot(g, 0)
	view.Players[0].Hand[0] = domain.Card{Suit: domain.SuitSun, Rank: 2}
	view.Pile.Cards[0] = domain.Card{Suit: domain.SuitSun, Rank: 2}

	if g.Players[0].Hand[0] != (domain.Card{Suit: domain.SuitCloud, Rank: 3}) {
		t.Fatalf("view mutation reached the aggregate hand")
	}
	if g.Pile.Cards[0] != (domain.Card{Suit: domain.SuitSun, Rank: 6}) {
		t.Fatalf("view mutation reached the aggregate pile")
	}
	if view.Pile.Category != domain.Single {
		t.Fatalf("pile category = %v, want Single", view.Pile.Category)
	}
}
