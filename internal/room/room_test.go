package room

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lexio/internal/app"
	"lexio/internal/config"
	"lexio/internal/domain"
)

// fakeSender records every message. Timer goroutines deliver concurrently
// with test assertions, hence the mutex.
type fakeSender struct {
	mu        sync.Mutex
	broadcast []string
	direct    map[string][]string
}

func newFakeSender() *fakeSender {
	return &fakeSender{direct: make(map[string][]string)}
}

func (f *fakeSender) Broadcast(kind string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broadcast = append(f.broadcast, kind)
}

func (f *fakeSender) SendTo(playerID string, kind string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.direct[playerID] = append(f.direct[playerID], kind)
}

func (f *fakeSender) directKinds(playerID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.direct[playerID]...)
}

func (f *fakeSender) broadcastKinds() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.broadcast...)
}

func testConfig() *config.GameConfig {
	return &config.GameConfig{
		StartingScore: 100,
		MinPlayers:    3,
		MaxPlayers:    5,
		BotMinDelayMs: 1,
		BotMaxDelayMs: 1,
	}
}

func newTestRoom(t *testing.T) (*Room, *fakeSender) {
	t.Helper()
	sender := newFakeSender()
	r := New(sender, testConfig(), rand.New(rand.NewSource(1)))
	t.Cleanup(r.Close)
	return r, sender
}

func TestJoinAssignsHostAndSeats(t *testing.T) {
	r, _ := newTestRoom(t)

	seat, err := r.Join("alice", "Alice")
	require.NoError(t, err)
	require.Equal(t, 0, seat)

	seat, err = r.Join("bob", "Bob")
	require.NoError(t, err)
	require.Equal(t, 1, seat)

	_, err = r.Join("alice", "Alice")
	require.ErrorIs(t, err, ErrAlreadySeated)

	view := r.View("alice")
	require.True(t, view.Players[0].IsHost)
	require.False(t, view.Players[1].IsHost)
}

func TestRejoinReactivatesOldSeat(t *testing.T) {
	r, _ := newTestRoom(t)
	ids := []string{"alice", "bob", "carol"}
	for _, id := range ids {
		_, err := r.Join(id, id)
		require.NoError(t, err)
	}

	require.NoError(t, r.Leave("bob"))

	seat, err := r.Join("bob", "Bob Again")
	require.NoError(t, err)
	require.Equal(t, 1, seat)

	view := r.View("bob")
	require.Len(t, view.Players, 3)
	bobs := 0
	for _, pv := range view.Players {
		if pv.ID == "bob" {
			bobs++
			require.True(t, pv.Active)
			require.Equal(t, "Bob Again", pv.Name)
			require.Equal(t, 1, pv.Seat)
		}
	}
	require.Equal(t, 1, bobs)

	// The refreshed seat is fully functional again.
	_, err = r.Join("bob", "Bob Again")
	require.ErrorIs(t, err, ErrAlreadySeated)
}

func TestJoinRejectsWhenFull(t *testing.T) {
	r, _ := newTestRoom(t)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		_, err := r.Join(id, id)
		require.NoError(t, err)
	}
	_, err := r.Join("f", "f")
	require.ErrorIs(t, err, ErrRoomFull)
}

func TestAddBotRequiresHost(t *testing.T) {
	r, _ := newTestRoom(t)
	_, err := r.Join("alice", "Alice")
	require.NoError(t, err)
	_, err = r.Join("bob", "Bob")
	require.NoError(t, err)

	_, err = r.AddBot("bob")
	require.ErrorIs(t, err, ErrNotHost)

	seat, err := r.AddBot("alice")
	require.NoError(t, err)
	require.Equal(t, 2, seat)
	require.True(t, r.View("alice").Players[2].IsAI)
}

func TestStartDealsHandsToEachHuman(t *testing.T) {
	r, sender := newTestRoom(t)
	for _, id := range []string{"alice", "bob", "carol"} {
		_, err := r.Join(id, id)
		require.NoError(t, err)
	}

	require.ErrorIs(t, r.Start("bob"), ErrNotHost)
	require.NoError(t, r.Start("alice"))
	require.ErrorIs(t, r.Start("alice"), ErrGameInProgress)

	for _, id := range []string{"alice", "bob", "carol"} {
		require.Contains(t, sender.directKinds(id), string(app.EventHandDealt))
		require.Contains(t, sender.directKinds(id), "state")

		view := r.View(id)
		require.Equal(t, domain.StatePlaying, view.State)
		for _, pv := range view.Players {
			if pv.ID == id {
				require.Len(t, pv.Hand, 12)
			} else {
				require.Empty(t, pv.Hand)
			}
		}
	}
	require.Contains(t, sender.broadcastKinds(), string(app.EventRoundStarted))
}

func TestStartRequiresConfiguredMinimum(t *testing.T) {
	cfg := testConfig()
	cfg.MinPlayers = 4
	sender := newFakeSender()
	r := New(sender, cfg, rand.New(rand.NewSource(1)))
	t.Cleanup(r.Close)

	for _, id := range []string{"alice", "bob", "carol"} {
		_, err := r.Join(id, id)
		require.NoError(t, err)
	}
	require.ErrorIs(t, r.Start("alice"), app.ErrInsufficientPlayers)

	_, err := r.Join("dave", "Dave")
	require.NoError(t, err)
	require.NoError(t, r.Start("alice"))
	require.Equal(t, domain.StatePlaying, r.View("alice").State)
}

func TestPlayAndPassCycle(t *testing.T) {
	r, _ := newTestRoom(t)
	ids := []string{"alice", "bob", "carol"}
	for _, id := range ids {
		_, err := r.Join(id, id)
		require.NoError(t, err)
	}
	require.NoError(t, r.Start("alice"))

	leaderSeat := r.View("alice").Turn
	leaderID := ids[leaderSeat]
	hand := r.View(leaderID).Players[leaderSeat].Hand
	require.NotEmpty(t, hand)

	require.ErrorIs(t, r.Play("ghost", hand[:1]), ErrNotSeated)
	require.NoError(t, r.Play(leaderID, hand[:1]))

	for i := 1; i < len(ids); i++ {
		passer := ids[(leaderSeat+i)%len(ids)]
		require.NoError(t, r.Pass(passer))
	}

	view := r.View(leaderID)
	require.Nil(t, view.Pile)
	require.Equal(t, leaderSeat, view.Turn)
}

func TestBotsPlayUntilHumanTurn(t *testing.T) {
	r, _ := newTestRoom(t)
	_, err := r.Join("alice", "Alice")
	require.NoError(t, err)
	_, err = r.AddBot("alice")
	require.NoError(t, err)
	_, err = r.AddBot("alice")
	require.NoError(t, err)

	require.NoError(t, r.Start("alice"))

	// Scheduled bot turns keep firing until the human is up.
	require.Eventually(t, func() bool {
		view := r.View("alice")
		return view.State != domain.StatePlaying || view.Turn == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestLeaveClosesHumanlessRoom(t *testing.T) {
	r, _ := newTestRoom(t)
	store := NewStore()
	store.Add(r)

	for _, id := range []string{"alice", "bob", "carol"} {
		_, err := r.Join(id, id)
		require.NoError(t, err)
	}

	require.NoError(t, r.Leave("alice"))
	require.False(t, r.Closed())
	require.NoError(t, r.Leave("bob"))
	require.NoError(t, r.Leave("carol"))
	require.True(t, r.Closed())

	require.Empty(t, store.List())
	require.ErrorIs(t, r.Leave("carol"), ErrRoomClosed)
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore()
	r, _ := newTestRoom(t)
	store.Add(r)

	got, ok := store.Get(r.ID)
	require.True(t, ok)
	require.Same(t, r, got)
	require.Len(t, store.List(), 1)

	store.Delete(r.ID)
	_, ok = store.Get(r.ID)
	require.False(t, ok)
}
