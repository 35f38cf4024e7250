package play

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gillessed/palantarot/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures the hooks a game fires.
type recorder struct {
	mu       sync.Mutex
	starts   []int
	events   []engine.Event
	outcomes []engine.Outcome
}

func (r *recorder) onEvents(_ string, start int, events []engine.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.starts = append(r.starts, start)
	r.events = append(r.events, events...)
}

func (r *recorder) onComplete(_ string, outcome engine.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func setupTestGame(t *testing.T, seed uint64) (*Game, *recorder) {
	t.Helper()
	rec := &recorder{}
	g := NewGame(engine.NewMachine(engine.NewXorShift(seed)))
	g.OnEvents = rec.onEvents
	g.OnComplete = rec.onComplete
	g.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return g, rec
}

func seat(t *testing.T, g *Game, players ...engine.PlayerID) {
	t.Helper()
	for _, p := range players {
		_, err := g.PlayerAction(engine.SimpleAction(engine.EventEnterGame, p))
		require.NoError(t, err)
	}
	for _, p := range players {
		_, err := g.PlayerAction(engine.SimpleAction(engine.EventReady, p))
		require.NoError(t, err)
	}
}

func TestPlayerActionStampsTime(t *testing.T) {
	g, rec := setupTestGame(t, 1)
	events, err := g.PlayerAction(engine.SimpleAction(engine.EventEnterGame, "alice"))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, int64(1700000000000), events[0].Time)
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, []int{0}, rec.starts)
}

func TestRejectedActionLeavesGameUntouched(t *testing.T) {
	g, rec := setupTestGame(t, 1)
	_, err := g.PlayerAction(engine.SimpleAction(engine.EventReady, "ghost"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrNotInGame))

	var ruleErr *engine.Error
	require.True(t, errors.As(err, &ruleErr))
	assert.Equal(t, engine.ErrNotInGame.Code(), ruleErr.Code())

	assert.Equal(t, 0, g.Len())
	assert.Empty(t, rec.events)
	assert.Equal(t, engine.BoardNewGame, g.State().Name())
}

func TestEventsArePrivacyFiltered(t *testing.T) {
	g, _ := setupTestGame(t, 3)
	seat(t, g, "a", "b", "c")
	require.Equal(t, engine.BoardBidding, g.State().Name())

	for _, p := range []engine.PlayerID{"a", "b", "c"} {
		hands := 0
		for _, e := range g.Events(p, 0, -1) {
			assert.True(t, engine.VisibleTo(e, p))
			if e.Type == engine.EventDealtHand {
				hands++
				assert.Equal(t, p, e.PrivateTo)
			}
		}
		assert.Equal(t, 1, hands, "player %s should see exactly its own hand", p)
	}
	// An outsider sees the seating and readiness only.
	for _, e := range g.Events("watcher", 0, -1) {
		assert.NotEqual(t, engine.EventDealtHand, e.Type)
	}
}

func TestEventsPagination(t *testing.T) {
	g, _ := setupTestGame(t, 1)
	for i := 0; i < 10; i++ {
		_, err := g.PlayerAction(engine.Message("a", "hello"))
		require.NoError(t, err)
	}
	assert.Len(t, g.Events("a", 0, -1), 10)
	assert.Len(t, g.Events("a", 4, -1), 6)
	assert.Len(t, g.Events("a", 4, 3), 3)
	assert.Len(t, g.Events("a", 0, 0), 0)
	assert.Len(t, g.Events("a", 20, -1), 0)

	events, cursor := g.Updates("a", 8)
	assert.Len(t, events, 2)
	assert.Equal(t, 10, cursor)
}

func TestConcurrentActionsAreSerialized(t *testing.T) {
	g, rec := setupTestGame(t, 1)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := g.PlayerAction(engine.Message("a", "hi"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, g.Len())
	rec.mu.Lock()
	defer rec.mu.Unlock()
	for i, start := range rec.starts {
		assert.Equal(t, i, start, "hooks must fire in log order")
	}
}

func TestAppendTransition(t *testing.T) {
	g, rec := setupTestGame(t, 1)
	g.AppendTransition(engine.Event{Type: engine.EventEnteredChat, Player: "a"})
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, engine.EventEnteredChat, rec.events[0].Type)
}

// TestCompletionHook plays a three-seat hand to the end with the first
// legal card each turn.
func TestCompletionHook(t *testing.T) {
	g, rec := setupTestGame(t, 9)
	seat(t, g, "a", "b", "c")
	_, err := g.PlayerAction(engine.BidAction("a", engine.Bid80))
	require.NoError(t, err)
	_, err = g.PlayerAction(engine.BidAction("b", engine.BidPass))
	require.NoError(t, err)
	_, err = g.PlayerAction(engine.BidAction("c", engine.BidPass))
	require.NoError(t, err)

	for i := 0; i < engine.DeckSize; i++ {
		pb, ok := g.State().(*engine.PlayingBoard)
		if !ok {
			break
		}
		s := pb.Trick.Current
		legal := engine.LegalCards(pb.Hands[s], pb.Trick.Cards, nil)
		_, err := g.PlayerAction(engine.PlayCardAction(pb.Players[s], legal[0]))
		require.NoError(t, err)
	}

	require.Equal(t, engine.BoardCompleted, g.State().Name())
	require.Len(t, rec.outcomes, 1)
	assert.Equal(t, engine.PlayerID("a"), rec.outcomes[0].Bidder)
	assert.Equal(t, engine.Bid80, rec.outcomes[0].Bid)
}
