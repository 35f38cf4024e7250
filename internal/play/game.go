package play

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/gillessed/palantarot/engine"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// EventsFunc receives events right after they are committed to a game's
// log. start is the log index of the first event.
type EventsFunc func(gameID string, start int, events []engine.Event)

// CompleteFunc receives the outcome of a finished hand.
type CompleteFunc func(gameID string, outcome engine.Outcome)

// Game is the single-writer handle for one table. Every mutation of the
// board and the log goes through mu.
type Game struct {
	ID      string
	Created time.Time

	mu      sync.Mutex
	board   engine.BoardState
	log     EventLog
	machine *engine.Machine
	now     func() time.Time

	// Called with the game lock held, in log order. They must not block.
	OnEvents   EventsFunc
	OnComplete CompleteFunc
}

// NewGame creates an empty table with a fresh id. The deal is seeded from
// the id unless the machine already carries a shuffler.
func NewGame(machine *engine.Machine) *Game {
	id := uuid.New()
	if machine == nil {
		machine = engine.NewMachine(nil)
	}
	if machine.Shuffler == nil {
		machine.Shuffler = engine.NewXorShift(binary.BigEndian.Uint64(id[:8]))
	}
	return &Game{
		ID:      id.String(),
		Created: time.Now(),
		board:   engine.NewGame(),
		machine: machine,
		now:     time.Now,
	}
}

// PlayerAction applies one action and returns the events it appended. A
// rejected action leaves the game untouched and returns the rule error.
func (g *Game) PlayerAction(action engine.Event) ([]engine.Event, error) {
	g.mu.Lock()
	if action.Type.IsAction() {
		action.Time = g.now().UnixMilli()
	}
	next, events, err := g.machine.Reduce(g.board, action)
	if err != nil {
		g.mu.Unlock()
		log.WithFields(log.Fields{"game": g.ID, "player": action.Player}).
			Debugf("Game %s: rejected %s: %v", g.ID, action.Type, err)
		return nil, fmt.Errorf("%s: %w", action.Type, err)
	}
	prev := g.board.Name()
	g.board = next
	start := g.log.Append(events...)
	g.committed(start, events)
	g.mu.Unlock()

	if prev != next.Name() {
		log.Infof("Game %s: %s -> %s after %s by %s", g.ID, prev, next.Name(), action.Type, action.Player)
	}
	return events, nil
}

// AppendTransition records machine-side events that do not go through the
// rules, such as chat presence.
func (g *Game) AppendTransition(events ...engine.Event) []engine.Event {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.committed(g.log.Append(events...), events)
	return events
}

func (g *Game) committed(start int, events []engine.Event) {
	if g.OnEvents != nil {
		g.OnEvents(g.ID, start, events)
	}
	if g.OnComplete == nil {
		return
	}
	for _, e := range events {
		if e.Type == engine.EventGameCompleted && e.Outcome != nil {
			log.Infof("Game %s: completed, bidder %s result %d", g.ID, e.Outcome.Bidder, e.Outcome.PointsResult)
			g.OnComplete(g.ID, *e.Outcome)
		}
	}
}

// Events returns the log from startAt as seen by player. A negative limit
// means no limit.
func (g *Game) Events(player engine.PlayerID, startAt, limit int) []engine.Event {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.log.Since(player, startAt, limit)
}

// Updates returns the events visible to player from log index cursor on,
// plus the cursor to resume from.
func (g *Game) Updates(player engine.PlayerID, cursor int) ([]engine.Event, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.log.Since(player, cursor, -1), g.log.Len()
}

// Len returns the size of the full log.
func (g *Game) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.log.Len()
}

// State returns a copy of the current board. It exposes every hand and is
// meant for bots and debugging only.
func (g *Game) State() engine.BoardState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return engine.Clone(g.board)
}
