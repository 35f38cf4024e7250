package play

import (
	"errors"
	"sort"
	"sync"

	"github.com/gillessed/palantarot/engine"
	log "github.com/sirupsen/logrus"
)

var (
	ErrDoesNotExist     = errors.New("game does not exist")
	ErrAlreadyConnected = errors.New("player is already connected to this game")
	ErrNotBot           = errors.New("player is not a bot in this game")
	ErrAlreadyBot       = errors.New("player is already a bot in this game")
)

// Options configures the games a PlayService creates.
type Options struct {
	// DealAttempts caps reshuffles per deal; zero uses the engine default.
	DealAttempts int
	// Shuffler, when set, builds the shuffler of each new game.
	Shuffler func() engine.Shuffler

	OnEvents   EventsFunc
	OnComplete CompleteFunc
}

type room struct {
	game      *Game
	connected map[engine.PlayerID]bool
	bots      map[engine.PlayerID]bool
}

// PlayService is the process-wide registry of games and of the players
// currently connected to each.
type PlayService struct {
	opts Options

	mu    sync.RWMutex
	rooms map[string]*room
}

// NewPlayService returns an empty registry.
func NewPlayService(opts Options) *PlayService {
	return &PlayService{opts: opts, rooms: make(map[string]*room)}
}

// Create registers a new empty game.
func (s *PlayService) Create() *Game {
	m := engine.NewMachine(nil)
	if s.opts.Shuffler != nil {
		m.Shuffler = s.opts.Shuffler()
	}
	if s.opts.DealAttempts > 0 {
		m.MaxDealAttempts = s.opts.DealAttempts
	}
	g := NewGame(m)
	g.OnEvents = s.opts.OnEvents
	g.OnComplete = s.opts.OnComplete

	s.mu.Lock()
	s.rooms[g.ID] = &room{
		game:      g,
		connected: make(map[engine.PlayerID]bool),
		bots:      make(map[engine.PlayerID]bool),
	}
	s.mu.Unlock()
	log.Infof("Game %s: created", g.ID)
	return g
}

// Get returns the game with the given id.
func (s *PlayService) Get(id string) (*Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	if !ok {
		return nil, ErrDoesNotExist
	}
	return r.game, nil
}

// List returns the ids of all games, oldest first.
func (s *PlayService) List() []string {
	s.mu.RLock()
	games := make([]*Game, 0, len(s.rooms))
	for _, r := range s.rooms {
		games = append(games, r.game)
	}
	s.mu.RUnlock()
	sort.Slice(games, func(i, j int) bool { return games[i].Created.Before(games[j].Created) })
	ids := make([]string, len(games))
	for i, g := range games {
		ids[i] = g.ID
	}
	return ids
}

// Connect registers player's socket on a game. Only one socket per player
// and game is allowed.
func (s *PlayService) Connect(id string, player engine.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok {
		return ErrDoesNotExist
	}
	if r.connected[player] {
		return ErrAlreadyConnected
	}
	if r.bots[player] {
		return ErrAlreadyBot
	}
	r.connected[player] = true
	return nil
}

// Disconnect releases player's registration. It is a no-op when the player
// was not connected.
func (s *PlayService) Disconnect(id string, player engine.PlayerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[id]; ok {
		delete(r.connected, player)
	}
}

// IsConnected reports whether player holds a socket on the game.
func (s *PlayService) IsConnected(id string, player engine.PlayerID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	return ok && r.connected[player]
}

// Connected returns the players with a socket on the game, sorted.
func (s *PlayService) Connected(id string) []engine.PlayerID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	if !ok {
		return nil
	}
	return sortedIDs(r.connected)
}

// AddBot registers bot as a server-driven player of the game. Ids already
// registered as bots or held by a connected player are refused.
func (s *PlayService) AddBot(id string, bot engine.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok {
		return ErrDoesNotExist
	}
	if r.bots[bot] {
		return ErrAlreadyBot
	}
	if r.connected[bot] {
		return ErrAlreadyConnected
	}
	r.bots[bot] = true
	return nil
}

// RemoveBot unregisters a bot.
func (s *PlayService) RemoveBot(id string, bot engine.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok {
		return ErrDoesNotExist
	}
	if !r.bots[bot] {
		return ErrNotBot
	}
	delete(r.bots, bot)
	return nil
}

// IsBot reports whether player is a registered bot of the game.
func (s *PlayService) IsBot(id string, player engine.PlayerID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	return ok && r.bots[player]
}

// Bots returns the bots of a game, sorted.
func (s *PlayService) Bots(id string) []engine.PlayerID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	if !ok {
		return nil
	}
	return sortedIDs(r.bots)
}

func sortedIDs(set map[engine.PlayerID]bool) []engine.PlayerID {
	out := make([]engine.PlayerID, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
