package socket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gillessed/palantarot/engine"
	"github.com/gillessed/palantarot/internal/bot"
	"github.com/gillessed/palantarot/internal/play"
	log "github.com/sirupsen/logrus"
)

// TokenVerifier resolves a join token to the player it was issued for.
type TokenVerifier interface {
	Verify(token string) (engine.PlayerID, error)
}

// Options configures a Handler.
type Options struct {
	// Verifier, when set, makes tokens mandatory on play joins.
	Verifier TokenVerifier
	// Bot drives autoplay requests. Defaults to bot.Simple.
	Bot bot.Player
	// WriteTimeout bounds every socket write. Defaults to 5s.
	WriteTimeout time.Duration
	// AllowDebug enables debug_play and debug_play_action.
	AllowDebug bool
	// OriginPatterns is passed to websocket.Accept.
	OriginPatterns []string
}

// Handler upgrades HTTP requests and runs one connection per socket.
type Handler struct {
	service *play.PlayService
	opts    Options

	mu    sync.RWMutex
	conns map[string]map[*conn]struct{}
}

// NewHandler returns a handler serving games from service.
func NewHandler(service *play.PlayService, opts Options) *Handler {
	if opts.Bot == nil {
		opts.Bot = bot.Simple{}
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	return &Handler{service: service, opts: opts, conns: make(map[string]map[*conn]struct{})}
}

// conn is one socket. After a join it is bound to exactly one (game, player).
type conn struct {
	h  *Handler
	ws *websocket.Conn

	game   *play.Game
	player engine.PlayerID

	sendMu sync.Mutex
	cursor int
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.opts.OriginPatterns})
	if err != nil {
		log.Warnf("socket: accept failed from %s: %v", r.RemoteAddr, err)
		return
	}
	c := &conn{h: h, ws: ws}
	defer c.close()
	c.readLoop(r.Context())
}

func (c *conn) readLoop(ctx context.Context) {
	for {
		_, data, err := c.ws.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
				log.Debugf("socket: read ended for %s: %v", c.player, err)
			}
			return
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Warnf("socket: malformed message from %s: %v", c.player, err)
			c.ws.Close(websocket.StatusUnsupportedData, "malformed message")
			return
		}
		if stop := c.handle(ctx, msg); stop {
			return
		}
	}
}

// handle dispatches one message. It returns true when the socket must close.
func (c *conn) handle(ctx context.Context, msg Message) bool {
	var err error
	switch msg.Type {
	case MsgPlay, MsgDebugPlay:
		if err = c.join(ctx, msg); err != nil {
			c.sendError(ctx, msg.Game, err)
			c.ws.Close(websocket.StatusPolicyViolation, errorCode(err))
			return true
		}
		return false
	case MsgPlayAction, MsgDebugPlayAction:
		err = c.action(msg)
	case MsgPlayCatchup:
		err = c.catchup(ctx, msg)
	case MsgAddBot:
		err = c.addBot(msg)
	case MsgRemoveBot:
		err = c.removeBot(msg)
	case MsgAutoplay:
		err = c.autoplay(msg)
	default:
		err = errUnknownMessage
	}
	if err != nil {
		c.sendError(ctx, msg.Game, err)
	}
	return false
}

func (c *conn) join(ctx context.Context, msg Message) error {
	if c.game != nil {
		return errAlreadyJoined
	}
	if msg.Type == MsgDebugPlay && !c.h.opts.AllowDebug {
		return errDebugDisabled
	}
	if msg.Player == "" {
		return errMissingPlayer
	}
	if msg.Type == MsgPlay && c.h.opts.Verifier != nil {
		player, err := c.h.opts.Verifier.Verify(msg.Token)
		if err != nil || player != msg.Player {
			return errUnauthorized
		}
	}
	g, err := c.h.service.Get(msg.Game)
	if err != nil {
		return err
	}
	if err := c.h.service.Connect(g.ID, msg.Player); err != nil {
		return err
	}
	c.game, c.player = g, msg.Player
	c.h.register(c)
	log.WithFields(log.Fields{"game": g.ID, "player": c.player}).Infof("Game %s: %s connected", g.ID, c.player)

	g.AppendTransition(engine.Event{Type: engine.EventEnteredChat, Player: c.player})
	c.h.broadcast(ctx, g.ID)
	return nil
}

func (c *conn) action(msg Message) error {
	if c.game == nil {
		return errNotJoined
	}
	if msg.Action == nil {
		return errMissingAction
	}
	action := *msg.Action
	switch msg.Type {
	case MsgDebugPlayAction:
		if !c.h.opts.AllowDebug {
			return errDebugDisabled
		}
		if action.Player == "" {
			return errMissingPlayer
		}
	default:
		if action.Player != "" && action.Player != c.player {
			return errWrongPlayer
		}
		action.Player = c.player
	}
	return c.h.apply(c.game, action)
}

func (c *conn) catchup(ctx context.Context, msg Message) error {
	if c.game == nil {
		return errNotJoined
	}
	limit := -1
	if msg.Limit != nil {
		limit = *msg.Limit
	}
	events := c.game.Events(c.player, msg.StartAt, limit)
	return c.send(ctx, Message{Type: MsgPlayUpdates, Game: c.game.ID, Events: events})
}

// target resolves the game a lobby message refers to. Bots are managed
// from a socket joined to that game only.
func (c *conn) target(msg Message) (*play.Game, error) {
	if c.game == nil {
		return nil, errNotJoined
	}
	if msg.Game != "" && msg.Game != c.game.ID {
		return nil, errOtherGame
	}
	return c.game, nil
}

func (c *conn) addBot(msg Message) error {
	g, err := c.target(msg)
	if err != nil {
		return err
	}
	if msg.Bot == "" {
		return errMissingPlayer
	}
	if err := c.h.service.AddBot(g.ID, msg.Bot); err != nil {
		return err
	}
	// Undo only the registration made above.
	if err := c.h.apply(g, engine.SimpleAction(engine.EventEnterGame, msg.Bot)); err != nil {
		_ = c.h.service.RemoveBot(g.ID, msg.Bot)
		return err
	}
	return nil
}

func (c *conn) removeBot(msg Message) error {
	g, err := c.target(msg)
	if err != nil {
		return err
	}
	if !c.h.service.IsBot(g.ID, msg.Bot) {
		return play.ErrNotBot
	}
	if err := c.h.apply(g, engine.SimpleAction(engine.EventLeaveGame, msg.Bot)); err != nil {
		return err
	}
	return c.h.service.RemoveBot(g.ID, msg.Bot)
}

func (c *conn) autoplay(msg Message) error {
	g, err := c.target(msg)
	if err != nil {
		return err
	}
	if !c.h.service.IsBot(g.ID, msg.Bot) {
		return play.ErrNotBot
	}
	action, ok := c.h.opts.Bot.NextAction(bot.ViewFor(g.State(), msg.Bot))
	if !ok {
		return errNoBotAction
	}
	return c.h.apply(g, action)
}

// apply runs an action through the game and fans out what it appended.
func (h *Handler) apply(g *play.Game, action engine.Event) error {
	if _, err := g.PlayerAction(action); err != nil {
		return err
	}
	h.broadcast(context.Background(), g.ID)
	return nil
}

func (h *Handler) register(c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.conns[c.game.ID]
	if !ok {
		set = make(map[*conn]struct{})
		h.conns[c.game.ID] = set
	}
	set[c] = struct{}{}
}

func (h *Handler) unregister(c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.conns[c.game.ID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.conns, c.game.ID)
		}
	}
}

// broadcast pushes pending events to every socket on the game. Each socket
// reads the committed log from its own cursor, so no game lock is held
// while writing and no socket sees events out of order.
func (h *Handler) broadcast(ctx context.Context, gameID string) {
	h.mu.RLock()
	targets := make([]*conn, 0, len(h.conns[gameID]))
	for c := range h.conns[gameID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	var wg sync.WaitGroup
	for _, c := range targets {
		wg.Add(1)
		go func(c *conn) {
			defer wg.Done()
			c.flush(ctx)
		}(c)
	}
	wg.Wait()
}

func (c *conn) flush(ctx context.Context) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	events, next := c.game.Updates(c.player, c.cursor)
	c.cursor = next
	if len(events) == 0 {
		return
	}
	if err := c.write(ctx, Message{Type: MsgPlayUpdates, Game: c.game.ID, Events: events}); err != nil {
		log.Warnf("Game %s: dropping %s after failed write: %v", c.game.ID, c.player, err)
		c.ws.CloseNow()
	}
}

func (c *conn) send(ctx context.Context, msg Message) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	return c.write(ctx, msg)
}

func (c *conn) write(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, c.h.opts.WriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, c.ws, msg)
}

func (c *conn) sendError(ctx context.Context, game string, err error) {
	if game == "" && c.game != nil {
		game = c.game.ID
	}
	msg := Message{Type: MsgPlayError, Game: game, ErrorCode: errorCode(err), Error: err.Error()}
	if werr := c.send(ctx, msg); werr != nil && !errors.Is(werr, context.Canceled) {
		log.Debugf("socket: could not report %s to %s: %v", msg.ErrorCode, c.player, werr)
	}
}

// close releases the socket's registration and records the departure.
func (c *conn) close() {
	c.ws.CloseNow()
	if c.game == nil {
		return
	}
	c.h.unregister(c)
	c.h.service.Disconnect(c.game.ID, c.player)
	log.WithFields(log.Fields{"game": c.game.ID, "player": c.player}).Infof("Game %s: %s disconnected", c.game.ID, c.player)
	c.game.AppendTransition(engine.Event{Type: engine.EventLeftChat, Player: c.player})
	c.h.broadcast(context.Background(), c.game.ID)
}
