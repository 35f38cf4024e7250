package play

import (
	"testing"

	"github.com/gillessed/palantarot/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayServiceRegistry(t *testing.T) {
	s := NewPlayService(Options{})
	g1 := s.Create()
	g2 := s.Create()

	got, err := s.Get(g1.ID)
	require.NoError(t, err)
	assert.Same(t, g1, got)

	_, err = s.Get("nope")
	assert.ErrorIs(t, err, ErrDoesNotExist)
	assert.ElementsMatch(t, []string{g1.ID, g2.ID}, s.List())
}

func TestPlayServiceConnections(t *testing.T) {
	s := NewPlayService(Options{})
	g := s.Create()

	require.NoError(t, s.Connect(g.ID, "alice"))
	assert.ErrorIs(t, s.Connect(g.ID, "alice"), ErrAlreadyConnected)
	assert.ErrorIs(t, s.Connect("nope", "alice"), ErrDoesNotExist)
	require.NoError(t, s.Connect(g.ID, "bob"))

	assert.Equal(t, []engine.PlayerID{"alice", "bob"}, s.Connected(g.ID))
	assert.True(t, s.IsConnected(g.ID, "alice"))

	s.Disconnect(g.ID, "alice")
	assert.False(t, s.IsConnected(g.ID, "alice"))
	require.NoError(t, s.Connect(g.ID, "alice"), "a released player may reconnect")
}

func TestPlayServiceBots(t *testing.T) {
	s := NewPlayService(Options{})
	g := s.Create()

	require.NoError(t, s.AddBot(g.ID, "bot-1"))
	assert.True(t, s.IsBot(g.ID, "bot-1"))
	assert.Equal(t, []engine.PlayerID{"bot-1"}, s.Bots(g.ID))
	assert.ErrorIs(t, s.AddBot(g.ID, "bot-1"), ErrAlreadyBot)
	assert.Equal(t, []engine.PlayerID{"bot-1"}, s.Bots(g.ID), "a refused add keeps the bot")
	assert.ErrorIs(t, s.Connect(g.ID, "bot-1"), ErrAlreadyBot)

	require.NoError(t, s.Connect(g.ID, "alice"))
	assert.ErrorIs(t, s.AddBot(g.ID, "alice"), ErrAlreadyConnected)
	assert.False(t, s.IsBot(g.ID, "alice"))

	assert.ErrorIs(t, s.RemoveBot(g.ID, "alice"), ErrNotBot)
	require.NoError(t, s.RemoveBot(g.ID, "bot-1"))
	assert.False(t, s.IsBot(g.ID, "bot-1"))
	assert.ErrorIs(t, s.AddBot("nope", "bot-1"), ErrDoesNotExist)
}

func TestPlayServiceOptionsReachGames(t *testing.T) {
	var seen int
	s := NewPlayService(Options{
		DealAttempts: 7,
		Shuffler:     func() engine.Shuffler { return engine.NewXorShift(1) },
		OnEvents:     func(string, int, []engine.Event) { seen++ },
	})
	g := s.Create()
	assert.Equal(t, 7, g.machine.MaxDealAttempts)

	_, err := g.PlayerAction(engine.SimpleAction(engine.EventEnterGame, "a"))
	require.NoError(t, err)
	assert.Equal(t, 1, seen)
}
