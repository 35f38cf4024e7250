// Package socket speaks the play protocol over WebSocket: clients join a
// game, submit actions and receive the privacy-filtered event stream.
package socket

import (
	"errors"

	"github.com/gillessed/palantarot/engine"
	"github.com/gillessed/palantarot/internal/play"
)

// MessageType discriminates protocol messages.
type MessageType string

const (
	// client -> server
	MsgPlay            MessageType = "play"
	MsgDebugPlay       MessageType = "debug_play"
	MsgPlayAction      MessageType = "play_action"
	MsgDebugPlayAction MessageType = "debug_play_action"
	MsgPlayCatchup     MessageType = "play_catchup"
	MsgAddBot          MessageType = "add_bot"
	MsgRemoveBot       MessageType = "remove_bot"
	MsgAutoplay        MessageType = "autoplay"

	// server -> client
	MsgPlayUpdates MessageType = "play_updates"
	MsgPlayError   MessageType = "play_error"
)

// Message is the single envelope for every protocol message.
type Message struct {
	Type   MessageType     `json:"type"`
	Game   string          `json:"game,omitempty"`
	Player engine.PlayerID `json:"player,omitempty"`
	Token  string          `json:"token,omitempty"`
	Bot    engine.PlayerID `json:"bot,omitempty"`

	Action *engine.Event  `json:"action,omitempty"`
	Events []engine.Event `json:"events,omitempty"`

	StartAt int  `json:"startAt,omitempty"`
	Limit   *int `json:"limit,omitempty"`

	ErrorCode string `json:"errorCode,omitempty"`
	Error     string `json:"error,omitempty"`
}

// protocolError is a failure with a stable code sent back in play_error.
type protocolError struct {
	code, msg string
}

func (e *protocolError) Error() string { return e.msg }

var (
	errNotJoined      = &protocolError{"NOT_JOINED", "join a game first"}
	errAlreadyJoined  = &protocolError{"ALREADY_JOINED", "this socket already joined a game"}
	errWrongPlayer    = &protocolError{"NOT_YOUR_PLAYER", "actions must be sent as the joined player"}
	errMissingAction  = &protocolError{"BAD_REQUEST", "message has no action"}
	errMissingPlayer  = &protocolError{"BAD_REQUEST", "message has no player"}
	errNoBotAction    = &protocolError{"NO_ACTION", "bot has nothing to do"}
	errUnknownMessage = &protocolError{"UNKNOWN_MESSAGE", "unknown message type"}
	errDebugDisabled  = &protocolError{"DEBUG_DISABLED", "debug messages are disabled"}
	errUnauthorized   = &protocolError{"UNAUTHORIZED", "invalid player token"}
	errOtherGame      = &protocolError{"WRONG_GAME", "lobby messages apply to the joined game only"}
)

// errorCode maps an error to its wire code.
func errorCode(err error) string {
	var pe *protocolError
	if errors.As(err, &pe) {
		return pe.code
	}
	var re *engine.Error
	if errors.As(err, &re) {
		return re.Code()
	}
	switch {
	case errors.Is(err, play.ErrDoesNotExist):
		return "DOES_NOT_EXIST"
	case errors.Is(err, play.ErrAlreadyConnected):
		return "ALREADY_CONNECTED"
	case errors.Is(err, play.ErrNotBot):
		return "NOT_A_BOT"
	case errors.Is(err, play.ErrAlreadyBot):
		return "ALREADY_A_BOT"
	}
	return "INTERNAL"
}
