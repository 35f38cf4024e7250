package engine

// Error is a rule violation. Rule violations never modify the board; the
// code is reported to the acting player only.
type Error struct {
	code string
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Code returns the stable wire code for the violation.
func (e *Error) Code() string { return e.code }

func ruleError(code, msg string) *Error { return &Error{code: code, msg: msg} }

var (
	ErrWrongPhase      = ruleError("WRONG_PHASE", "action is not allowed in the current phase")
	ErrGameCompleted   = ruleError("GAME_COMPLETED", "game is completed; only messages are accepted")
	ErrUnknownAction   = ruleError("UNKNOWN_ACTION", "unknown action type")
	ErrNotInGame       = ruleError("NOT_IN_GAME", "player is not in the game")
	ErrAlreadyInGame   = ruleError("ALREADY_IN_GAME", "player is already in the game")
	ErrGameFull        = ruleError("GAME_FULL", "game already has the maximum number of players")
	ErrPlayerCount     = ruleError("PLAYER_COUNT", "a game needs between 3 and 5 players")
	ErrDealExhausted   = ruleError("DEAL_EXHAUSTED", "could not produce a valid deal")
	ErrOutOfTurn       = ruleError("OUT_OF_TURN", "it is not your turn")
	ErrInvalidBid      = ruleError("INVALID_BID", "bid value is not allowed")
	ErrInvalidCall     = ruleError("INVALID_CALL", "russian call is only allowed on a bid of 20")
	ErrBidTooLow       = ruleError("BID_TOO_LOW", "bid must be higher than the current bid")
	ErrNotBidder       = ruleError("NOT_BIDDER", "only the bidder may do this")
	ErrCannotCallTrump = ruleError("CANNOT_CALL_TRUMP", "cannot call a trump card")
	ErrWrongSize       = ruleError("WRONG_SIZE", "dog has the wrong number of cards")
	ErrDoesNotMatch    = ruleError("DOES_NOT_MATCH_HAND", "dog cards must come from your hand or the old dog")
	ErrAfterFirstTurn  = ruleError("AFTER_FIRST_TURN", "slam can only be declared before the first card is played")
	ErrDuplicateShow   = ruleError("DUPLICATE_SHOW", "trumps were already shown")
	ErrAfterFirstCard  = ruleError("AFTER_FIRST_CARD", "trumps can only be shown before your first card")
	ErrShowMismatch    = ruleError("SHOW_MISMATCH", "a show must contain exactly the trumps in your hand")
	ErrNotEnoughTrumps = ruleError("NOT_ENOUGH_TRUMPS", "not enough trumps to show")
	ErrNotInHand       = ruleError("NOT_IN_HAND", "card is not in your hand")
	ErrIllegalCard     = ruleError("ILLEGAL_CARD", "card cannot be played on this trick")
	ErrInvalidCard     = ruleError("INVALID_CARD", "card does not exist")
)
