package engine

// PlayerID identifies a player across games.
type PlayerID string

// EventType discriminates events on the wire.
type EventType string

// Action types are submitted by players.
const (
	EventMessage     EventType = "message"
	EventEnterGame   EventType = "enter_game"
	EventLeaveGame   EventType = "leave_game"
	EventReady       EventType = "mark_player_ready"
	EventUnready     EventType = "unmark_player_ready"
	EventBid         EventType = "bid"
	EventShowTrump   EventType = "show_trump"
	EventCallPartner EventType = "call_partner"
	EventDeclareSlam EventType = "declare_slam"
	EventSetDog      EventType = "set_dog"
	EventPlayCard    EventType = "play_card"
)

// Transition types are produced by the state machine or the sync layer.
const (
	EventDealtHand        EventType = "dealt_hand"
	EventBiddingCompleted EventType = "bidding_completed"
	EventDogRevealed      EventType = "dog_revealed"
	EventGameStarted      EventType = "game_started"
	EventCompletedTrick   EventType = "completed_trick"
	EventGameCompleted    EventType = "game_completed"
	EventGameAborted      EventType = "game_aborted"
	EventEnteredChat      EventType = "entered_chat"
	EventLeftChat         EventType = "left_chat"
)

var actionTypes = map[EventType]bool{
	EventMessage: true, EventEnterGame: true, EventLeaveGame: true,
	EventReady: true, EventUnready: true, EventBid: true, EventShowTrump: true,
	EventCallPartner: true, EventDeclareSlam: true, EventSetDog: true,
	EventPlayCard: true,
}

// IsAction reports whether events of this type originate from a player.
func (t EventType) IsAction() bool { return actionTypes[t] }

// TrickCard is one play of a completed trick as seen by clients.
type TrickCard struct {
	Player PlayerID `json:"player"`
	Card   Card     `json:"card"`
}

// TrickSummary is the public record of a completed trick.
type TrickSummary struct {
	Index  int         `json:"index"`
	Cards  []TrickCard `json:"cards"`
	Winner PlayerID    `json:"winner"`
}

// Event is a PlayerEvent: either a player Action or a machine Transition.
// PrivateTo restricts visibility to one player; empty means public.
type Event struct {
	Type      EventType `json:"type"`
	Player    PlayerID  `json:"player,omitempty"`
	PrivateTo PlayerID  `json:"privateTo,omitempty"`
	Time      int64     `json:"time,omitempty"`

	Text  string    `json:"text,omitempty"`  // message body, abort reason
	Bid   *BidValue `json:"bid,omitempty"`   // bid, bidding_completed
	Calls []Call    `json:"calls,omitempty"` // bid
	Card  *Card     `json:"card,omitempty"`  // call_partner, play_card
	Cards []Card    `json:"cards,omitempty"` // show_trump, set_dog, dealt_hand, dog_revealed

	Bidder      PlayerID      `json:"bidder,omitempty"`      // bidding_completed, game_started
	FirstPlayer PlayerID      `json:"firstPlayer,omitempty"` // game_started
	Trick       *TrickSummary `json:"trick,omitempty"`       // completed_trick
	Outcome     *Outcome      `json:"outcome,omitempty"`     // game_completed
}

// IsPrivate reports whether the event is scoped to a single player.
func (e Event) IsPrivate() bool { return e.PrivateTo != "" }

// VisibleTo reports whether player may see e.
func VisibleTo(e Event, player PlayerID) bool {
	return e.PrivateTo == "" || e.PrivateTo == player
}

// Message builds a chat action.
func Message(player PlayerID, text string) Event {
	return Event{Type: EventMessage, Player: player, Text: text}
}

// BidAction builds a bid action; value 0 passes.
func BidAction(player PlayerID, value BidValue, calls ...Call) Event {
	return Event{Type: EventBid, Player: player, Bid: &value, Calls: calls}
}

// PlayCardAction builds a card play.
func PlayCardAction(player PlayerID, card Card) Event {
	return Event{Type: EventPlayCard, Player: player, Card: &card}
}

// CallPartnerAction builds a partner call.
func CallPartnerAction(player PlayerID, card Card) Event {
	return Event{Type: EventCallPartner, Player: player, Card: &card}
}

// SetDogAction builds a dog exchange; it is always private to the bidder.
func SetDogAction(player PlayerID, dog []Card) Event {
	return Event{Type: EventSetDog, Player: player, PrivateTo: player, Cards: dog}
}

// ShowTrumpAction builds a trump show.
func ShowTrumpAction(player PlayerID, trumps []Card) Event {
	return Event{Type: EventShowTrump, Player: player, Cards: trumps}
}

// SimpleAction builds an action without payload (enter, leave, ready, unready, declare slam).
func SimpleAction(t EventType, player PlayerID) Event {
	return Event{Type: t, Player: player}
}
