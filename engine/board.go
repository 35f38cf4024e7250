package engine

// BoardName tags the active phase of a game.
type BoardName string

const (
	BoardNewGame     BoardName = "new_game"
	BoardBidding     BoardName = "bidding"
	BoardPartnerCall BoardName = "partner_call"
	BoardDogReveal   BoardName = "dog_reveal"
	BoardPlaying     BoardName = "playing"
	BoardCompleted   BoardName = "completed"
)

// BoardState is the closed union of game phases. Each variant carries only
// the fields meaningful to its phase.
type BoardState interface {
	Name() BoardName
	PlayerIDs() []PlayerID
	clone() BoardState
}

// Table holds the seating and the cards in hand.
type Table struct {
	Players []PlayerID `json:"players"`
	Hands   [][]Card   `json:"hands"`
	Dog     []Card     `json:"dog"`
}

func (t Table) clone() Table {
	hands := make([][]Card, len(t.Hands))
	for i, h := range t.Hands {
		hands[i] = append([]Card(nil), h...)
	}
	return Table{
		Players: append([]PlayerID(nil), t.Players...),
		Hands:   hands,
		Dog:     append([]Card(nil), t.Dog...),
	}
}

// Seat returns the seat index of player, or -1.
func (t Table) Seat(player PlayerID) int { return seatOf(t.Players, player) }

func seatOf(players []PlayerID, player PlayerID) int {
	for i, p := range players {
		if p == player {
			return i
		}
	}
	return -1
}

// Contract is what bidding decided plus the exchange outcome.
type Contract struct {
	Bidder       int      `json:"bidder"`
	Bid          BidValue `json:"bid"`
	Calls        []Call   `json:"calls,omitempty"`
	CalledCard   *Card    `json:"calledCard,omitempty"`
	Partner      int      `json:"partner"` // -1 when there is no partner
	DeclaredSlam bool     `json:"declaredSlam"`
}

func (c Contract) clone() Contract {
	out := c
	out.Calls = append([]Call(nil), c.Calls...)
	if c.CalledCard != nil {
		card := *c.CalledCard
		out.CalledCard = &card
	}
	return out
}

// HasPartner reports whether someone other than the bidder holds the called card.
func (c Contract) HasPartner() bool { return c.Partner >= 0 && c.Partner != c.Bidder }

// Show is a trump show made before a player's first card.
type Show struct {
	Seat  int    `json:"seat"`
	Cards []Card `json:"cards"`
}

// NewGameBoard is the lobby: players join and mark themselves ready.
type NewGameBoard struct {
	Players []PlayerID `json:"players"`
	Ready   []PlayerID `json:"ready"`
}

func (b *NewGameBoard) Name() BoardName       { return BoardNewGame }
func (b *NewGameBoard) PlayerIDs() []PlayerID { return b.Players }
func (b *NewGameBoard) clone() BoardState {
	return &NewGameBoard{
		Players: append([]PlayerID(nil), b.Players...),
		Ready:   append([]PlayerID(nil), b.Ready...),
	}
}

// BiddingBoard holds dealt hands while contracts are bid.
type BiddingBoard struct {
	Table
	Bidding CurrentBids `json:"bidding"`
}

func (b *BiddingBoard) Name() BoardName       { return BoardBidding }
func (b *BiddingBoard) PlayerIDs() []PlayerID { return b.Players }
func (b *BiddingBoard) clone() BoardState {
	return &BiddingBoard{Table: b.Table.clone(), Bidding: b.Bidding.clone()}
}

// PartnerCallBoard waits for the bidder to call a card (5 players).
type PartnerCallBoard struct {
	Table
	Bids     []Bid    `json:"bids"`
	Contract Contract `json:"contract"`
}

func (b *PartnerCallBoard) Name() BoardName       { return BoardPartnerCall }
func (b *PartnerCallBoard) PlayerIDs() []PlayerID { return b.Players }
func (b *PartnerCallBoard) clone() BoardState {
	return &PartnerCallBoard{
		Table:    b.Table.clone(),
		Bids:     append([]Bid(nil), b.Bids...),
		Contract: b.Contract.clone(),
	}
}

// DogRevealBoard waits for the bidder to exchange with the revealed dog.
type DogRevealBoard struct {
	Table
	Bids     []Bid    `json:"bids"`
	Contract Contract `json:"contract"`
}

func (b *DogRevealBoard) Name() BoardName       { return BoardDogReveal }
func (b *DogRevealBoard) PlayerIDs() []PlayerID { return b.Players }
func (b *DogRevealBoard) clone() BoardState {
	return &DogRevealBoard{
		Table:    b.Table.clone(),
		Bids:     append([]Bid(nil), b.Bids...),
		Contract: b.Contract.clone(),
	}
}

// PlayingBoard is the trick-taking phase.
type PlayingBoard struct {
	Table
	Bids      []Bid            `json:"bids"`
	Contract  Contract         `json:"contract"`
	Shows     []Show           `json:"shows"`
	HasPlayed []bool           `json:"hasPlayed"`
	Trick     Trick            `json:"trick"`
	Tricks    []CompletedTrick `json:"tricks"`
}

func (b *PlayingBoard) Name() BoardName       { return BoardPlaying }
func (b *PlayingBoard) PlayerIDs() []PlayerID { return b.Players }
func (b *PlayingBoard) clone() BoardState {
	return &PlayingBoard{
		Table:     b.Table.clone(),
		Bids:      append([]Bid(nil), b.Bids...),
		Contract:  b.Contract.clone(),
		Shows:     cloneShows(b.Shows),
		HasPlayed: append([]bool(nil), b.HasPlayed...),
		Trick:     b.Trick.clone(),
		Tricks:    cloneTricks(b.Tricks),
	}
}

// FirstTurn reports whether no card has been played yet.
func (b *PlayingBoard) FirstTurn() bool {
	return len(b.Tricks) == 0 && len(b.Trick.Cards) == 0
}

// CompletedBoard is terminal; only messages are accepted.
type CompletedBoard struct {
	Players  []PlayerID       `json:"players"`
	Dog      []Card           `json:"dog"`
	Bids     []Bid            `json:"bids"`
	Contract Contract         `json:"contract"`
	Shows    []Show           `json:"shows"`
	Tricks   []CompletedTrick `json:"tricks"`
	Outcome  Outcome          `json:"outcome"`
}

func (b *CompletedBoard) Name() BoardName       { return BoardCompleted }
func (b *CompletedBoard) PlayerIDs() []PlayerID { return b.Players }

// A completed board is immutable, so clones share it.
func (b *CompletedBoard) clone() BoardState { return b }

func cloneShows(shows []Show) []Show {
	out := make([]Show, len(shows))
	for i, s := range shows {
		out[i] = Show{Seat: s.Seat, Cards: append([]Card(nil), s.Cards...)}
	}
	return out
}

func cloneTricks(tricks []CompletedTrick) []CompletedTrick {
	out := make([]CompletedTrick, len(tricks))
	for i, t := range tricks {
		out[i] = CompletedTrick{
			Cards:   append([]Card(nil), t.Cards...),
			Players: append([]int(nil), t.Players...),
			Winner:  t.Winner,
		}
	}
	return out
}

// NewGame returns the initial board of a game.
func NewGame() BoardState { return &NewGameBoard{} }

// Clone returns a deep copy of a board, safe to hand to readers.
func Clone(b BoardState) BoardState { return b.clone() }
