// Package bot projects a game board onto what one player may see and
// drives server-side players from that projection.
package bot

import "github.com/gillessed/palantarot/engine"

// View is one player's picture of a board. It never carries another
// player's hand or a dog the player has not been shown.
type View struct {
	Player  engine.PlayerID   `json:"player"`
	Seat    int               `json:"seat"` // -1 when not seated
	Phase   engine.BoardName  `json:"phase"`
	Players []engine.PlayerID `json:"players"`
	Ready   bool              `json:"ready,omitempty"`

	Hand       []engine.Card     `json:"hand,omitempty"`
	Dog        []engine.Card     `json:"dog,omitempty"`
	Bids       []engine.Bid      `json:"bids,omitempty"`
	Bidder     int               `json:"bidder"`
	Bid        engine.BidValue   `json:"bid,omitempty"`
	CalledCard *engine.Card      `json:"calledCard,omitempty"`
	Trick      []engine.Card     `json:"trick,omitempty"`
	Tricks     int               `json:"tricks"`
	Outcome    *engine.Outcome   `json:"outcome,omitempty"`
	YourTurn   bool              `json:"yourTurn"`
	LegalBids  []engine.BidValue `json:"legalBids,omitempty"`
	LegalCards []engine.Card     `json:"legalCards,omitempty"`
}

var contracts = []engine.BidValue{engine.Bid10, engine.Bid20, engine.Bid40, engine.Bid80, engine.Bid160}

// ViewFor projects board for player. It is a pure function of its inputs.
func ViewFor(board engine.BoardState, player engine.PlayerID) View {
	v := View{
		Player:  player,
		Seat:    -1,
		Bidder:  -1,
		Phase:   board.Name(),
		Players: append([]engine.PlayerID(nil), board.PlayerIDs()...),
	}
	for i, p := range v.Players {
		if p == player {
			v.Seat = i
		}
	}

	switch b := board.(type) {
	case *engine.NewGameBoard:
		for _, p := range b.Ready {
			if p == player {
				v.Ready = true
			}
		}

	case *engine.BiddingBoard:
		v.Hand = hand(b.Table, v.Seat)
		v.Bids = append([]engine.Bid(nil), b.Bidding.Bids...)
		if b.Bidding.High != nil {
			v.Bidder, v.Bid = b.Bidding.High.Seat, b.Bidding.High.Value
		}
		if v.Seat >= 0 && b.Bidding.Next() == v.Seat {
			v.YourTurn = true
			v.LegalBids = append(v.LegalBids, engine.BidPass)
			for _, c := range contracts {
				if c > v.Bid {
					v.LegalBids = append(v.LegalBids, c)
				}
			}
		}

	case *engine.PartnerCallBoard:
		v.Hand = hand(b.Table, v.Seat)
		v.Bids = append([]engine.Bid(nil), b.Bids...)
		v.Bidder, v.Bid = b.Contract.Bidder, b.Contract.Bid
		v.YourTurn = v.Seat >= 0 && v.Seat == b.Contract.Bidder

	case *engine.DogRevealBoard:
		v.Hand = hand(b.Table, v.Seat)
		v.Bids = append([]engine.Bid(nil), b.Bids...)
		v.Bidder, v.Bid = b.Contract.Bidder, b.Contract.Bid
		v.CalledCard = b.Contract.CalledCard
		// The dog has been turned over for everyone at this point.
		v.Dog = append([]engine.Card(nil), b.Dog...)
		v.YourTurn = v.Seat >= 0 && v.Seat == b.Contract.Bidder

	case *engine.PlayingBoard:
		v.Hand = hand(b.Table, v.Seat)
		v.Bids = append([]engine.Bid(nil), b.Bids...)
		v.Bidder, v.Bid = b.Contract.Bidder, b.Contract.Bid
		v.CalledCard = b.Contract.CalledCard
		v.Trick = append([]engine.Card(nil), b.Trick.Cards...)
		v.Tricks = len(b.Tricks)
		if v.Seat >= 0 && b.Trick.Current == v.Seat {
			v.YourTurn = true
			var called *engine.Card
			if len(b.Tricks) == 0 {
				called = b.Contract.CalledCard
			}
			v.LegalCards = engine.LegalCards(v.Hand, v.Trick, called)
		}

	case *engine.CompletedBoard:
		v.Bids = append([]engine.Bid(nil), b.Bids...)
		v.Bidder, v.Bid = b.Contract.Bidder, b.Contract.Bid
		v.CalledCard = b.Contract.CalledCard
		v.Tricks = len(b.Tricks)
		out := b.Outcome
		v.Outcome = &out
	}
	return v
}

func hand(t engine.Table, seat int) []engine.Card {
	if seat < 0 || seat >= len(t.Hands) {
		return nil
	}
	return append([]engine.Card(nil), t.Hands[seat]...)
}
