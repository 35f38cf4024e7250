package engine

// BidValue is the size of a contract. Zero is a pass.
type BidValue int

const (
	BidPass BidValue = 0
	Bid10   BidValue = 10
	Bid20   BidValue = 20
	Bid40   BidValue = 40
	Bid80   BidValue = 80
	Bid160  BidValue = 160
)

// Valid reports whether v is a pass or one of the allowed contracts.
func (v BidValue) Valid() bool {
	switch v {
	case BidPass, Bid10, Bid20, Bid40, Bid80, Bid160:
		return true
	}
	return false
}

// Call is an announcement attached to a bid or made during the exchange.
type Call string

const (
	CallRussian      Call = "RUSSIAN"
	CallDeclaredSlam Call = "DECLARED_SLAM"
)

// Bid is one entry of the bidding sequence.
type Bid struct {
	Seat  int      `json:"seat"`
	Value BidValue `json:"value"`
	Calls []Call   `json:"calls,omitempty"`
}

// HasCall reports whether the bid carries the given call.
func (b Bid) HasCall(c Call) bool {
	for _, call := range b.Calls {
		if call == c {
			return true
		}
	}
	return false
}

// CurrentBids is the append-only bidding record plus the rotation of seats
// still allowed to bid. The next bidder is always Bidders[0].
type CurrentBids struct {
	Bids    []Bid `json:"bids"`
	Bidders []int `json:"bidders"`
	High    *Bid  `json:"high,omitempty"`
}

// NewBids opens bidding for n seats, starting at seat 0.
func NewBids(n int) CurrentBids {
	bidders := make([]int, n)
	for i := range bidders {
		bidders[i] = i
	}
	return CurrentBids{Bidders: bidders}
}

func (c CurrentBids) clone() CurrentBids {
	out := CurrentBids{
		Bids:    append([]Bid(nil), c.Bids...),
		Bidders: append([]int(nil), c.Bidders...),
	}
	if c.High != nil {
		h := *c.High
		out.High = &h
	}
	return out
}

// Next returns the seat expected to bid, or -1 when bidding is over.
func (c CurrentBids) Next() int {
	if len(c.Bidders) == 0 {
		return -1
	}
	return c.Bidders[0]
}

// ApplyBid applies one bid and reports whether bidding is over. The input
// is never modified.
func ApplyBid(cur CurrentBids, bid Bid) (CurrentBids, bool, error) {
	if cur.Next() != bid.Seat {
		return cur, false, ErrOutOfTurn
	}
	if !bid.Value.Valid() {
		return cur, false, ErrInvalidBid
	}
	for _, call := range bid.Calls {
		if call != CallRussian || bid.Value != Bid20 {
			return cur, false, ErrInvalidCall
		}
	}

	next := cur.clone()
	if bid.Value == BidPass {
		next.Bids = append(next.Bids, bid)
		next.Bidders = next.Bidders[1:]
		if len(next.Bidders) == 0 {
			return next, true, nil
		}
		done := next.High != nil && len(next.Bidders) == 1 && next.Bidders[0] == next.High.Seat
		return next, done, nil
	}

	if next.High != nil && bid.Value <= next.High.Value {
		return cur, false, ErrBidTooLow
	}
	bid.Calls = append([]Call(nil), bid.Calls...)
	next.Bids = append(next.Bids, bid)
	next.Bidders = append(next.Bidders[1:], bid.Seat)
	high := bid
	next.High = &high
	return next, len(next.Bidders) == 1 || bid.Value == MaxBid, nil
}
