package engine

// ResolvePartner returns the seat holding card, or -1 when it is in the dog.
func ResolvePartner(t Table, card Card) int {
	for seat, hand := range t.Hands {
		if containsCard(hand, card) {
			return seat
		}
	}
	return -1
}

// CallPartner validates a partner call by seat and returns the updated contract.
func CallPartner(t Table, c Contract, seat int, card Card) (Contract, error) {
	if seat != c.Bidder {
		return c, ErrNotBidder
	}
	if !card.Valid() {
		return c, ErrInvalidCard
	}
	if card.IsTrump() {
		return c, ErrCannotCallTrump
	}
	next := c.clone()
	next.CalledCard = &card
	next.Partner = ResolvePartner(t, card)
	return next, nil
}

// ExchangeDog validates the bidder's new dog and returns the bidder's new
// hand. The new dog must be drawn from the bidder's hand plus the old dog.
func ExchangeDog(t Table, c Contract, seat int, newDog []Card) ([]Card, error) {
	if seat != c.Bidder {
		return nil, ErrNotBidder
	}
	if len(newDog) != len(t.Dog) {
		return nil, ErrWrongSize
	}
	pool := append(append([]Card(nil), t.Hands[seat]...), t.Dog...)
	for i, card := range newDog {
		if !containsCard(pool, card) || containsCard(newDog[:i], card) {
			return nil, ErrDoesNotMatch
		}
	}
	hand := pool
	for _, card := range newDog {
		hand = removeCard(hand, card)
	}
	SortHand(hand)
	return hand, nil
}

// DeclareSlam validates a slam declaration. firstTurn is false once any
// card has been played.
func DeclareSlam(c Contract, seat int, firstTurn bool) (Contract, error) {
	if seat != c.Bidder {
		return c, ErrNotBidder
	}
	if !firstTurn {
		return c, ErrAfterFirstTurn
	}
	next := c.clone()
	next.DeclaredSlam = true
	if !containsCall(next.Calls, CallDeclaredSlam) {
		next.Calls = append(next.Calls, CallDeclaredSlam)
	}
	return next, nil
}

// ValidateShow checks a trump show: once per player, before the player's
// first card, offering every trump held, with enough trumps for the table.
func ValidateShow(b *PlayingBoard, seat int, shown []Card) error {
	for _, s := range b.Shows {
		if s.Seat == seat {
			return ErrDuplicateShow
		}
	}
	if b.HasPlayed[seat] {
		return ErrAfterFirstCard
	}
	trumps := trumpsOf(b.Hands[seat])
	if len(trumps) < ShowThreshold(len(b.Players)) {
		return ErrNotEnoughTrumps
	}
	if len(shown) != len(trumps) {
		return ErrShowMismatch
	}
	for i, card := range shown {
		if !containsCard(trumps, card) || containsCard(shown[:i], card) {
			return ErrShowMismatch
		}
	}
	return nil
}

func containsCall(calls []Call, call Call) bool {
	for _, c := range calls {
		if c == call {
			return true
		}
	}
	return false
}
