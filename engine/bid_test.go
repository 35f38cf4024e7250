package engine

import "testing"

func mustBid(t *testing.T, cur CurrentBids, seat int, value BidValue, calls ...Call) (CurrentBids, bool) {
	t.Helper()
	next, done, err := ApplyBid(cur, Bid{Seat: seat, Value: value, Calls: calls})
	if err != nil {
		t.Fatalf("seat %d bid %d: %v", seat, value, err)
	}
	return next, done
}

// TestBiddingFiveSeats replays 10, 20 Russian, pass, pass, 40, pass, pass.
func TestBiddingFiveSeats(t *testing.T) {
	cur := NewBids(5)
	steps := []struct {
		seat  int
		value BidValue
		calls []Call
	}{
		{0, Bid10, nil},
		{1, Bid20, []Call{CallRussian}},
		{2, BidPass, nil},
		{3, BidPass, nil},
		{4, Bid40, nil},
		{0, BidPass, nil},
	}
	var done bool
	for _, s := range steps {
		cur, done = mustBid(t, cur, s.seat, s.value, s.calls...)
		if done {
			t.Fatalf("bidding ended early after seat %d", s.seat)
		}
	}
	cur, done = mustBid(t, cur, 1, BidPass)
	if !done {
		t.Fatal("bidding should be over")
	}
	if cur.High == nil || cur.High.Seat != 4 || cur.High.Value != Bid40 {
		t.Fatalf("unexpected high bid %+v", cur.High)
	}
	if len(cur.Bids) != 7 {
		t.Errorf("expected 7 recorded bids, got %d", len(cur.Bids))
	}
	if !cur.Bids[1].HasCall(CallRussian) {
		t.Error("Russian call not recorded")
	}
}

func TestBiddingAllPass(t *testing.T) {
	cur := NewBids(3)
	var done bool
	for seat := 0; seat < 3; seat++ {
		cur, done = mustBid(t, cur, seat, BidPass)
	}
	if !done || cur.High != nil {
		t.Fatalf("expected all-pass completion, got done=%v high=%+v", done, cur.High)
	}
}

func TestBiddingMaxEndsImmediately(t *testing.T) {
	cur, done := mustBid(t, NewBids(4), 0, Bid160)
	if !done {
		t.Fatal("160 should end bidding")
	}
	if cur.High.Seat != 0 {
		t.Errorf("expected seat 0 high, got %d", cur.High.Seat)
	}
}

func TestBidErrors(t *testing.T) {
	cur, _ := mustBid(t, NewBids(4), 0, Bid40)

	cases := []struct {
		name string
		bid  Bid
		want error
	}{
		{"out of turn", Bid{Seat: 3, Value: Bid80}, ErrOutOfTurn},
		{"not a contract", Bid{Seat: 1, Value: 30}, ErrInvalidBid},
		{"too low", Bid{Seat: 1, Value: Bid20}, ErrBidTooLow},
		{"equal", Bid{Seat: 1, Value: Bid40}, ErrBidTooLow},
		{"russian on wrong bid", Bid{Seat: 1, Value: Bid80, Calls: []Call{CallRussian}}, ErrInvalidCall},
		{"unknown call", Bid{Seat: 1, Value: Bid80, Calls: []Call{"GRAND"}}, ErrInvalidCall},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, done, err := ApplyBid(cur, tc.bid)
			if err != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if done || len(next.Bids) != len(cur.Bids) {
				t.Error("rejected bid must not change the record")
			}
		})
	}
}

// TestBidRecordIsMonotonic drives random legal sequences and checks that
// non-pass values strictly increase and at most n-1 players ever pass.
func TestBidRecordIsMonotonic(t *testing.T) {
	values := []BidValue{BidPass, Bid10, Bid20, Bid40, Bid80, Bid160}
	rng := NewXorShift(7)
	for round := 0; round < 500; round++ {
		n := MinPlayers + int(rng.next()%3)
		cur := NewBids(n)
		for steps := 0; ; steps++ {
			if steps > 100 {
				t.Fatal("bidding did not terminate")
			}
			v := values[rng.next()%uint64(len(values))]
			next, done, err := ApplyBid(cur, Bid{Seat: cur.Next(), Value: v})
			if err == ErrBidTooLow {
				continue
			}
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			cur = next
			if done {
				break
			}
		}
		var last BidValue
		for _, b := range cur.Bids {
			if b.Value == BidPass {
				continue
			}
			if b.Value <= last {
				t.Fatalf("bids not increasing: %+v", cur.Bids)
			}
			last = b.Value
		}
		if cur.High != nil && cur.High.Value != last {
			t.Fatalf("high %d does not match last raise %d", cur.High.Value, last)
		}
	}
}
