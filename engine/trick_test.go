package engine

import "testing"

var (
	s4  = NewCard(SuitSpade, 4)
	sR  = NewCard(SuitSpade, ValueRoi)
	h2  = NewCard(SuitHeart, 2)
	h9  = NewCard(SuitHeart, 9)
	hD  = NewCard(SuitHeart, ValueDame)
	hR  = NewCard(SuitHeart, ValueRoi)
	d7  = NewCard(SuitDiamond, 7)
	c10 = NewCard(SuitClub, 10)
)

func sameCards(a, b []Card) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLegalCards(t *testing.T) {
	cases := []struct {
		name   string
		hand   []Card
		trick  []Card
		called *Card
		want   []Card
	}{
		{
			name:  "lead anything",
			hand:  []Card{s4, h2, Trump(5)},
			trick: nil,
			want:  []Card{s4, h2, Trump(5)},
		},
		{
			name:  "follow suit, Joker allowed",
			hand:  []Card{s4, h2, h9, Joker, Trump(5)},
			trick: []Card{hD},
			want:  []Card{h2, h9, Joker},
		},
		{
			name:  "Joker lead is skipped",
			hand:  []Card{s4, h2, Trump(5)},
			trick: []Card{Joker, hD},
			want:  []Card{h2},
		},
		{
			name:  "only Joker in trick",
			hand:  []Card{s4, h2, Trump(5)},
			trick: []Card{Joker},
			want:  []Card{s4, h2, Trump(5)},
		},
		{
			name:  "void must trump",
			hand:  []Card{s4, d7, Trump(3), Trump(12)},
			trick: []Card{hD},
			want:  []Card{Trump(3), Trump(12)},
		},
		{
			name:  "must over-trump",
			hand:  []Card{s4, Trump(3), Trump(12), Trump(15)},
			trick: []Card{hD, Trump(10)},
			want:  []Card{Trump(12), Trump(15)},
		},
		{
			name:  "floor is the lowest trump played",
			hand:  []Card{h2, Trump(10), Trump(20)},
			trick: []Card{NewCard(SuitSpade, 1), Trump(5), Trump(15)},
			want:  []Card{Trump(10), Trump(20)},
		},
		{
			name:  "trump lead, over the lowest trump",
			hand:  []Card{s4, Trump(2), Trump(6), Trump(9)},
			trick: []Card{Trump(4), Trump(12)},
			want:  []Card{Trump(6), Trump(9)},
		},
		{
			name:  "cannot over-trump, any trump",
			hand:  []Card{s4, Joker, Trump(3), Trump(7)},
			trick: []Card{Trump(10)},
			want:  []Card{Joker, Trump(3), Trump(7)},
		},
		{
			name:  "over-trump keeps Joker",
			hand:  []Card{Joker, Trump(3), Trump(17)},
			trick: []Card{Trump(10)},
			want:  []Card{Joker, Trump(17)},
		},
		{
			name:  "void without trumps discards",
			hand:  []Card{s4, d7, c10},
			trick: []Card{hD},
			want:  []Card{s4, d7, c10},
		},
		{
			name:  "only Joker among trumps discards",
			hand:  []Card{s4, Joker},
			trick: []Card{Trump(4)},
			want:  []Card{s4, Joker},
		},
		{
			name:   "called suit cannot be led",
			hand:   []Card{s4, h2, h9, Trump(5)},
			called: &hR,
			want:   []Card{s4, Trump(5)},
		},
		{
			name:   "called king itself may be led",
			hand:   []Card{h2, hR, Trump(5)},
			called: &hR,
			want:   []Card{hR, Trump(5)},
		},
		{
			name:   "only called suit left",
			hand:   []Card{h2, h9},
			called: &hR,
			want:   []Card{h2, h9},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := LegalCards(tc.hand, tc.trick, tc.called)
			if !sameCards(got, tc.want) {
				t.Errorf("LegalCards = %v, want %v", got, tc.want)
			}
		})
	}
}

// TestLegalCardsSound checks on random deals that the legal set is a
// non-empty subset of the hand.
func TestLegalCardsSound(t *testing.T) {
	rng := NewXorShift(99)
	for round := 0; round < 300; round++ {
		deck := AllCards()
		rng.Shuffle(deck)
		hand := deck[:15]
		trick := deck[15 : 15+int(rng.next()%5)]
		legal := LegalCards(hand, trick, nil)
		if len(legal) == 0 {
			t.Fatalf("empty legal set for hand %v on %v", hand, trick)
		}
		for _, c := range legal {
			if !containsCard(hand, c) {
				t.Fatalf("legal card %v not in hand", c)
			}
		}
	}
}

func TestTrickWinner(t *testing.T) {
	cases := []struct {
		name  string
		trick []Card
		want  int
	}{
		{"highest of lead suit", []Card{h9, hD, h2}, 1},
		{"off-suit loses", []Card{h9, sR, h2}, 0},
		{"trump wins", []Card{hR, Trump(2), hD}, 1},
		{"highest trump", []Card{Trump(4), Trump(21), Trump(20)}, 1},
		{"Joker never wins", []Card{Joker, h2, h9}, 2},
		{"Joker lead, trump follows", []Card{Joker, h9, Trump(1)}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TrickWinner(tc.trick); got != tc.want {
				t.Errorf("TrickWinner(%v) = %d, want %d", tc.trick, got, tc.want)
			}
		})
	}
}
