package engine

import (
	"encoding/json"
	"testing"
)

func TestAllCardsIsFullDeck(t *testing.T) {
	deck := AllCards()
	if len(deck) != DeckSize {
		t.Fatalf("expected %d cards, got %d", DeckSize, len(deck))
	}
	seen := make(map[Card]bool)
	for _, c := range deck {
		if !c.Valid() {
			t.Errorf("invalid card in deck: %v", c)
		}
		if seen[c] {
			t.Errorf("duplicate card %v", c)
		}
		seen[c] = true
	}
}

// TestDeckPoints verifies the whole deck is worth 91 points.
func TestDeckPoints(t *testing.T) {
	total := CountPoints(AllCards())
	if total.Float() != 91 {
		t.Errorf("expected 91 points, got %v", total.Float())
	}
}

func TestPointValue(t *testing.T) {
	cases := []struct {
		card Card
		want float64
	}{
		{NewCard(SuitHeart, ValueRoi), 4.5},
		{NewCard(SuitSpade, ValueDame), 3.5},
		{NewCard(SuitClub, ValueCavalier), 2.5},
		{NewCard(SuitDiamond, ValueValet), 1.5},
		{NewCard(SuitDiamond, 10), 0.5},
		{Joker, 4.5},
		{Trump1, 4.5},
		{Trump21, 4.5},
		{Trump(12), 0.5},
	}
	for _, tc := range cases {
		if got := PointValue(tc.card).Float(); got != tc.want {
			t.Errorf("PointValue(%v) = %v, want %v", tc.card, got, tc.want)
		}
	}
}

func TestBouts(t *testing.T) {
	bouts := 0
	for _, c := range AllCards() {
		if c.IsBout() {
			bouts++
		}
	}
	if bouts != 3 {
		t.Errorf("expected 3 bouts, got %d", bouts)
	}
	if !Joker.IsTrump() {
		t.Error("Joker should belong to the trump suit")
	}
	if Rank(Joker) >= Rank(Trump1) {
		t.Error("Joker should rank below the Trump-1")
	}
}

// TestCardStringRoundTrip parses the wire form of every card back.
func TestCardStringRoundTrip(t *testing.T) {
	for _, c := range AllCards() {
		parsed, err := ParseCard(c.String())
		if err != nil {
			t.Fatalf("ParseCard(%q): %v", c.String(), err)
		}
		if parsed != c {
			t.Errorf("round trip %q gave %v", c.String(), parsed)
		}
	}
}

func TestParseCardRejectsUnknown(t *testing.T) {
	for _, s := range []string{"", "S", "X:1", "S:11", "S:0", "T:22", "T:R", "H:Joker"} {
		if _, err := ParseCard(s); err == nil {
			t.Errorf("ParseCard(%q) should fail", s)
		}
	}
}

func TestCardJSON(t *testing.T) {
	b, err := json.Marshal([]Card{Joker, NewCard(SuitHeart, ValueRoi), Trump(7)})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `["T:Joker","H:R","T:7"]` {
		t.Errorf("unexpected JSON %s", b)
	}
	var cards []Card
	if err := json.Unmarshal(b, &cards); err != nil {
		t.Fatal(err)
	}
	if cards[1] != NewCard(SuitHeart, ValueRoi) {
		t.Errorf("unexpected card %v", cards[1])
	}
}

func TestPointsJSON(t *testing.T) {
	b, err := json.Marshal(Points(83))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "41.5" {
		t.Errorf("expected 41.5, got %s", b)
	}
}

func TestSortHand(t *testing.T) {
	hand := []Card{Trump(3), NewCard(SuitHeart, 2), Joker, NewCard(SuitSpade, ValueRoi)}
	SortHand(hand)
	want := []Card{NewCard(SuitSpade, ValueRoi), NewCard(SuitHeart, 2), Joker, Trump(3)}
	for i := range want {
		if hand[i] != want[i] {
			t.Fatalf("sorted hand = %v, want %v", hand, want)
		}
	}
}
