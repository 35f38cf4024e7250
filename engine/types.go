package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Suit is packed into the upper 3 bits of Card.
type Suit uint8

const (
	SuitSpade   Suit = 0
	SuitHeart   Suit = 1
	SuitDiamond Suit = 2
	SuitClub    Suit = 3
	SuitTrump   Suit = 4
)

// RegularSuits lists the four non-trump suits in display order.
var RegularSuits = [4]Suit{SuitSpade, SuitHeart, SuitDiamond, SuitClub}

var suitLetters = [...]string{"S", "H", "D", "C", "T"}

func (s Suit) String() string {
	if int(s) < len(suitLetters) {
		return suitLetters[s]
	}
	return "?"
}

// Values are packed into the lower 5 bits of Card.
// Regular suits use 1 to 10 then the face cards; trumps use 0 (Joker) through 21.
const (
	ValueJoker    uint8 = 0
	ValueValet    uint8 = 11
	ValueCavalier uint8 = 12
	ValueDame     uint8 = 13
	ValueRoi      uint8 = 14

	maxTrumpValue   uint8 = 21
	maxRegularValue uint8 = ValueRoi
)

// Card is a packed uint8: upper 3 bits = suit, lower 5 bits = value.
type Card uint8

// NewCard constructs a Card from suit and value.
func NewCard(suit Suit, value uint8) Card {
	return Card(uint8(suit)<<5 | value&0x1F)
}

// Trump returns the trump card with the given value (0 = Joker).
func Trump(value uint8) Card { return NewCard(SuitTrump, value) }

var (
	Joker   = Trump(ValueJoker)
	Trump1  = Trump(1)
	Trump21 = Trump(21)
)

// Suit returns the suit bits (upper 3).
func (c Card) Suit() Suit { return Suit(uint8(c) >> 5) }

// Value returns the value bits (lower 5).
func (c Card) Value() uint8 { return uint8(c) & 0x1F }

// IsTrump reports whether the card belongs to the trump suit. The Joker is a trump.
func (c Card) IsTrump() bool { return c.Suit() == SuitTrump }

// IsJoker reports whether the card is the Joker (the Excuse).
func (c Card) IsJoker() bool { return c == Joker }

// IsBout reports whether the card is one of the three bouts.
func (c Card) IsBout() bool { return c == Joker || c == Trump1 || c == Trump21 }

// IsKing reports whether the card is a Roi.
func (c Card) IsKing() bool { return !c.IsTrump() && c.Value() == ValueRoi }

// Valid reports whether the card exists in a tarot deck.
func (c Card) Valid() bool {
	switch s := c.Suit(); {
	case s == SuitTrump:
		return c.Value() <= maxTrumpValue
	case s < SuitTrump:
		return c.Value() >= 1 && c.Value() <= maxRegularValue
	}
	return false
}

// Rank returns the ordering of the card within its suit. The Joker ranks
// below every trump.
func Rank(c Card) int { return int(c.Value()) }

// Points is a card point total measured in half points, so that card values
// like 4.5 stay integral.
type Points int

// Float returns the points as a decimal number.
func (p Points) Float() float64 { return float64(p) / 2 }

// MarshalJSON renders half points as a decimal number (52, 41.5).
func (p Points) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(p.Float(), 'f', -1, 64)), nil
}

// UnmarshalJSON parses a decimal number into half points.
func (p *Points) UnmarshalJSON(b []byte) error {
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*p = Points(f * 2)
	return nil
}

// PointValue returns the scoring value of a card in half points.
//   - Bouts 4.5
//   - Other trumps 0.5
//   - Roi 4.5, Dame 3.5, Cavalier 2.5, Valet 1.5, pip cards 0.5
func PointValue(c Card) Points {
	if c.IsTrump() {
		if c.IsBout() {
			return 9
		}
		return 1
	}
	switch c.Value() {
	case ValueRoi:
		return 9
	case ValueDame:
		return 7
	case ValueCavalier:
		return 5
	case ValueValet:
		return 3
	}
	return 1
}

// CountPoints sums the point values of cards.
func CountPoints(cards []Card) Points {
	var total Points
	for _, c := range cards {
		total += PointValue(c)
	}
	return total
}

// Less orders cards by suit then rank, which is the display order of a hand.
func Less(a, b Card) bool {
	if a.Suit() != b.Suit() {
		return a.Suit() < b.Suit()
	}
	return a.Value() < b.Value()
}

// SortHand sorts cards in place by suit then rank.
func SortHand(cards []Card) {
	sort.Slice(cards, func(i, j int) bool { return Less(cards[i], cards[j]) })
}

var faceNames = map[uint8]string{
	ValueValet:    "V",
	ValueCavalier: "C",
	ValueDame:     "D",
	ValueRoi:      "R",
}

// String renders a card in wire form, e.g. "H:R", "S:7", "T:21", "T:Joker".
func (c Card) String() string {
	v := c.Value()
	switch {
	case c.IsJoker():
		return "T:Joker"
	case !c.IsTrump() && v > 10:
		return c.Suit().String() + ":" + faceNames[v]
	}
	return c.Suit().String() + ":" + strconv.Itoa(int(v))
}

// ParseCard parses the wire form produced by String.
func ParseCard(s string) (Card, error) {
	suitPart, valuePart, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("malformed card %q", s)
	}
	suit := Suit(255)
	for i, l := range suitLetters {
		if l == suitPart {
			suit = Suit(i)
		}
	}
	if suit == 255 {
		return 0, fmt.Errorf("unknown suit in card %q", s)
	}
	if suit == SuitTrump && valuePart == "Joker" {
		return Joker, nil
	}
	for v, name := range faceNames {
		if name == valuePart && suit != SuitTrump {
			return NewCard(suit, v), nil
		}
	}
	n, err := strconv.Atoi(valuePart)
	if err != nil {
		return 0, fmt.Errorf("unknown value in card %q", s)
	}
	c := NewCard(suit, uint8(n))
	if n < 0 || n > 31 || !c.Valid() || (suit != SuitTrump && n > 10) {
		return 0, fmt.Errorf("card %q does not exist", s)
	}
	return c, nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Card) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Card) UnmarshalText(b []byte) error {
	parsed, err := ParseCard(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// AllCards builds the canonical 78-card deck.
func AllCards() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, s := range RegularSuits {
		for v := uint8(1); v <= maxRegularValue; v++ {
			deck = append(deck, NewCard(s, v))
		}
	}
	for v := uint8(0); v <= maxTrumpValue; v++ {
		deck = append(deck, Trump(v))
	}
	return deck
}

// containsCard reports whether card is in cards.
func containsCard(cards []Card, card Card) bool {
	for _, c := range cards {
		if c == card {
			return true
		}
	}
	return false
}

// removeCard returns a copy of cards without the first occurrence of card.
func removeCard(cards []Card, card Card) []Card {
	out := make([]Card, 0, len(cards))
	removed := false
	for _, c := range cards {
		if c == card && !removed {
			removed = true
			continue
		}
		out = append(out, c)
	}
	return out
}

// trumpsOf returns the trumps (Joker included) in cards.
func trumpsOf(cards []Card) []Card {
	var out []Card
	for _, c := range cards {
		if c.IsTrump() {
			out = append(out, c)
		}
	}
	return out
}
