package engine

// Trick is the trick in progress. Players[i] played Cards[i]; Current is
// the seat expected to play next.
type Trick struct {
	Cards   []Card `json:"cards"`
	Players []int  `json:"players"`
	Current int    `json:"current"`
}

// CompletedTrick is a frozen trick with its winner.
type CompletedTrick struct {
	Cards   []Card `json:"cards"`
	Players []int  `json:"players"`
	Winner  int    `json:"winner"`
}

func (t Trick) clone() Trick {
	return Trick{
		Cards:   append([]Card(nil), t.Cards...),
		Players: append([]int(nil), t.Players...),
		Current: t.Current,
	}
}

// PlayerOf returns the seat that played card in the trick, or -1.
func (t CompletedTrick) PlayerOf(card Card) int {
	for i, c := range t.Cards {
		if c == card {
			return t.Players[i]
		}
	}
	return -1
}

// LeadSuit returns the suit of the first non-Joker card of a trick.
func LeadSuit(trick []Card) (Suit, bool) {
	for _, c := range trick {
		if !c.IsJoker() {
			return c.Suit(), true
		}
	}
	return 0, false
}

func filterCards(cards []Card, keep func(Card) bool) []Card {
	var out []Card
	for _, c := range cards {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// LegalCards returns the cards of hand that may be played on trick.
// calledCard, when non-nil, forbids leading the called suit with any other
// card of that suit; it applies to the first trick only.
func LegalCards(hand []Card, trick []Card, calledCard *Card) []Card {
	if len(trick) == 0 {
		if calledCard != nil {
			called := *calledCard
			legal := filterCards(hand, func(c Card) bool {
				return c.Suit() != called.Suit() || c == called
			})
			if len(legal) > 0 {
				return legal
			}
		}
		return append([]Card(nil), hand...)
	}

	lead, ok := LeadSuit(trick)
	if !ok {
		return append([]Card(nil), hand...)
	}

	if lead != SuitTrump {
		follow := filterCards(hand, func(c Card) bool { return c.Suit() == lead })
		if len(follow) > 0 {
			return filterCards(hand, func(c Card) bool { return c.Suit() == lead || c.IsJoker() })
		}
	}

	trumps := filterCards(hand, func(c Card) bool { return c.IsTrump() && !c.IsJoker() })
	if len(trumps) > 0 {
		floor := lowestTrump(trick)
		over := filterCards(trumps, func(c Card) bool { return c.Value() > floor })
		if len(over) > 0 {
			return filterCards(hand, func(c Card) bool {
				return c.IsJoker() || (c.IsTrump() && c.Value() > floor)
			})
		}
		return filterCards(hand, func(c Card) bool { return c.IsTrump() })
	}

	return append([]Card(nil), hand...)
}

// lowestTrump returns the lowest non-Joker trump value in trick, or 0.
// Trumps above it are the ones that count as over-trumping.
func lowestTrump(trick []Card) uint8 {
	var low uint8
	for _, c := range trick {
		if c.IsTrump() && !c.IsJoker() && (low == 0 || c.Value() < low) {
			low = c.Value()
		}
	}
	return low
}

// CompareCards orders two cards played on a trick led in lead: positive
// when a beats b. The Joker loses to everything.
func CompareCards(a, b Card, lead Suit) int {
	switch {
	case a == b:
		return 0
	case a.IsJoker():
		return -1
	case b.IsJoker():
		return 1
	case a.IsTrump() != b.IsTrump():
		if a.IsTrump() {
			return 1
		}
		return -1
	case a.Suit() == b.Suit():
		return int(a.Value()) - int(b.Value())
	case a.Suit() == lead:
		return 1
	case b.Suit() == lead:
		return -1
	}
	return 0
}

// TrickWinner returns the index within trick of the winning card.
func TrickWinner(trick []Card) int {
	lead, _ := LeadSuit(trick)
	best := 0
	for i := 1; i < len(trick); i++ {
		if CompareCards(trick[i], trick[best], lead) > 0 {
			best = i
		}
	}
	return best
}
