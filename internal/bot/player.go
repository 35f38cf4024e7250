package bot

import (
	"sort"

	"github.com/gillessed/palantarot/engine"
)

// Player picks an action for a View.
type Player interface {
	NextAction(v View) (engine.Event, bool)
}

// Simple is a rule-following bot: it opens the bidding at the lowest
// contract and passes otherwise, calls a king it does not hold, discards
// its cheapest plain cards and always plays its first legal card.
type Simple struct{}

// NextAction returns the bot's move, or false when it has nothing to do.
func (Simple) NextAction(v View) (engine.Event, bool) {
	switch v.Phase {
	case engine.BoardNewGame:
		if v.Seat < 0 {
			return engine.SimpleAction(engine.EventEnterGame, v.Player), true
		}
		if !v.Ready {
			return engine.SimpleAction(engine.EventReady, v.Player), true
		}

	case engine.BoardBidding:
		if !v.YourTurn {
			return engine.Event{}, false
		}
		if v.Bid == engine.BidPass && len(v.LegalBids) > 1 {
			return engine.BidAction(v.Player, v.LegalBids[1]), true
		}
		return engine.BidAction(v.Player, engine.BidPass), true

	case engine.BoardPartnerCall:
		if v.YourTurn {
			return engine.CallPartnerAction(v.Player, callCard(v.Hand)), true
		}

	case engine.BoardDogReveal:
		if v.YourTurn {
			return engine.SetDogAction(v.Player, discard(v.Hand, v.Dog)), true
		}

	case engine.BoardPlaying:
		if v.YourTurn && len(v.LegalCards) > 0 {
			return engine.PlayCardAction(v.Player, v.LegalCards[0]), true
		}
	}
	return engine.Event{}, false
}

// callCard returns the first king missing from hand, falling back to
// queens, knights and valets.
func callCard(hand []engine.Card) engine.Card {
	for _, value := range []uint8{engine.ValueRoi, engine.ValueDame, engine.ValueCavalier, engine.ValueValet} {
		for _, suit := range engine.RegularSuits {
			c := engine.NewCard(suit, value)
			if !contains(hand, c) {
				return c
			}
		}
	}
	return engine.NewCard(engine.SuitSpade, engine.ValueRoi)
}

// discard picks len(dog) cards from hand plus dog, cheapest plain cards
// first. Kings and trumps are kept unless nothing else is left.
func discard(hand, dog []engine.Card) []engine.Card {
	pool := append(append([]engine.Card(nil), hand...), dog...)
	sort.SliceStable(pool, func(i, j int) bool {
		ki, kj := keep(pool[i]), keep(pool[j])
		if ki != kj {
			return !ki
		}
		pi, pj := engine.PointValue(pool[i]), engine.PointValue(pool[j])
		if pi != pj {
			return pi < pj
		}
		return engine.Less(pool[i], pool[j])
	})
	out := append([]engine.Card(nil), pool[:len(dog)]...)
	engine.SortHand(out)
	return out
}

func keep(c engine.Card) bool { return c.IsTrump() || c.IsKing() }

func contains(cards []engine.Card, card engine.Card) bool {
	for _, c := range cards {
		if c == card {
			return true
		}
	}
	return false
}
