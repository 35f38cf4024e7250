package engine

// Shuffler permutes a deck in place.
type Shuffler interface {
	Shuffle(cards []Card)
}

// XorShift is a seeded xorshift64 Fisher-Yates shuffler. The zero value is
// usable and behaves as seed 1.
type XorShift struct {
	state uint64
}

// NewXorShift returns a shuffler seeded with seed.
func NewXorShift(seed uint64) *XorShift {
	if seed == 0 {
		seed = 1 // xorshift can't start at 0
	}
	return &XorShift{state: seed}
}

func (x *XorShift) next() uint64 {
	if x.state == 0 {
		x.state = 1
	}
	s := x.state
	s ^= s << 13
	s ^= s >> 7
	s ^= s << 17
	x.state = s
	return s
}

// Shuffle implements Shuffler.
func (x *XorShift) Shuffle(cards []Card) {
	for i := len(cards) - 1; i > 0; i-- {
		j := int(x.next() % uint64(i+1))
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// Dealt is the result of a deal: one hand per seat plus the dog.
type Dealt struct {
	Hands [][]Card `json:"hands"`
	Dog   []Card   `json:"dog"`
}

// Deal shuffles a fresh deck and splits it into n hands and a dog. Deals
// leaving a hand whose only trump is the Trump-1 are reshuffled, up to
// maxAttempts times (MaxDealAttempts when maxAttempts <= 0).
func Deal(n int, shuffler Shuffler, maxAttempts int) (Dealt, error) {
	if n < MinPlayers || n > MaxPlayers {
		return Dealt{}, ErrPlayerCount
	}
	if maxAttempts <= 0 {
		maxAttempts = MaxDealAttempts
	}
	deck := AllCards()
	for attempt := 0; attempt < maxAttempts; attempt++ {
		shuffler.Shuffle(deck)
		dealt := split(deck, n)
		if validDeal(dealt) {
			return dealt, nil
		}
	}
	return Dealt{}, ErrDealExhausted
}

// split deals the deck in order: the dog comes off the top, then hands in
// seat order.
func split(deck []Card, n int) Dealt {
	dogSize := DogSize(n)
	handSize := HandSize(n)
	d := Dealt{
		Dog:   append([]Card(nil), deck[:dogSize]...),
		Hands: make([][]Card, n),
	}
	for p := 0; p < n; p++ {
		start := dogSize + p*handSize
		d.Hands[p] = append([]Card(nil), deck[start:start+handSize]...)
		SortHand(d.Hands[p])
	}
	SortHand(d.Dog)
	return d
}

func validDeal(d Dealt) bool {
	for _, hand := range d.Hands {
		if IsolatedPetit(hand) {
			return false
		}
	}
	return true
}

// IsolatedPetit reports whether the Trump-1 is the only trump in hand.
// The Joker does not count as a protecting trump.
func IsolatedPetit(hand []Card) bool {
	hasPetit := false
	others := 0
	for _, c := range hand {
		switch {
		case c == Trump1:
			hasPetit = true
		case c.IsTrump() && !c.IsJoker():
			others++
		}
	}
	return hasPetit && others == 0
}
