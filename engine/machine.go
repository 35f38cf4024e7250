// Package engine implements the French Tarot rules as a state machine.
//
// Every phase of a game is a BoardState variant. Machine.Reduce applies one
// player action to the current board and returns the next board plus the
// events to append to the game log. Reduce never mutates its input: an
// illegal action returns an *Error and the caller keeps the old board.
package engine

// Machine applies actions to boards. The shuffler is only used when the
// last player marks ready and the cards are dealt.
type Machine struct {
	Shuffler        Shuffler
	MaxDealAttempts int
}

// NewMachine returns a machine dealing with the given shuffler.
func NewMachine(s Shuffler) *Machine {
	return &Machine{Shuffler: s, MaxDealAttempts: MaxDealAttempts}
}

// Reduce applies action to board.
func (m *Machine) Reduce(board BoardState, action Event) (BoardState, []Event, error) {
	if !action.Type.IsAction() {
		return board, nil, ErrUnknownAction
	}
	action = sanitize(action)
	if action.Type == EventMessage {
		return board, []Event{action}, nil
	}

	var (
		next   BoardState
		events []Event
		err    error
	)
	switch b := board.clone().(type) {
	case *NewGameBoard:
		next, events, err = m.reduceNewGame(b, action)
	case *BiddingBoard:
		next, events, err = reduceBidding(b, action)
	case *PartnerCallBoard:
		next, events, err = reducePartnerCall(b, action)
	case *DogRevealBoard:
		next, events, err = reduceDogReveal(b, action)
	case *PlayingBoard:
		next, events, err = reducePlaying(b, action)
	case *CompletedBoard:
		err = ErrGameCompleted
	default:
		err = ErrWrongPhase
	}
	if err != nil {
		return board, nil, err
	}
	return next, events, nil
}

// sanitize rebuilds an action from the fields its type carries, dropping
// client-supplied visibility and any stray payload. Every action is public
// except the dog exchange, which is always private to its author.
func sanitize(action Event) Event {
	clean := Event{Type: action.Type, Player: action.Player, Time: action.Time}
	switch action.Type {
	case EventMessage:
		clean.Text = action.Text
	case EventBid:
		clean.Bid, clean.Calls = action.Bid, action.Calls
	case EventCallPartner, EventPlayCard:
		clean.Card = action.Card
	case EventShowTrump:
		clean.Cards = action.Cards
	case EventSetDog:
		clean.Cards = action.Cards
		clean.PrivateTo = action.Player
	}
	return clean
}

func (m *Machine) reduceNewGame(b *NewGameBoard, action Event) (BoardState, []Event, error) {
	player := action.Player
	seated := seatOf(b.Players, player) >= 0
	switch action.Type {
	case EventEnterGame:
		if seated {
			return nil, nil, ErrAlreadyInGame
		}
		if len(b.Players) >= MaxPlayers {
			return nil, nil, ErrGameFull
		}
		b.Players = append(b.Players, player)
		return b, []Event{action}, nil

	case EventLeaveGame:
		if !seated {
			return nil, nil, ErrNotInGame
		}
		b.Players = removePlayer(b.Players, player)
		b.Ready = removePlayer(b.Ready, player)
		return b, []Event{action}, nil

	case EventUnready:
		if !seated {
			return nil, nil, ErrNotInGame
		}
		b.Ready = removePlayer(b.Ready, player)
		return b, []Event{action}, nil

	case EventReady:
		if !seated {
			return nil, nil, ErrNotInGame
		}
		if seatOf(b.Ready, player) < 0 {
			b.Ready = append(b.Ready, player)
		}
		events := []Event{action}
		if len(b.Ready) < len(b.Players) || len(b.Players) < MinPlayers {
			return b, events, nil
		}
		dealt, err := Deal(len(b.Players), m.Shuffler, m.MaxDealAttempts)
		if err != nil {
			return nil, nil, err
		}
		for seat, p := range b.Players {
			events = append(events, Event{
				Type:      EventDealtHand,
				PrivateTo: p,
				Player:    p,
				Cards:     append([]Card(nil), dealt.Hands[seat]...),
			})
		}
		return &BiddingBoard{
			Table:   Table{Players: b.Players, Hands: dealt.Hands, Dog: dealt.Dog},
			Bidding: NewBids(len(b.Players)),
		}, events, nil
	}
	return nil, nil, ErrWrongPhase
}

func reduceBidding(b *BiddingBoard, action Event) (BoardState, []Event, error) {
	seat := b.Seat(action.Player)
	if seat < 0 {
		return nil, nil, ErrNotInGame
	}
	if action.Type != EventBid {
		return nil, nil, ErrWrongPhase
	}
	if action.Bid == nil {
		return nil, nil, ErrInvalidBid
	}
	bids, done, err := ApplyBid(b.Bidding, Bid{Seat: seat, Value: *action.Bid, Calls: action.Calls})
	if err != nil {
		return nil, nil, err
	}
	b.Bidding = bids
	events := []Event{action}
	if !done {
		return b, events, nil
	}

	if bids.High == nil {
		events = append(events, Event{Type: EventGameAborted, Text: "all players passed"})
		return &NewGameBoard{Players: b.Players}, events, nil
	}

	high := *bids.High
	contract := Contract{Bidder: high.Seat, Bid: high.Value, Partner: -1}
	for _, bid := range bids.Bids {
		if bid.Seat == high.Seat {
			for _, call := range bid.Calls {
				if !containsCall(contract.Calls, call) {
					contract.Calls = append(contract.Calls, call)
				}
			}
		}
	}
	bidValue := high.Value
	events = append(events, Event{
		Type:   EventBiddingCompleted,
		Bidder: b.Players[high.Seat],
		Bid:    &bidValue,
		Calls:  contract.Calls,
	})

	if len(b.Players) >= 5 {
		return &PartnerCallBoard{Table: b.Table, Bids: bids.Bids, Contract: contract}, events, nil
	}
	next, more := afterContract(b.Table, bids.Bids, contract)
	return next, append(events, more...), nil
}

// afterContract moves to the dog reveal for small contracts and straight to
// play for the larger ones.
func afterContract(t Table, bids []Bid, c Contract) (BoardState, []Event) {
	if c.Bid <= Bid40 {
		return &DogRevealBoard{Table: t, Bids: bids, Contract: c}, []Event{{
			Type:  EventDogRevealed,
			Cards: append([]Card(nil), t.Dog...),
		}}
	}
	return startPlaying(t, bids, c)
}

func startPlaying(t Table, bids []Bid, c Contract) (BoardState, []Event) {
	first := 0
	if c.DeclaredSlam {
		first = c.Bidder
	}
	b := &PlayingBoard{
		Table:     t,
		Bids:      bids,
		Contract:  c,
		HasPlayed: make([]bool, len(t.Players)),
		Trick:     Trick{Current: first},
	}
	return b, []Event{{
		Type:        EventGameStarted,
		Bidder:      t.Players[c.Bidder],
		FirstPlayer: t.Players[first],
	}}
}

func reducePartnerCall(b *PartnerCallBoard, action Event) (BoardState, []Event, error) {
	seat := b.Seat(action.Player)
	if seat < 0 {
		return nil, nil, ErrNotInGame
	}
	switch action.Type {
	case EventDeclareSlam:
		c, err := DeclareSlam(b.Contract, seat, true)
		if err != nil {
			return nil, nil, err
		}
		b.Contract = c
		return b, []Event{action}, nil

	case EventCallPartner:
		if action.Card == nil {
			return nil, nil, ErrInvalidCard
		}
		c, err := CallPartner(b.Table, b.Contract, seat, *action.Card)
		if err != nil {
			return nil, nil, err
		}
		next, events := afterContract(b.Table, b.Bids, c)
		return next, append([]Event{action}, events...), nil
	}
	return nil, nil, ErrWrongPhase
}

func reduceDogReveal(b *DogRevealBoard, action Event) (BoardState, []Event, error) {
	seat := b.Seat(action.Player)
	if seat < 0 {
		return nil, nil, ErrNotInGame
	}
	switch action.Type {
	case EventDeclareSlam:
		c, err := DeclareSlam(b.Contract, seat, true)
		if err != nil {
			return nil, nil, err
		}
		b.Contract = c
		return b, []Event{action}, nil

	case EventSetDog:
		hand, err := ExchangeDog(b.Table, b.Contract, seat, action.Cards)
		if err != nil {
			return nil, nil, err
		}
		b.Hands[seat] = hand
		b.Dog = append([]Card(nil), action.Cards...)
		SortHand(b.Dog)
		action.Cards = append([]Card(nil), b.Dog...)
		next, events := startPlaying(b.Table, b.Bids, b.Contract)
		return next, append([]Event{action}, events...), nil
	}
	return nil, nil, ErrWrongPhase
}

func reducePlaying(b *PlayingBoard, action Event) (BoardState, []Event, error) {
	seat := b.Seat(action.Player)
	if seat < 0 {
		return nil, nil, ErrNotInGame
	}
	switch action.Type {
	case EventDeclareSlam:
		c, err := DeclareSlam(b.Contract, seat, b.FirstTurn())
		if err != nil {
			return nil, nil, err
		}
		b.Contract = c
		b.Trick.Current = c.Bidder
		return b, []Event{action}, nil

	case EventShowTrump:
		if err := ValidateShow(b, seat, action.Cards); err != nil {
			return nil, nil, err
		}
		shown := append([]Card(nil), action.Cards...)
		SortHand(shown)
		b.Shows = append(b.Shows, Show{Seat: seat, Cards: shown})
		action.Cards = shown
		return b, []Event{action}, nil

	case EventPlayCard:
		return playCard(b, seat, action)
	}
	return nil, nil, ErrWrongPhase
}

func playCard(b *PlayingBoard, seat int, action Event) (BoardState, []Event, error) {
	if b.Trick.Current != seat {
		return nil, nil, ErrOutOfTurn
	}
	if action.Card == nil || !action.Card.Valid() {
		return nil, nil, ErrInvalidCard
	}
	card := *action.Card
	hand := b.Hands[seat]
	if !containsCard(hand, card) {
		return nil, nil, ErrNotInHand
	}
	var restriction *Card
	if len(b.Tricks) == 0 {
		restriction = b.Contract.CalledCard
	}
	if !containsCard(LegalCards(hand, b.Trick.Cards, restriction), card) {
		return nil, nil, ErrIllegalCard
	}

	b.Hands[seat] = removeCard(hand, card)
	b.HasPlayed[seat] = true
	b.Trick.Cards = append(b.Trick.Cards, card)
	b.Trick.Players = append(b.Trick.Players, seat)
	events := []Event{action}

	n := len(b.Players)
	if len(b.Trick.Cards) < n {
		b.Trick.Current = (seat + 1) % n
		return b, events, nil
	}

	winner := b.Trick.Players[TrickWinner(b.Trick.Cards)]
	done := CompletedTrick{Cards: b.Trick.Cards, Players: b.Trick.Players, Winner: winner}
	b.Tricks = append(b.Tricks, done)
	b.Trick = Trick{Current: winner}
	events = append(events, Event{Type: EventCompletedTrick, Trick: summarize(b.Players, len(b.Tricks)-1, done)})

	if len(b.Hands[winner]) > 0 {
		return b, events, nil
	}

	outcome := FinalScore(ScoreInput{
		Players:  b.Players,
		Contract: b.Contract,
		Dog:      b.Dog,
		Tricks:   b.Tricks,
		Shows:    b.Shows,
	})
	events = append(events, Event{Type: EventGameCompleted, Outcome: &outcome})
	return &CompletedBoard{
		Players:  b.Players,
		Dog:      b.Dog,
		Bids:     b.Bids,
		Contract: b.Contract,
		Shows:    b.Shows,
		Tricks:   b.Tricks,
		Outcome:  outcome,
	}, events, nil
}

func summarize(players []PlayerID, index int, t CompletedTrick) *TrickSummary {
	s := &TrickSummary{Index: index, Winner: players[t.Winner]}
	for i, card := range t.Cards {
		s.Cards = append(s.Cards, TrickCard{Player: players[t.Players[i]], Card: card})
	}
	return s
}

func removePlayer(players []PlayerID, player PlayerID) []PlayerID {
	out := make([]PlayerID, 0, len(players))
	for _, p := range players {
		if p != player {
			out = append(out, p)
		}
	}
	return out
}
