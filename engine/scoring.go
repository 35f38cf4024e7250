package engine

// ScoreInput is everything the final score depends on.
type ScoreInput struct {
	Players  []PlayerID
	Contract Contract
	Dog      []Card
	Tricks   []CompletedTrick
	Shows    []Show
}

// JokerExchange records the Joker returning to the team that played it and
// the card handed over in compensation (nil when that team had nothing to give).
type JokerExchange struct {
	Owner  PlayerID `json:"owner"`
	Winner PlayerID `json:"winner"`
	Card   *Card    `json:"card,omitempty"`
}

// OneLast records the last-trick bonus for a trick containing the Trump-1.
type OneLast struct {
	Player PlayerID `json:"player"`
	Bonus  int      `json:"bonus"`
}

// Outcome is the final computed result of a game. PointsResult is from the
// bidding team's point of view; Scores holds the per-player deltas.
type Outcome struct {
	Bidder        PlayerID         `json:"bidder"`
	Partner       PlayerID         `json:"partner,omitempty"`
	BiddingTeam   []PlayerID       `json:"biddingTeam"`
	Bid           BidValue         `json:"bid"`
	Calls         []Call           `json:"calls,omitempty"`
	Bouts         []Card           `json:"bouts"`
	PointsEarned  Points           `json:"pointsEarned"`
	PointsTarget  Points           `json:"pointsTarget"`
	BidderWon     bool             `json:"bidderWon"`
	Shows         []PlayerID       `json:"shows,omitempty"`
	DeclaredSlam  bool             `json:"declaredSlam"`
	Slam          bool             `json:"slam"`
	Slammed       bool             `json:"slammed"`
	OneLast       *OneLast         `json:"oneLast,omitempty"`
	JokerExchange *JokerExchange   `json:"jokerExchange,omitempty"`
	PointsResult  int              `json:"pointsResult"`
	Scores        map[PlayerID]int `json:"scores"`
}

type jokerOwed struct {
	owner, winner int
	ownerBidding  bool
}

// FinalScore computes the outcome of a finished hand. It is a pure function
// of its input.
func FinalScore(in ScoreInput) Outcome {
	c := in.Contract
	onTeam := func(seat int) bool {
		return seat == c.Bidder || (c.HasPartner() && seat == c.Partner)
	}

	last := len(in.Tricks) - 1
	var bidding, defense []Card
	var owed *jokerOwed
	for i, t := range in.Tricks {
		winnerBidding := onTeam(t.Winner)
		for j, card := range t.Cards {
			toBidding := winnerBidding
			if card.IsJoker() && i != last && onTeam(t.Players[j]) != winnerBidding {
				toBidding = !winnerBidding
				owed = &jokerOwed{owner: t.Players[j], winner: t.Winner, ownerBidding: toBidding}
			}
			if toBidding {
				bidding = append(bidding, card)
			} else {
				defense = append(defense, card)
			}
		}
	}

	out := Outcome{
		Bidder:       in.Players[c.Bidder],
		BiddingTeam:  []PlayerID{in.Players[c.Bidder]},
		Bid:          c.Bid,
		Calls:        append([]Call(nil), c.Calls...),
		DeclaredSlam: c.DeclaredSlam,
	}
	if c.HasPartner() {
		out.Partner = in.Players[c.Partner]
		out.BiddingTeam = append(out.BiddingTeam, out.Partner)
	}

	if owed != nil {
		ex := &JokerExchange{Owner: in.Players[owed.owner], Winner: in.Players[owed.winner]}
		if owed.ownerBidding {
			var given *Card
			bidding, given = takeLowest(bidding)
			if given != nil {
				defense = append(defense, *given)
			}
			ex.Card = given
		} else {
			var given *Card
			defense, given = takeLowest(defense)
			if given != nil {
				bidding = append(bidding, *given)
			}
			ex.Card = given
		}
		out.JokerExchange = ex
	}

	if c.Bid < Bid160 {
		bidding = append(bidding, in.Dog...)
	} else {
		defense = append(defense, in.Dog...)
	}

	for _, card := range bidding {
		if card.IsBout() {
			out.Bouts = append(out.Bouts, card)
		}
	}
	SortHand(out.Bouts)
	out.PointsEarned = CountPoints(bidding)
	out.PointsTarget = PointsTarget(len(out.Bouts))
	out.BidderWon = out.PointsEarned >= out.PointsTarget

	diff := int(out.PointsEarned - out.PointsTarget)
	if diff < 0 {
		diff = -diff
	}
	for _, s := range in.Shows {
		out.Shows = append(out.Shows, in.Players[s.Seat])
	}
	result := int(c.Bid) + ceilDiv(diff, 20)*10 + showBonus*len(in.Shows)
	if !out.BidderWon {
		result = -result
	}

	wonAll, lostAll := len(in.Tricks) > 0, len(in.Tricks) > 0
	for _, t := range in.Tricks {
		if onTeam(t.Winner) {
			lostAll = false
		} else {
			wonAll = false
		}
	}
	out.Slam, out.Slammed = wonAll, lostAll

	// Bonuses accumulate on the running total in this order.
	if c.DeclaredSlam {
		if wonAll {
			result += slamBonus
		} else {
			result -= slamBonus
		}
	}
	if wonAll && !c.DeclaredSlam {
		result += slamBonus
	}
	if lostAll {
		result -= slamBonus
	}
	if last >= 0 && containsCard(in.Tricks[last].Cards, Trump1) {
		winner := in.Tricks[last].Winner
		bonus := oneLastBonus
		if !onTeam(winner) {
			bonus = -oneLastBonus
		}
		result += bonus
		out.OneLast = &OneLast{Player: in.Players[winner], Bonus: bonus}
	}

	out.PointsResult = result
	out.Scores = shareScores(in.Players, c, result)
	return out
}

// takeLowest removes the lowest-value card other than the Joker from pile.
func takeLowest(pile []Card) ([]Card, *Card) {
	best := -1
	for i, card := range pile {
		if card.IsJoker() {
			continue
		}
		if best < 0 || PointValue(card) < PointValue(pile[best]) ||
			(PointValue(card) == PointValue(pile[best]) && Less(card, pile[best])) {
			best = i
		}
	}
	if best < 0 {
		return pile, nil
	}
	card := pile[best]
	return removeCard(pile, card), &card
}

// shareScores splits the result: with a partner the bidder takes two shares
// and the partner one; alone the bidder takes one share per defender.
func shareScores(players []PlayerID, c Contract, result int) map[PlayerID]int {
	scores := make(map[PlayerID]int, len(players))
	defenders := 0
	for seat, p := range players {
		if seat == c.Bidder || (c.HasPartner() && seat == c.Partner) {
			continue
		}
		scores[p] = -result
		defenders++
	}
	if c.HasPartner() {
		scores[players[c.Bidder]] = result * (defenders - 1)
		scores[players[c.Partner]] = result
	} else {
		scores[players[c.Bidder]] = result * defenders
	}
	return scores
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
