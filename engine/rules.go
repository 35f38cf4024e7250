package engine

const (
	DeckSize   = 78
	MinPlayers = 3
	MaxPlayers = 5

	// MaxDealAttempts caps the re-deal loop triggered by an isolated Trump-1.
	MaxDealAttempts = 100

	// MaxBid ends bidding immediately once reached.
	MaxBid = BidValue(160)
)

// DogSize returns the size of the dog for a table of n players.
func DogSize(n int) int {
	if n >= 5 {
		return 3
	}
	return 6
}

// HandSize returns the number of cards dealt to each of n players.
func HandSize(n int) int {
	return (DeckSize - DogSize(n)) / n
}

// ShowThreshold returns the minimum number of trumps a player must hold to
// show them at a table of n players.
func ShowThreshold(n int) int {
	if n >= 5 {
		return 8
	}
	return 10
}

// pointTargets is indexed by the number of bouts held by the bidding team.
var pointTargets = [4]Points{56 * 2, 51 * 2, 41 * 2, 36 * 2}

// PointsTarget returns the points the bidding team needs with the given bout count.
func PointsTarget(bouts int) Points {
	if bouts < 0 {
		bouts = 0
	}
	if bouts > 3 {
		bouts = 3
	}
	return pointTargets[bouts]
}

const (
	showBonus    = 10
	slamBonus    = 200
	oneLastBonus = 10
)
