package fairness

import (
	"math"
)

// DiceEdgeConstant is the payout numerator: multiplier = 99 / winChance,
// which keeps expected value at 0.99 of the wager for every target.
const DiceEdgeConstant = 99.0

// Dice target bounds. Targets outside this range would allow near-certain
// wins or pathological multipliers, so they are rejected server-side.
const (
	DiceMinTarget = 2.0
	DiceMaxTarget = 98.0
)

// Dice directions
const (
	DiceOver  = "over"
	DiceUnder = "under"
)

type DiceParams struct {
	Target    float64 `json:"target"`
	Direction string  `json:"direction"`
}

type DiceResult struct {
	Roll       float64 `json:"roll"`
	Target     float64 `json:"target"`
	Direction  string  `json:"direction"`
	Win        bool    `json:"win"`
	Multiplier float64 `json:"multiplier"`
}

// Dice maps the hash stream to a roll in [0, 100) with two decimals and
// settles it against the player's target.
func Dice(serverSeed, clientSeed string, nonce int64, p DiceParams) (DiceResult, error) {
	if p.Target < DiceMinTarget || p.Target > DiceMaxTarget {
		return DiceResult{}, ErrInvalidParams
	}
	if p.Direction != DiceOver && p.Direction != DiceUnder {
		return DiceResult{}, ErrInvalidParams
	}

	roll := math.Floor(newStream(serverSeed, clientSeed, nonce).uniform()*10000) / 100

	var chance float64
	var win bool
	if p.Direction == DiceOver {
		chance = 100 - p.Target
		win = roll > p.Target
	} else {
		chance = p.Target
		win = roll < p.Target
	}

	return DiceResult{
		Roll:       roll,
		Target:     p.Target,
		Direction:  p.Direction,
		Win:        win,
		Multiplier: DiceEdgeConstant / chance,
	}, nil
}
