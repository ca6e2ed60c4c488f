package fairness

import (
	"math"
)

// limboEdgeFactor biases the crash distribution so expected value sits 1%
// below fair for every target.
const limboEdgeFactor = 0.99

// LimboMaxCrash caps the crash point; draws beyond it are astronomically
// rare but the cap keeps the payout math bounded.
const LimboMaxCrash = 1000000.0

// LimboMinTarget is the lowest target a player may choose. A target of 1.0
// or below would always win.
const LimboMinTarget = 1.01

type LimboParams struct {
	Target float64 `json:"target"`
}

type LimboResult struct {
	Crash      float64 `json:"crash"`
	Target     float64 `json:"target"`
	Win        bool    `json:"win"`
	Multiplier float64 `json:"multiplier"`
}

// Limbo maps the hash stream to a crash point via an inverse power law
// (heavily biased toward low values) and wins when the crash point reaches
// the player's target. The win multiplier is the target itself.
func Limbo(serverSeed, clientSeed string, nonce int64, p LimboParams) (LimboResult, error) {
	if p.Target < LimboMinTarget || p.Target > LimboMaxCrash {
		return LimboResult{}, ErrInvalidParams
	}

	u := newStream(serverSeed, clientSeed, nonce).uniform()
	crash := math.Floor(100*limboEdgeFactor/(1-u)) / 100
	if crash < 1.0 {
		crash = 1.0
	}
	if crash > LimboMaxCrash {
		crash = LimboMaxCrash
	}

	res := LimboResult{Crash: crash, Target: p.Target}
	if crash >= p.Target {
		res.Win = true
		res.Multiplier = p.Target
	}
	return res, nil
}
