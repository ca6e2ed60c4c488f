package fairness

// plinkoTables holds the published payout table per supported row count.
// Tables are symmetric around the center bucket and increase with distance
// from it; each one carries a ~1% house edge under the binomial bucket
// distribution.
var plinkoTables = map[int][]float64{
	8:  {5.6, 2.1, 1.1, 1, 0.5, 1, 1.1, 2.1, 5.6},
	12: {10, 3, 1.6, 1.4, 1.1, 1, 0.5, 1, 1.1, 1.4, 1.6, 3, 10},
	16: {16, 9, 2, 1.4, 1.4, 1.2, 1.1, 1, 0.5, 1, 1.1, 1.2, 1.4, 1.4, 2, 9, 16},
}

type PlinkoParams struct {
	Rows int `json:"rows"`
}

type PlinkoResult struct {
	Rows       int     `json:"rows"`
	Path       []int   `json:"path"` // 0 = left, 1 = right, one per row
	Bucket     int     `json:"bucket"`
	Multiplier float64 `json:"multiplier"`
	Win        bool    `json:"win"`
}

// PlinkoTable exposes the payout table for a row count, for the public
// verification surface.
func PlinkoTable(rows int) ([]float64, bool) {
	t, ok := plinkoTables[rows]
	return t, ok
}

// Plinko derives one left/right decision per row from a fresh slice of the
// hash stream. The final bucket is the count of rights, i.e. the ball's net
// displacement.
func Plinko(serverSeed, clientSeed string, nonce int64, p PlinkoParams) (PlinkoResult, error) {
	table, ok := plinkoTables[p.Rows]
	if !ok {
		return PlinkoResult{}, ErrInvalidParams
	}

	s := newStream(serverSeed, clientSeed, nonce)
	path := make([]int, p.Rows)
	bucket := 0
	for i := range path {
		path[i] = s.intn(2)
		bucket += path[i]
	}

	mult := table[bucket]
	return PlinkoResult{
		Rows:       p.Rows,
		Path:       path,
		Bucket:     bucket,
		Multiplier: mult,
		Win:        mult >= 1,
	}, nil
}
