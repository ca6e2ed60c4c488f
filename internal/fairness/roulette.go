package fairness

// Roulette bet types (European single-zero wheel).
const (
	RouletteStraight = "straight"
	RouletteRed      = "red"
	RouletteBlack    = "black"
	RouletteOdd      = "odd"
	RouletteEven     = "even"
	RouletteLow      = "low"  // 1-18
	RouletteHigh     = "high" // 19-36
)

var rouletteRed = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

type RouletteParams struct {
	BetType string `json:"bet_type"`
	Number  int    `json:"number"` // straight bets only
}

type RouletteResult struct {
	Number     int     `json:"number"`
	Color      string  `json:"color"`
	Win        bool    `json:"win"`
	Multiplier float64 `json:"multiplier"`
}

// Roulette maps the hash stream to a uniform pocket in [0, 37) and settles
// the bet. Straight wins pay 36x (35:1 plus stake), even-money bets pay 2x;
// zero loses every outside bet.
func Roulette(serverSeed, clientSeed string, nonce int64, p RouletteParams) (RouletteResult, error) {
	switch p.BetType {
	case RouletteStraight:
		if p.Number < 0 || p.Number > 36 {
			return RouletteResult{}, ErrInvalidParams
		}
	case RouletteRed, RouletteBlack, RouletteOdd, RouletteEven, RouletteLow, RouletteHigh:
	default:
		return RouletteResult{}, ErrInvalidParams
	}

	n := newStream(serverSeed, clientSeed, nonce).intn(37)

	color := "green"
	if n != 0 {
		if rouletteRed[n] {
			color = "red"
		} else {
			color = "black"
		}
	}

	res := RouletteResult{Number: n, Color: color}

	var win bool
	mult := 2.0
	switch p.BetType {
	case RouletteStraight:
		win = n == p.Number
		mult = 36.0
	case RouletteRed:
		win = color == "red"
	case RouletteBlack:
		win = color == "black"
	case RouletteOdd:
		win = n != 0 && n%2 == 1
	case RouletteEven:
		win = n != 0 && n%2 == 0
	case RouletteLow:
		win = n >= 1 && n <= 18
	case RouletteHigh:
		win = n >= 19
	}

	if win {
		res.Win = true
		res.Multiplier = mult
	}
	return res, nil
}
