package fairness

// Blackjack outcomes
const (
	BlackjackPlayerWin     = "player_win"
	BlackjackDealerWin     = "dealer_win"
	BlackjackPush          = "push"
	BlackjackPlayerNatural = "player_blackjack"
)

type BlackjackResult struct {
	Shoe        []int   `json:"shoe"` // full 52-card permutation, cards 0-51
	PlayerCards []int   `json:"player_cards"`
	DealerCards []int   `json:"dealer_cards"`
	PlayerTotal int     `json:"player_total"`
	DealerTotal int     `json:"dealer_total"`
	Outcome     string  `json:"outcome"`
	Multiplier  float64 `json:"multiplier"`
	Win         bool    `json:"win"`
}

// BlackjackShoe derives a full 52-card permutation from the hash stream via
// a Fisher-Yates shuffle with rejection-sampled indices. Card c encodes rank
// c%13 (0 = ace .. 12 = king) and suit c/13.
func BlackjackShoe(serverSeed, clientSeed string, nonce int64) []int {
	s := newStream(serverSeed, clientSeed, nonce)
	shoe := make([]int, 52)
	for i := range shoe {
		shoe[i] = i
	}
	for i := 51; i > 0; i-- {
		j := s.intn(i + 1)
		shoe[i], shoe[j] = shoe[j], shoe[i]
	}
	return shoe
}

// cardValue returns the blackjack value of a card, counting aces as 11.
func cardValue(c int) int {
	rank := c % 13
	switch {
	case rank == 0:
		return 11
	case rank >= 9: // ten, jack, queen, king
		return 10
	default:
		return rank + 1
	}
}

// HandTotal values a hand, downgrading aces from 11 to 1 while busted.
func HandTotal(cards []int) int {
	total, aces := 0, 0
	for _, c := range cards {
		v := cardValue(c)
		if v == 11 {
			aces++
		}
		total += v
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// Blackjack resolves a dealer-rules round against the shoe: both hands draw
// to 17 or better, dealer checks for naturals first, natural blackjack pays
// 3:2, a push returns the stake. Multipliers are total-return (stake
// included): 2.5 natural, 2.0 win, 1.0 push, 0 loss.
func Blackjack(serverSeed, clientSeed string, nonce int64) (BlackjackResult, error) {
	shoe := BlackjackShoe(serverSeed, clientSeed, nonce)

	player := []int{shoe[0], shoe[2]}
	dealer := []int{shoe[1], shoe[3]}
	next := 4

	playerNatural := HandTotal(player) == 21
	dealerNatural := HandTotal(dealer) == 21

	res := BlackjackResult{Shoe: shoe}

	switch {
	case playerNatural && dealerNatural:
		res.Outcome = BlackjackPush
		res.Multiplier = 1.0
	case playerNatural:
		res.Outcome = BlackjackPlayerNatural
		res.Multiplier = 2.5
		res.Win = true
	case dealerNatural:
		res.Outcome = BlackjackDealerWin
	default:
		for HandTotal(player) < 17 {
			player = append(player, shoe[next])
			next++
		}
		pt := HandTotal(player)
		if pt > 21 {
			res.Outcome = BlackjackDealerWin
			break
		}
		for HandTotal(dealer) < 17 {
			dealer = append(dealer, shoe[next])
			next++
		}
		dt := HandTotal(dealer)
		switch {
		case dt > 21 || pt > dt:
			res.Outcome = BlackjackPlayerWin
			res.Multiplier = 2.0
			res.Win = true
		case pt == dt:
			res.Outcome = BlackjackPush
			res.Multiplier = 1.0
		default:
			res.Outcome = BlackjackDealerWin
		}
	}

	res.PlayerCards = player
	res.DealerCards = dealer
	res.PlayerTotal = HandTotal(player)
	res.DealerTotal = HandTotal(dealer)
	return res, nil
}
