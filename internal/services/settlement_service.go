package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"casino-service/internal/config"
	"casino-service/internal/fairness"
	"casino-service/internal/lock"
	"casino-service/internal/models"
)

// SettlementService settles wagers. One exported method per game, all
// funnelling into settle, which runs the whole bet-and-settle as a single
// database transaction under a row lock on the account: either the debit,
// the payout, the outcome record and the counters all commit, or none do.
type SettlementService struct {
	DB     *gorm.DB
	Ledger *LedgerService
	Seeds  *SeedService
	Locks  *lock.AccountLock
	Config *config.Config
}

func NewSettlementService(db *gorm.DB, ledger *LedgerService, seeds *SeedService, locks *lock.AccountLock, cfg *config.Config) *SettlementService {
	return &SettlementService{DB: db, Ledger: ledger, Seeds: seeds, Locks: locks, Config: cfg}
}

// OutcomeResult is the authoritative settlement response. Clients reconcile
// their local display to the returned balances on every round.
type OutcomeResult struct {
	GameType       string          `json:"game_type"`
	Outcome        json.RawMessage `json:"outcome"`
	IsWin          bool            `json:"is_win"`
	Multiplier     float64         `json:"multiplier"`
	BetAmount      int64           `json:"bet_amount"`
	Payout         int64           `json:"payout"`
	Partition      string          `json:"partition"`
	RealBalance    int64           `json:"real_balance"`
	BonusBalance   int64           `json:"bonus_balance"`
	ServerSeedHash string          `json:"server_seed_hash"`
	ClientSeed     string          `json:"client_seed"`
	Nonce          int64           `json:"nonce"`
}

// playFunc computes the pure outcome for one round. It must not touch any
// mutable state; everything it needs arrives as arguments.
type playFunc func(serverSeed, clientSeed string, nonce int64) (outcome interface{}, multiplier float64, win bool, err error)

func (s *SettlementService) PlayDice(accountID int, bet int64, partition string, p fairness.DiceParams) (*OutcomeResult, error) {
	return s.settle(accountID, models.GameDice, bet, partition, func(ss, cs string, n int64) (interface{}, float64, bool, error) {
		res, err := fairness.Dice(ss, cs, n, p)
		if err != nil {
			return nil, 0, false, err
		}
		if res.Win {
			return res, res.Multiplier, true, nil
		}
		return res, 0, false, nil
	})
}

func (s *SettlementService) PlayLimbo(accountID int, bet int64, partition string, p fairness.LimboParams) (*OutcomeResult, error) {
	return s.settle(accountID, models.GameLimbo, bet, partition, func(ss, cs string, n int64) (interface{}, float64, bool, error) {
		res, err := fairness.Limbo(ss, cs, n, p)
		if err != nil {
			return nil, 0, false, err
		}
		return res, res.Multiplier, res.Win, nil
	})
}

func (s *SettlementService) PlayPlinko(accountID int, bet int64, partition string, p fairness.PlinkoParams) (*OutcomeResult, error) {
	return s.settle(accountID, models.GamePlinko, bet, partition, func(ss, cs string, n int64) (interface{}, float64, bool, error) {
		res, err := fairness.Plinko(ss, cs, n, p)
		if err != nil {
			return nil, 0, false, err
		}
		return res, res.Multiplier, res.Win, nil
	})
}

func (s *SettlementService) PlayRoulette(accountID int, bet int64, partition string, p fairness.RouletteParams) (*OutcomeResult, error) {
	return s.settle(accountID, models.GameRoulette, bet, partition, func(ss, cs string, n int64) (interface{}, float64, bool, error) {
		res, err := fairness.Roulette(ss, cs, n, p)
		if err != nil {
			return nil, 0, false, err
		}
		return res, res.Multiplier, res.Win, nil
	})
}

func (s *SettlementService) PlayBlackjack(accountID int, bet int64, partition string) (*OutcomeResult, error) {
	return s.settle(accountID, models.GameBlackjack, bet, partition, func(ss, cs string, n int64) (interface{}, float64, bool, error) {
		res, err := fairness.Blackjack(ss, cs, n)
		if err != nil {
			return nil, 0, false, err
		}
		return res, res.Multiplier, res.Win, nil
	})
}

func (s *SettlementService) settle(accountID int, gameType string, bet int64, partition string, play playFunc) (*OutcomeResult, error) {
	if bet <= 0 || bet > s.Config.MaxBetPerRound {
		return nil, ErrInvalidWagerParams
	}
	if partition != models.PartitionReal && partition != models.PartitionBonus {
		return nil, ErrInvalidPartition
	}

	var result *OutcomeResult

	err := s.Locks.WithLock(accountID, func() error {
		return s.DB.Transaction(func(tx *gorm.DB) error {
			var acct models.Account
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&acct, accountID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrAccountNotFound
				}
				return err
			}
			if acct.Status == models.AccountFrozen {
				return ErrAccountFrozen
			}
			if acct.TotalDeposited < s.Config.MinDepositForGames {
				return ErrDepositRequired
			}

			seed, err := s.Seeds.ActiveSeed(tx, accountID)
			if err != nil {
				return err
			}
			nonce := seed.Nonce + 1
			if err := tx.Model(&models.SeedPair{}).
				Where("id = ?", seed.ID).
				UpdateColumn("nonce", nonce).Error; err != nil {
				return err
			}

			outcome, mult, win, err := play(seed.ServerSeed, seed.ClientSeed, nonce)
			if err != nil {
				if errors.Is(err, fairness.ErrInvalidParams) {
					return ErrInvalidWagerParams
				}
				return err
			}

			ref := fmt.Sprintf("%s:%d", seed.ServerSeedHash[:16], nonce)
			if _, err := s.Ledger.Debit(tx, accountID, partition, bet, "wager:"+gameType, ref); err != nil {
				return err
			}

			payout := int64(math.Round(float64(bet) * mult))
			if payout > 0 {
				if _, err := s.Ledger.Credit(tx, accountID, partition, payout, "payout:"+gameType, ref); err != nil {
					return err
				}
			}

			outcomeJSON, err := json.Marshal(outcome)
			if err != nil {
				return err
			}
			record := models.WagerOutcome{
				AccountID:      accountID,
				GameType:       gameType,
				BetAmount:      bet,
				Partition:      partition,
				ServerSeedHash: seed.ServerSeedHash,
				ClientSeed:     seed.ClientSeed,
				Nonce:          nonce,
				Outcome:        string(outcomeJSON),
				Multiplier:     mult,
				Payout:         payout,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}

			if err := tx.Model(&models.Account{}).
				Where("id = ?", accountID).
				Updates(map[string]interface{}{
					"total_wagered": gorm.Expr("total_wagered + ?", bet),
					"total_won":     gorm.Expr("total_won + ?", payout),
				}).Error; err != nil {
				return err
			}

			var fresh models.Account
			if err := tx.First(&fresh, accountID).Error; err != nil {
				return err
			}

			result = &OutcomeResult{
				GameType:       gameType,
				Outcome:        outcomeJSON,
				IsWin:          win,
				Multiplier:     mult,
				BetAmount:      bet,
				Payout:         payout,
				Partition:      partition,
				RealBalance:    fresh.RealBalance,
				BonusBalance:   fresh.BonusBalance,
				ServerSeedHash: seed.ServerSeedHash,
				ClientSeed:     seed.ClientSeed,
				Nonce:          nonce,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	log.Debug().
		Int("account_id", accountID).
		Str("game", gameType).
		Int64("bet", bet).
		Int64("payout", result.Payout).
		Msg("wager settled")
	return result, nil
}

// History lists an account's settled rounds, newest first.
func (s *SettlementService) History(accountID, limit int) ([]models.WagerOutcome, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var rounds []models.WagerOutcome
	err := s.DB.Where("account_id = ?", accountID).
		Order("id DESC").Limit(limit).Find(&rounds).Error
	return rounds, err
}
