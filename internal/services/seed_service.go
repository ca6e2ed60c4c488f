package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"casino-service/internal/fairness"
	"casino-service/internal/models"
)

// SeedService manages the commit/reveal lifecycle of per-account seed
// pairs. The server seed never leaves the database while its pair is
// active; rotation reveals it and activates a fresh pair.
type SeedService struct {
	DB *gorm.DB
}

func NewSeedService(db *gorm.DB) *SeedService {
	return &SeedService{DB: db}
}

func newSeedPair(accountID int, clientSeed string) (*models.SeedPair, error) {
	seed, err := fairness.NewServerSeed()
	if err != nil {
		return nil, err
	}
	if clientSeed == "" {
		clientSeed = uuid.NewString()
	}
	return &models.SeedPair{
		ID:             uuid.NewString(),
		AccountID:      accountID,
		ServerSeed:     seed,
		ServerSeedHash: fairness.SeedHash(seed),
		ClientSeed:     clientSeed,
		Active:         true,
	}, nil
}

// ActiveSeed returns the account's active pair inside the caller's
// transaction, creating one on first use. The row is locked so concurrent
// settlements serialize their nonce increments.
func (s *SeedService) ActiveSeed(tx *gorm.DB, accountID int) (*models.SeedPair, error) {
	var pair models.SeedPair
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("account_id = ? AND active = ?", accountID, true).
		First(&pair).Error
	if err == nil {
		return &pair, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh, err := newSeedPair(accountID, "")
	if err != nil {
		return nil, err
	}
	if err := tx.Create(fresh).Error; err != nil {
		return nil, err
	}
	return fresh, nil
}

// Commit exposes the public half of the active pair: the server seed hash,
// the client seed and the next nonce.
func (s *SeedService) Commit(accountID int) (*models.SeedPair, error) {
	var pair *models.SeedPair
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		p, err := s.ActiveSeed(tx, accountID)
		if err != nil {
			return err
		}
		pair = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	pair.ServerSeed = "" // committed, not revealed
	return pair, nil
}

// Rotate reveals the current server seed and activates a fresh pair. The
// revealed pair is returned with its seed populated so the player can verify
// every settled nonce against the prior commitment.
func (s *SeedService) Rotate(accountID int, newClientSeed string) (revealed *models.SeedPair, next *models.SeedPair, err error) {
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		current, err := s.ActiveSeed(tx, accountID)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&models.SeedPair{}).
			Where("id = ?", current.ID).
			Updates(map[string]interface{}{"active": false, "revealed_at": now}).Error; err != nil {
			return err
		}
		current.Active = false
		current.RevealedAt = &now

		fresh, err := newSeedPair(accountID, newClientSeed)
		if err != nil {
			return err
		}
		if err := tx.Create(fresh).Error; err != nil {
			return err
		}

		revealed = current
		fresh.ServerSeed = ""
		next = fresh
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return revealed, next, nil
}
