package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casino-service/internal/fairness"
	"casino-service/internal/models"
)

func TestSeedCommitHidesServerSeed(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewSeedService(testDB)
	acct := models.Account{WalletAddress: "seed-test"}
	require.NoError(t, testDB.Create(&acct).Error)

	seed, err := svc.Commit(acct.ID)
	require.NoError(t, err)
	assert.Empty(t, seed.ServerSeed)
	assert.Len(t, seed.ServerSeedHash, 64)
	assert.True(t, seed.Active)

	// Commit is stable until rotation.
	again, err := svc.Commit(acct.ID)
	require.NoError(t, err)
	assert.Equal(t, seed.ID, again.ID)
	assert.Equal(t, seed.ServerSeedHash, again.ServerSeedHash)
}

func TestSeedRotationRevealsAndVerifies(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewSeedService(testDB)
	acct := models.Account{WalletAddress: "seed-rotate-test"}
	require.NoError(t, testDB.Create(&acct).Error)

	committed, err := svc.Commit(acct.ID)
	require.NoError(t, err)

	revealed, next, err := svc.Rotate(acct.ID, "my-client-seed")
	require.NoError(t, err)

	// The revealed server seed matches the earlier commitment.
	assert.Equal(t, committed.ServerSeedHash, revealed.ServerSeedHash)
	assert.Equal(t, revealed.ServerSeedHash, fairness.SeedHash(revealed.ServerSeed))
	assert.False(t, revealed.Active)
	assert.NotNil(t, revealed.RevealedAt)

	// The next pair is fresh and carries the requested client seed.
	assert.True(t, next.Active)
	assert.Equal(t, "my-client-seed", next.ClientSeed)
	assert.Equal(t, int64(0), next.Nonce)
	assert.NotEqual(t, revealed.ServerSeedHash, next.ServerSeedHash)
}
