// Package fairness implements the provably-fair outcome engine. Every
// function here is a pure mapping from (serverSeed, clientSeed, nonce) and
// game parameters to an outcome; nothing in this package reads or writes
// account state. Players verify results by recomputing them after the server
// seed is revealed.
package fairness

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidParams is returned for out-of-range game parameters. Parameters
// that affect payout are rejected, never clamped.
var ErrInvalidParams = errors.New("invalid wager parameters")

// chunkHexLen is the number of hex characters consumed per draw: 52 bits,
// the largest width that fits a float64 mantissa exactly.
const chunkHexLen = 13

// NewServerSeed returns 32 bytes from the system CSPRNG, hex encoded.
func NewServerSeed() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate server seed: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// SeedHash is the public commitment for a server seed.
func SeedHash(serverSeed string) string {
	h := sha256.Sum256([]byte(serverSeed))
	return hex.EncodeToString(h[:])
}

// stream yields uniform draws from HMAC-SHA512(serverSeed, clientSeed:nonce).
// When one digest is exhausted the message is extended with a block counter,
// so games may consume arbitrarily many draws per round.
type stream struct {
	serverSeed string
	clientSeed string
	nonce      int64
	block      int
	digest     string
	pos        int
}

func newStream(serverSeed, clientSeed string, nonce int64) *stream {
	return &stream{serverSeed: serverSeed, clientSeed: clientSeed, nonce: nonce}
}

func (s *stream) refill() {
	msg := fmt.Sprintf("%s:%d", s.clientSeed, s.nonce)
	if s.block > 0 {
		msg = fmt.Sprintf("%s:%d", msg, s.block)
	}
	mac := hmac.New(sha512.New, []byte(s.serverSeed))
	mac.Write([]byte(msg))
	s.digest = hex.EncodeToString(mac.Sum(nil))
	s.block++
	s.pos = 0
}

// next52 returns the next 52-bit draw from the hash stream.
func (s *stream) next52() uint64 {
	if s.digest == "" || s.pos+chunkHexLen > len(s.digest) {
		s.refill()
	}
	chunk := s.digest[s.pos : s.pos+chunkHexLen]
	s.pos += chunkHexLen
	v, _ := strconv.ParseUint(chunk, 16, 64)
	return v
}

// uniform returns a draw in [0, 1).
func (s *stream) uniform() float64 {
	return float64(s.next52()) / float64(uint64(1)<<52)
}

// intn returns a uniform draw in [0, n) by rejection sampling, so every
// value is exactly equally likely.
func (s *stream) intn(n int) int {
	span := uint64(1) << 52
	limit := span - span%uint64(n)
	for {
		v := s.next52()
		if v < limit {
			return int(v % uint64(n))
		}
	}
}
