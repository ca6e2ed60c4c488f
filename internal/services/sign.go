package services

import (
	"crypto/ed25519"
	"encoding/hex"
)

// VerifyWalletSignature checks an ed25519 signature against the account's
// wallet address, which is the hex encoding of the public key. Both the
// signature and the key arrive hex encoded.
func VerifyWalletSignature(walletAddress, message, signature string) bool {
	pub, err := hex.DecodeString(walletAddress)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return false
	}
	sig, err := hex.DecodeString(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), []byte(message), sig)
}
