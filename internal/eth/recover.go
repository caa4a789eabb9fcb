// Package eth wraps the secp256k1 signature recovery used for wallet login.
package eth

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/pathmint/waypoint/core"
)

// SignatureLength is the canonical [R || S || V] signature size.
const SignatureLength = 65

// RecoverAddress returns the address whose key signed message as an
// EIP-191 personal message ("\x19Ethereum Signed Message:\n" prefix).
// It never returns a usable address together with an error.
func RecoverAddress(message string, signature []byte) (common.Address, error) {
	if len(signature) != SignatureLength {
		return common.Address{}, fmt.Errorf("signature must be %d bytes, got %d: %w",
			SignatureLength, len(signature), core.ErrInvalidSignature)
	}

	// Wallets return V as 27/28, go-ethereum expects 0/1.
	sig := make([]byte, SignatureLength)
	copy(sig, signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	if sig[64] > 1 {
		return common.Address{}, fmt.Errorf("invalid recovery id %d: %w", sig[64], core.ErrInvalidSignature)
	}

	hash := accounts.TextHash([]byte(message))

	pubKey, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("%v: %w", err, core.ErrInvalidSignature)
	}

	return crypto.PubkeyToAddress(*pubKey), nil
}
