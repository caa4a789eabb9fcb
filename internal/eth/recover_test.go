package eth

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/pathmint/waypoint/core"
)

func signMessage(t *testing.T, message string) (string, []byte) {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	require.NoError(t, err)

	return crypto.PubkeyToAddress(key.PublicKey).Hex(), sig
}

func TestRecoverAddressRoundTrip(t *testing.T) {
	message := "Login to Waypoint\nNonce: 4fe51582c3f0ac97"
	address, sig := signMessage(t, message)

	recovered, err := RecoverAddress(message, sig)
	require.NoError(t, err)
	require.Equal(t, address, recovered.Hex())
}

func TestRecoverAddressWalletVOffset(t *testing.T) {
	// Browser wallets return V as 27/28 instead of 0/1
	message := "hello"
	address, sig := signMessage(t, message)
	sig[64] += 27

	recovered, err := RecoverAddress(message, sig)
	require.NoError(t, err)
	require.Equal(t, address, recovered.Hex())
}

func TestRecoverAddressDifferentMessage(t *testing.T) {
	address, sig := signMessage(t, "original message")

	recovered, err := RecoverAddress("tampered message", sig)
	if err == nil {
		// Recovery can mathematically succeed for a different message,
		// but it must not yield the signer's address
		require.NotEqual(t, address, recovered.Hex())
	}
}

func TestRecoverAddressCorruptedSignature(t *testing.T) {
	_, sig := signMessage(t, "hello")
	sig[10] ^= 0xff
	sig[64] = 99 // invalid recovery id

	_, err := RecoverAddress("hello", sig)
	require.Error(t, err)
	require.True(t, errors.Is(err, core.ErrInvalidSignature))
}

func TestRecoverAddressWrongLength(t *testing.T) {
	_, err := RecoverAddress("hello", []byte{0x01, 0x02})
	require.Error(t, err)
	require.True(t, errors.Is(err, core.ErrInvalidSignature))

	_, err = RecoverAddress("hello", nil)
	require.True(t, errors.Is(err, core.ErrInvalidSignature))
}
