// Package ledger verifies that on-chain transactions anchor artifact hashes.
package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"

	"github.com/pathmint/waypoint/ports"
)

const createTargetMethod = "createTarget"

// Verifier decodes transactions against the target contract interface.
// Its contract is "always a boolean, never an error": malformed hashes,
// missing receipts, failed executions and undecodable call data are all
// a semantic false.
type Verifier struct {
	reader      ports.LedgerReader
	contractABI abi.ABI
	logger      zerolog.Logger
}

// NewVerifier creates a verifier over a ledger RPC reader
func NewVerifier(reader ports.LedgerReader, logger zerolog.Logger) (*Verifier, error) {
	contractABI, err := abi.JSON(strings.NewReader(targetContractABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse target contract ABI: %w", err)
	}

	return &Verifier{
		reader:      reader,
		contractABI: contractABI,
		logger:      logger,
	}, nil
}

// VerifyCreation reports whether txHash is a successfully executed
// createTarget call whose first argument equals expectedHash exactly.
func (v *Verifier) VerifyCreation(ctx context.Context, expectedHash, txHash string) bool {
	if !isHexHash(txHash) {
		return false
	}
	hash := common.HexToHash(txHash)

	receipt, err := v.reader.TransactionReceipt(ctx, hash)
	if err != nil || receipt == nil {
		v.logger.Debug().Str("tx", txHash).Err(err).Msg("receipt unavailable")
		return false
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return false
	}

	tx, pending, err := v.reader.TransactionByHash(ctx, hash)
	if err != nil || tx == nil || pending {
		v.logger.Debug().Str("tx", txHash).Err(err).Msg("transaction unavailable")
		return false
	}

	return v.matchesCreateTarget(tx.Data(), expectedHash)
}

// matchesCreateTarget decodes call data and compares the first argument
func (v *Verifier) matchesCreateTarget(data []byte, expectedHash string) bool {
	if len(data) < 4 {
		return false
	}

	method, err := v.contractABI.MethodById(data[:4])
	if err != nil || method.Name != createTargetMethod {
		return false
	}

	args, err := method.Inputs.Unpack(data[4:])
	if err != nil || len(args) == 0 {
		v.logger.Debug().Err(err).Msg("failed to decode call data")
		return false
	}

	ipfsHash, ok := args[0].(string)
	if !ok {
		return false
	}

	return ipfsHash == expectedHash
}

// isHexHash accepts 0x-prefixed 32-byte hex strings
func isHexHash(s string) bool {
	if len(s) != 2+2*common.HashLength || !strings.HasPrefix(s, "0x") {
		return false
	}
	for _, c := range s[2:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}
