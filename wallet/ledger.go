// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wallet

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/dayanithi400/ethervote-sentinel/models"
)

// Ledger produces the transaction reference stored with a vote. A
// supplied reference is validated; an empty one is minted or rejected
// depending on the implementation.
type Ledger interface {
	Reference(ctx context.Context, voterID, candidateID, supplied string) (string, error)
}

// NormalizeAddress validates a 0x-prefixed wallet address and returns its
// checksummed form.
func NormalizeAddress(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if !common.IsHexAddress(addr) || !(strings.HasPrefix(addr, "0x") || strings.HasPrefix(addr, "0X")) {
		return "", fmt.Errorf("%w: invalid wallet address", models.ErrValidationFailed)
	}
	return common.HexToAddress(addr).Hex(), nil
}

// parseTxHash accepts a 0x-prefixed 32-byte hex hash
func parseTxHash(ref string) (common.Hash, error) {
	b, err := hexutil.Decode(strings.TrimSpace(ref))
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("%w: transaction reference must be a 0x-prefixed 32-byte hash", models.ErrValidationFailed)
	}
	return common.BytesToHash(b), nil
}

// SimulatedLedger stands in for a wallet confirmation. It waits Delay and
// then returns a keccak hash over the vote and a random nonce.
type SimulatedLedger struct {
	Delay time.Duration
}

func NewSimulatedLedger(delay time.Duration) *SimulatedLedger {
	return &SimulatedLedger{Delay: delay}
}

func (l *SimulatedLedger) Reference(ctx context.Context, voterID, candidateID, supplied string) (string, error) {
	if supplied != "" {
		h, err := parseTxHash(supplied)
		if err != nil {
			return "", err
		}
		return h.Hex(), nil
	}

	if l.Delay > 0 {
		timer := time.NewTimer(l.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return "", fmt.Errorf("%w: wallet confirmation: %v", models.ErrExternalServiceUnavailable, ctx.Err())
		}
	}

	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	stamp := []byte(time.Now().UTC().Format(time.RFC3339Nano))
	return crypto.Keccak256Hash([]byte(voterID), []byte(candidateID), stamp, nonce).Hex(), nil
}

// TxLookup is the part of ethclient.Client the RPC ledger needs
type TxLookup interface {
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
}

// RPCLedger requires a client-supplied transaction hash and checks that
// the configured Ethereum node knows it.
type RPCLedger struct {
	client TxLookup
}

func NewRPCLedger(client TxLookup) *RPCLedger {
	return &RPCLedger{client: client}
}

// DialRPCLedger connects to an Ethereum JSON-RPC endpoint
func DialRPCLedger(ctx context.Context, url string) (*RPCLedger, func(), error) {
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: dial %s: %v", models.ErrExternalServiceUnavailable, url, err)
	}
	return NewRPCLedger(client), client.Close, nil
}

func (l *RPCLedger) Reference(ctx context.Context, voterID, candidateID, supplied string) (string, error) {
	if supplied == "" {
		return "", fmt.Errorf("%w: transaction_ref is required", models.ErrValidationFailed)
	}
	h, err := parseTxHash(supplied)
	if err != nil {
		return "", err
	}

	_, _, err = l.client.TransactionByHash(ctx, h)
	if errors.Is(err, ethereum.NotFound) {
		return "", fmt.Errorf("%w: transaction %s not found", models.ErrValidationFailed, h.Hex())
	}
	if err != nil {
		return "", fmt.Errorf("%w: lookup transaction: %v", models.ErrExternalServiceUnavailable, err)
	}
	return h.Hex(), nil
}
