package ethereum

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/corduroy/collector/internal/adapter"
	"github.com/corduroy/collector/internal/logger"
)

// ErrTransactionReverted is returned when a mined transaction has a failed status
var ErrTransactionReverted = errors.New("transaction reverted")

// RelayerConfig holds the signing and confirmation settings of a relayer
type RelayerConfig struct {
	PrivateKey          string
	ChainID             int64
	PollInterval        time.Duration
	ConfirmationTimeout time.Duration
	GasLimitMultiplier  float64
}

// Relayer signs and submits transactions with the server-held key.
// Nonce assignment, signing and submission happen under one lock so concurrent
// callers never race for the same nonce.
type Relayer struct {
	client adapter.EthClient
	clock  adapter.Clock

	key     *ecdsa.PrivateKey
	from    common.Address
	chainID *big.Int
	signer  types.Signer

	pollInterval        time.Duration
	confirmationTimeout time.Duration
	gasLimitMultiplier  float64

	mu sync.Mutex
}

// NewRelayer creates a relayer from a hex encoded private key
func NewRelayer(client adapter.EthClient, clock adapter.Clock, cfg RelayerConfig) (*Relayer, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid relayer private key: %w", err)
	}

	if cfg.ChainID <= 0 {
		return nil, fmt.Errorf("invalid chain id: %d", cfg.ChainID)
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("invalid poll interval: %s", cfg.PollInterval)
	}

	multiplier := cfg.GasLimitMultiplier
	if multiplier < 1 {
		multiplier = 1
	}

	chainID := big.NewInt(cfg.ChainID)
	return &Relayer{
		client:              client,
		clock:               clock,
		key:                 key,
		from:                crypto.PubkeyToAddress(key.PublicKey),
		chainID:             chainID,
		signer:              types.LatestSignerForChainID(chainID),
		pollInterval:        cfg.PollInterval,
		confirmationTimeout: cfg.ConfirmationTimeout,
		gasLimitMultiplier:  multiplier,
	}, nil
}

// Address returns the relayer account
func (r *Relayer) Address() common.Address {
	return r.from
}

// Transact submits a call to contract and blocks until it is mined
func (r *Relayer) Transact(ctx context.Context, contract common.Address, data []byte) (*types.Receipt, error) {
	tx, err := r.Send(ctx, contract, data)
	if err != nil {
		return nil, err
	}

	receipt, err := r.WaitMined(ctx, tx.Hash())
	if err != nil {
		return nil, err
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s", ErrTransactionReverted, tx.Hash().Hex())
	}

	return receipt, nil
}

// Send estimates, signs and submits a transaction without waiting for it
func (r *Relayer) Send(ctx context.Context, contract common.Address, data []byte) (*types.Transaction, error) {
	// Estimation runs outside the lock, a reverting call fails here without holding up other senders
	gas, err := r.client.EstimateGas(ctx, ethereum.CallMsg{From: r.from, To: &contract, Data: data})
	if err != nil {
		return nil, fmt.Errorf("failed to estimate gas: %w", err)
	}
	gasLimit := uint64(float64(gas) * r.gasLimitMultiplier)

	head, err := r.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest header: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	nonce, err := r.client.PendingNonceAt(ctx, r.from)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	var txData types.TxData
	if head.BaseFee != nil {
		tip, err := r.client.SuggestGasTipCap(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to suggest gas tip cap: %w", err)
		}
		feeCap := new(big.Int).Add(tip, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
		txData = &types.DynamicFeeTx{
			ChainID:   r.chainID,
			Nonce:     nonce,
			GasTipCap: tip,
			GasFeeCap: feeCap,
			Gas:       gasLimit,
			To:        &contract,
			Value:     new(big.Int),
			Data:      data,
		}
	} else {
		gasPrice, err := r.client.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to suggest gas price: %w", err)
		}
		txData = &types.LegacyTx{
			Nonce:    nonce,
			GasPrice: gasPrice,
			Gas:      gasLimit,
			To:       &contract,
			Value:    new(big.Int),
			Data:     data,
		}
	}

	tx, err := types.SignNewTx(r.key, r.signer, txData)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := r.client.SendTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	logger.InfoCtx(ctx, "Transaction submitted",
		zap.String("txHash", tx.Hash().Hex()),
		zap.String("to", contract.Hex()),
		zap.Uint64("nonce", nonce),
		zap.Uint64("gas", gasLimit))

	return tx, nil
}

// WaitMined polls for the receipt of txHash until it is found or ctx is done
func (r *Relayer) WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	if r.confirmationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.confirmationTimeout)
		defer cancel()
	}

	for {
		receipt, err := r.client.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			logger.WarnCtx(ctx, "Failed to get transaction receipt", zap.String("txHash", txHash.Hex()), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for transaction %s: %w", txHash.Hex(), ctx.Err())
		case <-r.clock.After(r.pollInterval):
		}
	}
}
