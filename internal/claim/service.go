package claim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/corduroy/collector/internal/config"
	"github.com/corduroy/collector/internal/domain"
	"github.com/corduroy/collector/internal/logger"
	"github.com/corduroy/collector/internal/providers/ethereum"
)

// ErrMintFailed wraps any chain failure while checking or minting a claim
var ErrMintFailed = errors.New("mint failed")

// Claim outcomes recorded in corduroy_claims_total
const (
	OutcomeMinted       = "minted"
	OutcomeAlreadyOwned = "already_owned"
	OutcomeFailed       = "failed"
)

// Result is the outcome of a successful claim
type Result struct {
	TxHash       string
	AlreadyOwned bool
}

// Config holds claim settings
type Config struct {
	// DuplicatePolicy is one of config.DuplicatePolicyNone or config.DuplicatePolicyCoalesce
	DuplicatePolicy string
	// Timeout bounds a coalesced claim once it is detached from its callers. Zero means no bound.
	Timeout time.Duration
}

//go:generate mockgen -source=service.go -destination=../mocks/claim_service.go -package=mocks -mock_names=Service=MockClaimService
type Service interface {
	// Claim mints one edition to the wallet unless it already holds one
	Claim(ctx context.Context, to common.Address, id domain.EditionID) (*Result, error)
}

type service struct {
	chain    ethereum.Client
	coalesce bool
	timeout  time.Duration
	group    singleflight.Group
	claims   *prometheus.CounterVec
}

// NewService creates a claim service. Metrics are registered on registerer.
func NewService(chain ethereum.Client, cfg Config, registerer prometheus.Registerer) (Service, error) {
	var coalesce bool
	switch cfg.DuplicatePolicy {
	case config.DuplicatePolicyCoalesce, "":
		coalesce = true
	case config.DuplicatePolicyNone:
	default:
		return nil, fmt.Errorf("unknown duplicate claim policy: %q", cfg.DuplicatePolicy)
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("claim timeout must not be negative: %s", cfg.Timeout)
	}

	claims := promauto.With(registerer).NewCounterVec(prometheus.CounterOpts{
		Namespace: "corduroy",
		Name:      "claims_total",
		Help:      "Total number of claim attempts by outcome",
	}, []string{"outcome"})

	return &service{chain: chain, coalesce: coalesce, timeout: cfg.Timeout, claims: claims}, nil
}

// Claim mints one edition to the wallet unless it already holds one.
// A coalesced claim runs detached from any single caller, so a caller that
// gives up only stops waiting and never fails the others.
func (s *service) Claim(ctx context.Context, to common.Address, id domain.EditionID) (*Result, error) {
	if !s.coalesce {
		return s.claim(ctx, to, id)
	}

	key := fmt.Sprintf("%s|%s", to.Hex(), id.String())
	ch := s.group.DoChan(key, func() (interface{}, error) {
		shared := context.WithoutCancel(ctx)
		if s.timeout > 0 {
			var cancel context.CancelFunc
			shared, cancel = context.WithTimeout(shared, s.timeout)
			defer cancel()
		}
		return s.claim(shared, to, id)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			logger.DebugCtx(ctx, "Claim coalesced", zap.String("key", key))
		}
		result := *res.Val.(*Result)
		return &result, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrMintFailed, ctx.Err())
	}
}

func (s *service) claim(ctx context.Context, to common.Address, id domain.EditionID) (*Result, error) {
	balance, err := s.chain.BalanceOf(ctx, to, id)
	if err != nil {
		s.claims.WithLabelValues(OutcomeFailed).Inc()
		logger.ErrorCtx(ctx, fmt.Errorf("failed to check balance: %w", err), zap.String("to", to.Hex()), zap.String("editionId", id.String()))
		return nil, fmt.Errorf("%w: %w", ErrMintFailed, err)
	}

	if balance.Sign() > 0 {
		s.claims.WithLabelValues(OutcomeAlreadyOwned).Inc()
		logger.InfoCtx(ctx, "Edition already owned", zap.String("to", to.Hex()), zap.String("editionId", id.String()))
		return &Result{AlreadyOwned: true}, nil
	}

	receipt, err := s.chain.Mint(ctx, to, id)
	if err != nil {
		s.claims.WithLabelValues(OutcomeFailed).Inc()
		logger.ErrorCtx(ctx, fmt.Errorf("failed to mint edition: %w", err), zap.String("to", to.Hex()), zap.String("editionId", id.String()))
		return nil, fmt.Errorf("%w: %w", ErrMintFailed, err)
	}

	s.claims.WithLabelValues(OutcomeMinted).Inc()
	return &Result{TxHash: receipt.TxHash.Hex()}, nil
}
