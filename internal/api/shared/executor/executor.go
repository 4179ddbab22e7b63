package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/alitto/pond/v2"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/corduroy/collector/internal/api/shared/dto"
	apierrors "github.com/corduroy/collector/internal/api/shared/errors"
	"github.com/corduroy/collector/internal/claim"
	"github.com/corduroy/collector/internal/domain"
	"github.com/corduroy/collector/internal/edition"
	"github.com/corduroy/collector/internal/logger"
	"github.com/corduroy/collector/internal/metadata"
	"github.com/corduroy/collector/internal/providers/ethereum"
	"github.com/corduroy/collector/internal/providers/pinata"
)

// Executor is the interface for the API executor
//
//go:generate mockgen -source=executor.go -destination=../../../mocks/mock_api_executor.go -package=mocks -mock_names=Executor=MockAPIExecutor
type Executor interface {
	// Claim resolves the requested edition and mints it to the wallet unless already owned
	Claim(ctx context.Context, req dto.ClaimRequest) (*dto.ClaimResponse, error)

	// ClaimDev mints a legacy collectible keyed by artwork id
	ClaimDev(ctx context.Context, req dto.ClaimDevRequest) (*dto.ClaimDevResponse, error)

	// ListEditions returns the known editions held by wallet, optionally with their metadata
	ListEditions(ctx context.Context, wallet common.Address, includeMeta bool) (*dto.EditionsResponse, error)

	// SetEditionURI updates the metadata URI of an edition
	SetEditionURI(ctx context.Context, id uint64, uri string) (*dto.SetEditionURIResponse, error)

	// PinMetadata pins an edition metadata document to IPFS
	PinMetadata(ctx context.Context, req dto.PinMetadataRequest) (*dto.PinMetadataResponse, error)

	// Close stops the query worker pool
	Close()
}

// Config holds executor settings
type Config struct {
	// KnownIDs are the editions checked by ListEditions, in response order
	KnownIDs []domain.EditionID
	// QueryWorkers bounds concurrent chain queries across all ListEditions calls
	QueryWorkers int
}

type executor struct {
	cfg      Config
	resolver *edition.Resolver
	claims   claim.Service
	chain    ethereum.Client
	fetcher  metadata.Fetcher
	pinner   pinata.Client
	pool     pond.ResultPool[*dto.EditionItem]
}

func NewExecutor(cfg Config, resolver *edition.Resolver, claims claim.Service, chain ethereum.Client, fetcher metadata.Fetcher, pinner pinata.Client) Executor {
	workers := cfg.QueryWorkers
	if workers <= 0 {
		workers = 1
	}

	return &executor{
		cfg:      cfg,
		resolver: resolver,
		claims:   claims,
		chain:    chain,
		fetcher:  fetcher,
		pinner:   pinner,
		pool:     pond.NewResultPool[*dto.EditionItem](workers),
	}
}

func (e *executor) Claim(ctx context.Context, req dto.ClaimRequest) (*dto.ClaimResponse, error) {
	to, err := domain.ParseAddress(req.To)
	if err != nil {
		details := apierrors.NewValidationDetails()
		details.AddField("to", err.Error())
		return nil, apierrors.NewInvalidRequestError(details)
	}

	editionReq := edition.Request{PIN: req.PIN}
	if req.ArtID != nil {
		editionReq.ArtID = *req.ArtID
	}

	id, err := e.resolver.Resolve(editionReq)
	if err != nil {
		var candidateErr *edition.CandidateError
		switch {
		case errors.Is(err, domain.ErrPINNotFound):
			logger.InfoCtx(ctx, "Claim with unknown pin", zap.String("to", to.Hex()))
			return nil, apierrors.NewPINNotFoundError()
		case errors.As(err, &candidateErr):
			return nil, apierrors.NewInvalidEditionIDError(candidateErr.Error())
		default:
			return nil, apierrors.NewClaimFailedError(err.Error())
		}
	}

	result, err := e.claims.Claim(ctx, to, id)
	if err != nil {
		return nil, apierrors.NewClaimFailedError(err.Error())
	}

	if result.AlreadyOwned {
		return &dto.ClaimResponse{Success: true, AlreadyOwned: true}, nil
	}

	logger.InfoCtx(ctx, "Edition claimed",
		zap.String("to", to.Hex()),
		zap.String("editionId", id.String()),
		zap.String("txHash", result.TxHash),
	)

	return &dto.ClaimResponse{Success: true, TxHash: result.TxHash}, nil
}

func (e *executor) ClaimDev(ctx context.Context, req dto.ClaimDevRequest) (*dto.ClaimDevResponse, error) {
	tokenURI := domain.DEFAULT_COLLECTIBLE_TOKEN_URI
	if req.TokenURI != nil {
		tokenURI = *req.TokenURI
	}

	receipt, err := e.chain.MintCollectible(ctx, common.HexToAddress(req.To), req.ArtID, tokenURI)
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to mint collectible: %w", err), zap.String("to", req.To), zap.String("artId", req.ArtID))
		return nil, apierrors.NewMintFailedError(err.Error())
	}

	return &dto.ClaimDevResponse{
		Success:  true,
		TxHash:   receipt.TxHash.Hex(),
		TokenID:  receipt.TokenID.String(),
		To:       req.To,
		ArtID:    req.ArtID,
		TokenURI: tokenURI,
	}, nil
}

func (e *executor) ListEditions(ctx context.Context, wallet common.Address, includeMeta bool) (*dto.EditionsResponse, error) {
	group := e.pool.NewGroupContext(ctx)
	for _, id := range e.cfg.KnownIDs {
		group.SubmitErr(func() (*dto.EditionItem, error) {
			return e.ownedEdition(ctx, wallet, id, includeMeta)
		})
	}

	results, err := group.Wait()
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to query editions: %w", err), zap.String("wallet", wallet.Hex()))
		return nil, apierrors.NewOnchainQueryFailedError(err.Error())
	}

	items := make([]dto.EditionItem, 0, len(results))
	for _, item := range results {
		if item != nil {
			items = append(items, *item)
		}
	}

	return &dto.EditionsResponse{
		Items:       items,
		Contract:    e.chain.ContractAddress().Hex(),
		IncludeMeta: includeMeta,
	}, nil
}

// ownedEdition returns nil when wallet holds none of id.
// URI and metadata failures only omit those fields.
func (e *executor) ownedEdition(ctx context.Context, wallet common.Address, id domain.EditionID, includeMeta bool) (*dto.EditionItem, error) {
	balance, err := e.chain.BalanceOf(ctx, wallet, id)
	if err != nil {
		return nil, err
	}
	if balance.Sign() <= 0 {
		return nil, nil
	}

	item := &dto.EditionItem{ID: id.String()}

	uri, err := e.chain.URI(ctx, id)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to read edition uri", zap.String("editionId", id.String()), zap.Error(err))
		return item, nil
	}
	item.URI = uri

	if !includeMeta || !metadata.Supported(uri) {
		return item, nil
	}

	doc, err := e.fetcher.Fetch(ctx, uri, id)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to fetch edition metadata", zap.String("editionId", id.String()), zap.String("uri", uri), zap.Error(err))
		return item, nil
	}
	item.Metadata = doc

	return item, nil
}

func (e *executor) SetEditionURI(ctx context.Context, id uint64, uri string) (*dto.SetEditionURIResponse, error) {
	update, err := e.chain.SetURI(ctx, domain.NewEditionID(id), uri)
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to set edition uri: %w", err), zap.Uint64("editionId", id))
		return nil, apierrors.NewSetURIFailedError(err.Error())
	}

	logger.InfoCtx(ctx, "Edition uri updated",
		zap.Uint64("editionId", id),
		zap.String("uri", update.CurrentURI),
		zap.String("txHash", update.TxHash.Hex()),
	)

	return &dto.SetEditionURIResponse{
		Success: true,
		TxHash:  update.TxHash.Hex(),
		ID:      id,
		URI:     update.CurrentURI,
	}, nil
}

func (e *executor) PinMetadata(ctx context.Context, req dto.PinMetadataRequest) (*dto.PinMetadataResponse, error) {
	if !e.pinner.Enabled() {
		return nil, apierrors.NewPinningDisabledError(pinata.ErrPinningDisabled.Error())
	}

	pin, err := e.pinner.PinJSON(ctx, pinata.Metadata{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Attributes:  req.Attributes,
	})
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to pin metadata: %w", err), zap.String("name", req.Name))
		return nil, apierrors.NewPinFailedError(err.Error())
	}

	return &dto.PinMetadataResponse{
		Success:    true,
		CID:        pin.CID,
		IPFSURI:    pin.IPFSURI,
		GatewayURL: pin.GatewayURL,
	}, nil
}

func (e *executor) Close() {
	e.pool.StopAndWait()
}
