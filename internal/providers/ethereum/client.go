package ethereum

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/corduroy/collector/internal/adapter"
	"github.com/corduroy/collector/internal/domain"
	"github.com/corduroy/collector/internal/logger"
)

// TxStatus is the confirmation status of a mined transaction
type TxStatus string

const (
	TxStatusConfirmed TxStatus = "confirmed"
	TxStatusReverted  TxStatus = "reverted"
)

// Receipt is the outcome of a confirmed transaction
type Receipt struct {
	TxHash      common.Hash
	Status      TxStatus
	BlockNumber uint64
}

// URIUpdate is the outcome of a setURI transaction
type URIUpdate struct {
	Receipt
	CurrentURI string
}

// CollectibleReceipt is the outcome of a legacy collectible mint
type CollectibleReceipt struct {
	Receipt
	TokenID *big.Int
}

//go:generate mockgen -source=client.go -destination=../../mocks/ethereum_client.go -package=mocks -mock_names=Client=MockEthereumClient
type Client interface {
	// ContractAddress returns the edition contract address
	ContractAddress() common.Address

	// VerifyChainID checks the node serves the configured chain
	VerifyChainID(ctx context.Context) error

	// BalanceOf returns the balance of owner for an edition
	BalanceOf(ctx context.Context, owner common.Address, id domain.EditionID) (*big.Int, error)

	// URI returns the metadata URI of an edition
	URI(ctx context.Context, id domain.EditionID) (string, error)

	// Mint mints one edition to the given address and waits for confirmation
	Mint(ctx context.Context, to common.Address, id domain.EditionID) (*Receipt, error)

	// SetURI updates the metadata URI of an edition and returns the URI read back after confirmation
	SetURI(ctx context.Context, id domain.EditionID, uri string) (*URIUpdate, error)

	// MintCollectible mints a legacy ERC721 collectible keyed by artwork id
	MintCollectible(ctx context.Context, to common.Address, artID string, tokenURI string) (*CollectibleReceipt, error)

	// Close closes the connection
	Close()
}

// Config holds the contract addresses used by the client
type Config struct {
	ChainID            int64
	ContractAddress    common.Address
	CollectibleAddress common.Address
}

type ethereumClient struct {
	cfg     Config
	client  adapter.EthClient
	relayer *Relayer
}

func NewClient(cfg Config, client adapter.EthClient, relayer *Relayer) Client {
	return &ethereumClient{cfg: cfg, client: client, relayer: relayer}
}

// ContractAddress returns the edition contract address
func (c *ethereumClient) ContractAddress() common.Address {
	return c.cfg.ContractAddress
}

// VerifyChainID checks the node serves the configured chain
func (c *ethereumClient) VerifyChainID(ctx context.Context) error {
	chainID, err := c.client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain id: %w", err)
	}
	if chainID.Cmp(big.NewInt(c.cfg.ChainID)) != 0 {
		return fmt.Errorf("chain id mismatch: node reports %s, configured %d", chainID.String(), c.cfg.ChainID)
	}
	return nil
}

// BalanceOf returns the balance of owner for an edition
func (c *ethereumClient) BalanceOf(ctx context.Context, owner common.Address, id domain.EditionID) (*big.Int, error) {
	data, err := editionABI.Pack("balanceOf", owner, id.BigInt())
	if err != nil {
		return nil, fmt.Errorf("failed to pack balanceOf call: %w", err)
	}

	var balance *big.Int
	if err := c.call(ctx, "balanceOf", data, &balance); err != nil {
		return nil, err
	}

	return balance, nil
}

// URI returns the metadata URI of an edition
func (c *ethereumClient) URI(ctx context.Context, id domain.EditionID) (string, error) {
	data, err := editionABI.Pack("uri", id.BigInt())
	if err != nil {
		return "", fmt.Errorf("failed to pack uri call: %w", err)
	}

	var uri string
	if err := c.call(ctx, "uri", data, &uri); err != nil {
		return "", err
	}

	return uri, nil
}

func (c *ethereumClient) call(ctx context.Context, method string, data []byte, out interface{}) error {
	contract := c.cfg.ContractAddress
	result, err := c.client.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", method, err)
	}

	if err := editionABI.UnpackIntoInterface(out, method, result); err != nil {
		return fmt.Errorf("failed to unpack %s result: %w", method, err)
	}

	return nil
}

// Mint mints one edition to the given address and waits for confirmation
func (c *ethereumClient) Mint(ctx context.Context, to common.Address, id domain.EditionID) (*Receipt, error) {
	data, err := editionABI.Pack("mintTo", to, id.BigInt())
	if err != nil {
		return nil, fmt.Errorf("failed to pack mintTo call: %w", err)
	}

	receipt, err := c.relayer.Transact(ctx, c.cfg.ContractAddress, data)
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Edition minted",
		zap.String("to", to.Hex()),
		zap.String("editionId", id.String()),
		zap.String("txHash", receipt.TxHash.Hex()))

	return toReceipt(receipt), nil
}

// SetURI updates the metadata URI of an edition and returns the URI read back after confirmation
func (c *ethereumClient) SetURI(ctx context.Context, id domain.EditionID, uri string) (*URIUpdate, error) {
	data, err := editionABI.Pack("setURI", id.BigInt(), uri)
	if err != nil {
		return nil, fmt.Errorf("failed to pack setURI call: %w", err)
	}

	receipt, err := c.relayer.Transact(ctx, c.cfg.ContractAddress, data)
	if err != nil {
		return nil, err
	}

	current, err := c.URI(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("uri updated in %s but read back failed: %w", receipt.TxHash.Hex(), err)
	}

	logger.InfoCtx(ctx, "Edition URI updated",
		zap.String("editionId", id.String()),
		zap.String("uri", current),
		zap.String("txHash", receipt.TxHash.Hex()))

	return &URIUpdate{Receipt: *toReceipt(receipt), CurrentURI: current}, nil
}

// MintCollectible mints a legacy ERC721 collectible keyed by artwork id
func (c *ethereumClient) MintCollectible(ctx context.Context, to common.Address, artID string, tokenURI string) (*CollectibleReceipt, error) {
	art := ToBytes32(artID)
	data, err := collectibleABI.Pack("mintTo", to, [32]byte(art), tokenURI)
	if err != nil {
		return nil, fmt.Errorf("failed to pack mintTo call: %w", err)
	}

	receipt, err := c.relayer.Transact(ctx, c.cfg.CollectibleAddress, data)
	if err != nil {
		return nil, err
	}

	tokenID := c.collectedTokenID(receipt)
	if tokenID == nil {
		tokenID = ComputeTokenID(to, art).Big()
	}

	return &CollectibleReceipt{Receipt: *toReceipt(receipt), TokenID: tokenID}, nil
}

// collectedTokenID returns the token id of the first Collected event emitted by the collectible contract
func (c *ethereumClient) collectedTokenID(receipt *types.Receipt) *big.Int {
	event := collectibleABI.Events[collectedEvent]
	for _, vLog := range receipt.Logs {
		if vLog == nil || vLog.Address != c.cfg.CollectibleAddress {
			continue
		}
		// Collected(address indexed collector, bytes32 indexed artId, uint256 indexed tokenId, string tokenURI)
		if len(vLog.Topics) != 4 || vLog.Topics[0] != event.ID {
			continue
		}
		return vLog.Topics[3].Big()
	}
	return nil
}

// Close closes the connection
func (c *ethereumClient) Close() {
	c.client.Close()
}

func toReceipt(r *types.Receipt) *Receipt {
	status := TxStatusConfirmed
	if r.Status != types.ReceiptStatusSuccessful {
		status = TxStatusReverted
	}

	var block uint64
	if r.BlockNumber != nil {
		block = r.BlockNumber.Uint64()
	}

	return &Receipt{TxHash: r.TxHash, Status: status, BlockNumber: block}
}
