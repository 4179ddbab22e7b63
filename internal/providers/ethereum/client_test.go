package ethereum_test

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corduroy/collector/internal/domain"
	"github.com/corduroy/collector/internal/mocks"
	ethprovider "github.com/corduroy/collector/internal/providers/ethereum"
)

const testPrivateKey = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

var (
	editionContract     = common.HexToAddress("0x1111111111111111111111111111111111111111")
	collectibleContract = common.HexToAddress("0x2222222222222222222222222222222222222222")
	collector           = common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
)

type testClient struct {
	client  ethprovider.Client
	relayer *ethprovider.Relayer
	eth     *mocks.MockEthClient
	clock   *mocks.MockClock
}

func newTestClient(t *testing.T, confirmationTimeout time.Duration) *testClient {
	ctrl := gomock.NewController(t)
	eth := mocks.NewMockEthClient(ctrl)
	clock := mocks.NewMockClock(ctrl)

	relayer, err := ethprovider.NewRelayer(eth, clock, ethprovider.RelayerConfig{
		PrivateKey:          testPrivateKey,
		ChainID:             domain.MOONBASE_ALPHA_CHAIN,
		PollInterval:        time.Second,
		ConfirmationTimeout: confirmationTimeout,
		GasLimitMultiplier:  1.5,
	})
	require.NoError(t, err)

	client := ethprovider.NewClient(ethprovider.Config{
		ChainID:            domain.MOONBASE_ALPHA_CHAIN,
		ContractAddress:    editionContract,
		CollectibleAddress: collectibleContract,
	}, eth, relayer)

	return &testClient{client: client, relayer: relayer, eth: eth, clock: clock}
}

func firedChannel() <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

func packString(t *testing.T, s string) []byte {
	stringType, err := abi.NewType("string", "", nil)
	require.NoError(t, err)
	out, err := abi.Arguments{{Type: stringType}}.Pack(s)
	require.NoError(t, err)
	return out
}

func packUint(n int64) []byte {
	return common.LeftPadBytes(big.NewInt(n).Bytes(), 32)
}

func selector(signature string) []byte {
	return crypto.Keccak256([]byte(signature))[:4]
}

// expectSend wires the gas, header, nonce and send expectations for one transaction
// and returns a getter for the transaction that was sent
func (tc *testClient) expectSend(t *testing.T, to common.Address, baseFee *big.Int) func() *types.Transaction {
	var sent atomic.Pointer[types.Transaction]

	tc.eth.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, msg ethereum.CallMsg) (uint64, error) {
			assert.Equal(t, tc.relayer.Address(), msg.From)
			require.NotNil(t, msg.To)
			assert.Equal(t, to, *msg.To)
			return 21000, nil
		})
	tc.eth.EXPECT().HeaderByNumber(gomock.Any(), nil).Return(&types.Header{Number: big.NewInt(100), BaseFee: baseFee}, nil)
	tc.eth.EXPECT().PendingNonceAt(gomock.Any(), tc.relayer.Address()).Return(uint64(7), nil)
	if baseFee != nil {
		tc.eth.EXPECT().SuggestGasTipCap(gomock.Any()).Return(big.NewInt(2), nil)
	} else {
		tc.eth.EXPECT().SuggestGasPrice(gomock.Any()).Return(big.NewInt(1_000_000_000), nil)
	}
	tc.eth.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, tx *types.Transaction) error {
			sent.Store(tx)
			return nil
		})

	return sent.Load
}

func (tc *testClient) expectReceipt(sent func() *types.Transaction, status uint64, logs []*types.Log) {
	gomock.InOrder(
		tc.eth.EXPECT().TransactionReceipt(gomock.Any(), gomock.Any()).Return(nil, ethereum.NotFound),
		tc.eth.EXPECT().TransactionReceipt(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, hash common.Hash) (*types.Receipt, error) {
				return &types.Receipt{
					TxHash:      sent().Hash(),
					Status:      status,
					BlockNumber: big.NewInt(101),
					Logs:        logs,
				}, nil
			}),
	)
	tc.clock.EXPECT().After(time.Second).Return(firedChannel())
}

func TestNewRelayer_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  ethprovider.RelayerConfig
	}{
		{name: "bad key", cfg: ethprovider.RelayerConfig{PrivateKey: "0xzz", ChainID: 1, PollInterval: time.Second}},
		{name: "zero chain id", cfg: ethprovider.RelayerConfig{PrivateKey: testPrivateKey, PollInterval: time.Second}},
		{name: "zero poll interval", cfg: ethprovider.RelayerConfig{PrivateKey: testPrivateKey, ChainID: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ethprovider.NewRelayer(nil, nil, tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestClient_VerifyChainID(t *testing.T) {
	tests := []struct {
		name    string
		chainID *big.Int
		err     error
		wantErr string
	}{
		{name: "match", chainID: big.NewInt(domain.MOONBASE_ALPHA_CHAIN)},
		{name: "mismatch", chainID: big.NewInt(1), wantErr: "chain id mismatch"},
		{name: "rpc error", err: errors.New("dial tcp: refused"), wantErr: "failed to get chain id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newTestClient(t, 0)
			tc.eth.EXPECT().ChainID(gomock.Any()).Return(tt.chainID, tt.err)

			err := tc.client.VerifyChainID(context.Background())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestClient_BalanceOf(t *testing.T) {
	tc := newTestClient(t, 0)
	id := domain.NewEditionID(3)

	tc.eth.EXPECT().CallContract(gomock.Any(), gomock.Any(), nil).DoAndReturn(
		func(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
			require.NotNil(t, msg.To)
			assert.Equal(t, editionContract, *msg.To)
			assert.Equal(t, selector("balanceOf(address,uint256)"), msg.Data[:4])
			assert.Equal(t, common.LeftPadBytes(collector.Bytes(), 32), msg.Data[4:36])
			assert.Equal(t, packUint(3), msg.Data[36:68])
			return packUint(2), nil
		})

	balance, err := tc.client.BalanceOf(context.Background(), collector, id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), balance.Int64())
}

func TestClient_BalanceOf_CallError(t *testing.T) {
	tc := newTestClient(t, 0)
	tc.eth.EXPECT().CallContract(gomock.Any(), gomock.Any(), nil).Return(nil, errors.New("execution reverted"))

	_, err := tc.client.BalanceOf(context.Background(), collector, domain.NewEditionID(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to call balanceOf")
}

func TestClient_URI(t *testing.T) {
	tc := newTestClient(t, 0)

	tc.eth.EXPECT().CallContract(gomock.Any(), gomock.Any(), nil).DoAndReturn(
		func(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
			assert.Equal(t, selector("uri(uint256)"), msg.Data[:4])
			return packString(t, "ipfs://bafy/{id}.json"), nil
		})

	uri, err := tc.client.URI(context.Background(), domain.NewEditionID(1))
	require.NoError(t, err)
	assert.Equal(t, "ipfs://bafy/{id}.json", uri)
}

func TestClient_URI_EmptyResult(t *testing.T) {
	tc := newTestClient(t, 0)
	tc.eth.EXPECT().CallContract(gomock.Any(), gomock.Any(), nil).Return([]byte{}, nil)

	_, err := tc.client.URI(context.Background(), domain.NewEditionID(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unpack uri result")
}

func TestClient_Mint_DynamicFee(t *testing.T) {
	tc := newTestClient(t, 0)
	sent := tc.expectSend(t, editionContract, big.NewInt(1_000))
	tc.expectReceipt(sent, types.ReceiptStatusSuccessful, nil)

	receipt, err := tc.client.Mint(context.Background(), collector, domain.NewEditionID(2))
	require.NoError(t, err)

	tx := sent()
	require.NotNil(t, tx)
	assert.Equal(t, tx.Hash(), receipt.TxHash)
	assert.Equal(t, ethprovider.TxStatusConfirmed, receipt.Status)
	assert.Equal(t, uint64(101), receipt.BlockNumber)

	assert.Equal(t, uint8(types.DynamicFeeTxType), tx.Type())
	assert.Equal(t, uint64(7), tx.Nonce())
	assert.Equal(t, uint64(31500), tx.Gas())
	assert.Equal(t, int64(2), tx.GasTipCap().Int64())
	assert.Equal(t, int64(2_002), tx.GasFeeCap().Int64())
	assert.Equal(t, editionContract, *tx.To())
	assert.Equal(t, selector("mintTo(address,uint256)"), tx.Data()[:4])

	from, err := types.Sender(types.LatestSignerForChainID(big.NewInt(domain.MOONBASE_ALPHA_CHAIN)), tx)
	require.NoError(t, err)
	assert.Equal(t, tc.relayer.Address(), from)
}

func TestClient_Mint_LegacyGasPrice(t *testing.T) {
	tc := newTestClient(t, 0)
	sent := tc.expectSend(t, editionContract, nil)
	tc.expectReceipt(sent, types.ReceiptStatusSuccessful, nil)

	_, err := tc.client.Mint(context.Background(), collector, domain.NewEditionID(2))
	require.NoError(t, err)

	tx := sent()
	assert.Equal(t, uint8(types.LegacyTxType), tx.Type())
	assert.Equal(t, int64(1_000_000_000), tx.GasPrice().Int64())
}

func TestClient_Mint_Reverted(t *testing.T) {
	tc := newTestClient(t, 0)
	sent := tc.expectSend(t, editionContract, big.NewInt(1_000))
	tc.expectReceipt(sent, types.ReceiptStatusFailed, nil)

	_, err := tc.client.Mint(context.Background(), collector, domain.NewEditionID(2))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ethprovider.ErrTransactionReverted))
}

func TestClient_Mint_EstimateFails(t *testing.T) {
	tc := newTestClient(t, 0)
	tc.eth.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).Return(uint64(0), errors.New("execution reverted: not minter"))

	_, err := tc.client.Mint(context.Background(), collector, domain.NewEditionID(2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not minter")
}

func TestClient_Mint_ConfirmationTimeout(t *testing.T) {
	tc := newTestClient(t, 20*time.Millisecond)
	tc.expectSend(t, editionContract, big.NewInt(1_000))
	tc.eth.EXPECT().TransactionReceipt(gomock.Any(), gomock.Any()).Return(nil, ethereum.NotFound).AnyTimes()
	tc.clock.EXPECT().After(time.Second).Return(make(chan time.Time)).AnyTimes()

	_, err := tc.client.Mint(context.Background(), collector, domain.NewEditionID(2))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestClient_SetURI(t *testing.T) {
	tc := newTestClient(t, 0)
	sent := tc.expectSend(t, editionContract, big.NewInt(1_000))
	tc.expectReceipt(sent, types.ReceiptStatusSuccessful, nil)
	tc.eth.EXPECT().CallContract(gomock.Any(), gomock.Any(), nil).Return(packString(t, "ipfs://X"), nil)

	update, err := tc.client.SetURI(context.Background(), domain.NewEditionID(1), "ipfs://X")
	require.NoError(t, err)
	assert.Equal(t, "ipfs://X", update.CurrentURI)
	assert.Equal(t, sent().Hash(), update.TxHash)
	assert.Equal(t, selector("setURI(uint256,string)"), sent().Data()[:4])
}

func TestClient_MintCollectible(t *testing.T) {
	collectedID := crypto.Keccak256Hash([]byte("Collected(address,bytes32,uint256,string)"))
	artID := "sunflowers"
	art := ethprovider.ToBytes32(artID)

	tests := []struct {
		name    string
		logs    []*types.Log
		tokenID *big.Int
	}{
		{
			name: "token id from Collected event",
			logs: []*types.Log{{
				Address: collectibleContract,
				Topics: []common.Hash{
					collectedID,
					common.BytesToHash(collector.Bytes()),
					art,
					common.BigToHash(big.NewInt(42)),
				},
			}},
			tokenID: big.NewInt(42),
		},
		{
			name: "event from another contract falls back",
			logs: []*types.Log{{
				Address: editionContract,
				Topics: []common.Hash{
					collectedID,
					common.BytesToHash(collector.Bytes()),
					art,
					common.BigToHash(big.NewInt(42)),
				},
			}},
			tokenID: ethprovider.ComputeTokenID(collector, art).Big(),
		},
		{
			name:    "no event falls back to computed id",
			tokenID: ethprovider.ComputeTokenID(collector, art).Big(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newTestClient(t, 0)
			sent := tc.expectSend(t, collectibleContract, big.NewInt(1_000))
			tc.expectReceipt(sent, types.ReceiptStatusSuccessful, tt.logs)

			receipt, err := tc.client.MintCollectible(context.Background(), collector, artID, domain.DEFAULT_COLLECTIBLE_TOKEN_URI)
			require.NoError(t, err)
			assert.Equal(t, 0, tt.tokenID.Cmp(receipt.TokenID))
			assert.Equal(t, selector("mintTo(address,bytes32,string)"), sent().Data()[:4])
			assert.Equal(t, art.Bytes(), sent().Data()[36:68])
		})
	}
}

func TestToBytes32(t *testing.T) {
	hexID := "0x00000000000000000000000000000000000000000000000000000000000000ff"

	assert.Equal(t, common.HexToHash(hexID), ethprovider.ToBytes32(hexID))
	assert.Equal(t, crypto.Keccak256Hash([]byte("sunflowers")), ethprovider.ToBytes32("sunflowers"))
	// too short for bytes32, hashed as text
	assert.Equal(t, crypto.Keccak256Hash([]byte("0xff")), ethprovider.ToBytes32("0xff"))
}

func TestComputeTokenID(t *testing.T) {
	art := ethprovider.ToBytes32("sunflowers")
	packed := append(append([]byte{}, collector.Bytes()...), art.Bytes()...)

	assert.Equal(t, crypto.Keccak256Hash(packed), ethprovider.ComputeTokenID(collector, art))
}

func TestRelayer_SerializesNonceAssignment(t *testing.T) {
	tc := newTestClient(t, 0)

	var inFlight atomic.Bool
	var nonce atomic.Uint64

	tc.eth.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).Return(uint64(21000), nil).Times(5)
	tc.eth.EXPECT().HeaderByNumber(gomock.Any(), nil).Return(&types.Header{Number: big.NewInt(1), BaseFee: big.NewInt(1)}, nil).Times(5)
	tc.eth.EXPECT().SuggestGasTipCap(gomock.Any()).Return(big.NewInt(1), nil).Times(5)
	tc.eth.EXPECT().PendingNonceAt(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, common.Address) (uint64, error) {
			assert.True(t, inFlight.CompareAndSwap(false, true), "nonce requested while another send is in flight")
			return nonce.Load(), nil
		}).Times(5)
	tc.eth.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, tx *types.Transaction) error {
			time.Sleep(time.Millisecond)
			nonce.Add(1)
			inFlight.Store(false)
			return nil
		}).Times(5)

	var wg sync.WaitGroup
	nonces := make(chan uint64, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tx, err := tc.relayer.Send(context.Background(), editionContract, []byte{0x01})
			if assert.NoError(t, err) {
				nonces <- tx.Nonce()
			}
		}()
	}
	wg.Wait()
	close(nonces)

	seen := make(map[uint64]bool)
	for n := range nonces {
		assert.False(t, seen[n], "duplicate nonce %d", n)
		seen[n] = true
	}
	assert.Len(t, seen, 5)
}
