package main

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corduroy/collector/internal/config"
	"github.com/corduroy/collector/internal/domain"
	"github.com/corduroy/collector/internal/mocks"
	"github.com/corduroy/collector/internal/providers/ethereum"
)

var wallet = common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")

func testConfig() *config.APIConfig {
	cfg := &config.APIConfig{}
	cfg.Editions.KnownIDs = []string{"1", "2"}
	cfg.Editions.PinMap = "PIN123:1,PIN456:two"
	cfg.Editions.LabelMap = "two:2"
	return cfg
}

func run(t *testing.T, chain ethereum.Client, args ...string) (string, error) {
	t.Helper()

	a := &app{
		cfg: testConfig(),
		dial: func(context.Context, *config.APIConfig) (ethereum.Client, error) {
			if chain == nil {
				return nil, errors.New("no chain in this test")
			}
			return chain, nil
		},
	}

	var out bytes.Buffer
	cmd := newRootCmd(a)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--timeout", time.Minute.String()))
	err := cmd.Execute()
	return out.String(), err
}

func TestSetURI(t *testing.T) {
	ctrl := gomock.NewController(t)
	chain := mocks.NewMockEthereumClient(ctrl)
	txHash := common.HexToHash("0x01")

	chain.EXPECT().VerifyChainID(gomock.Any()).Return(nil)
	chain.EXPECT().SetURI(gomock.Any(), domain.NewEditionID(3), "ipfs://X").Return(&ethereum.URIUpdate{
		Receipt:    ethereum.Receipt{TxHash: txHash, Status: ethereum.TxStatusConfirmed},
		CurrentURI: "ipfs://X",
	}, nil)
	chain.EXPECT().Close()

	out, err := run(t, chain, "set-uri", "--id", "3", "--uri", "ipfs://X")
	require.NoError(t, err)
	assert.Contains(t, out, txHash.Hex())
	assert.Contains(t, out, "uri: ipfs://X")
}

func TestSetURI_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing uri", args: []string{"set-uri", "--id", "1"}},
		{name: "non numeric id", args: []string{"set-uri", "--id", "one", "--uri", "ipfs://X"}},
		{name: "empty uri", args: []string{"set-uri", "--id", "1", "--uri", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, nil, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestGetURI_ChainMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	chain := mocks.NewMockEthereumClient(ctrl)
	chain.EXPECT().VerifyChainID(gomock.Any()).Return(errors.New("chain id mismatch: node reports 1, configured 1287"))
	chain.EXPECT().Close()

	_, err := run(t, chain, "get-uri", "--id", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chain id mismatch")
}

func TestGetURI(t *testing.T) {
	ctrl := gomock.NewController(t)
	chain := mocks.NewMockEthereumClient(ctrl)
	chain.EXPECT().VerifyChainID(gomock.Any()).Return(nil)
	chain.EXPECT().URI(gomock.Any(), domain.NewEditionID(1)).Return("ipfs://one", nil)
	chain.EXPECT().Close()

	out, err := run(t, chain, "get-uri", "--id", "1")
	require.NoError(t, err)
	assert.Equal(t, "ipfs://one\n", out)
}

func TestBalance_DefaultsToKnownEditions(t *testing.T) {
	ctrl := gomock.NewController(t)
	chain := mocks.NewMockEthereumClient(ctrl)
	chain.EXPECT().VerifyChainID(gomock.Any()).Return(nil)
	chain.EXPECT().BalanceOf(gomock.Any(), wallet, domain.NewEditionID(1)).Return(big.NewInt(1), nil)
	chain.EXPECT().BalanceOf(gomock.Any(), wallet, domain.NewEditionID(2)).Return(big.NewInt(0), nil)
	chain.EXPECT().Close()

	out, err := run(t, chain, "balance", "--wallet", wallet.Hex())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"1", "1"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"2", "0"}, strings.Fields(lines[2]))
}

func TestBalance_BadChecksum(t *testing.T) {
	_, err := run(t, nil, "balance", "--wallet", "0x5AAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)
}

func TestPins(t *testing.T) {
	out, err := run(t, nil, "pins")
	require.NoError(t, err)

	assert.Contains(t, out, "PIN123")
	lines := strings.Split(out, "\n")
	assert.Equal(t, []string{"PIN456", "two", "2"}, strings.Fields(lines[2]))
	assert.Contains(t, out, "LABEL")
}
