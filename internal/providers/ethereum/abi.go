package ethereum

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const editionABIJSON = `[
	{"constant":true,"inputs":[{"name":"account","type":"address"},{"name":"id","type":"uint256"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"id","type":"uint256"}],"name":"uri","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"name":"to","type":"address"},{"name":"id","type":"uint256"}],"name":"mintTo","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"name":"id","type":"uint256"},{"name":"newuri","type":"string"}],"name":"setURI","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

const collectibleABIJSON = `[
	{"inputs":[{"name":"to","type":"address"},{"name":"artId","type":"bytes32"},{"name":"tokenURI","type":"string"}],"name":"mintTo","outputs":[{"name":"","type":"uint256"}],"stateMutability":"nonpayable","type":"function"},
	{"anonymous":false,"inputs":[{"indexed":true,"name":"collector","type":"address"},{"indexed":true,"name":"artId","type":"bytes32"},{"indexed":true,"name":"tokenId","type":"uint256"},{"indexed":false,"name":"tokenURI","type":"string"}],"name":"Collected","type":"event"}
]`

const collectedEvent = "Collected"

var (
	editionABI     = mustParseABI(editionABIJSON)
	collectibleABI = mustParseABI(collectibleABIJSON)

	bytes32HexRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("failed to parse ABI: %v", err))
	}
	return parsed
}

// ToBytes32 converts an artwork id into the bytes32 the collectible contract keys on.
// A 0x-prefixed 64 hex digit string is used as is, anything else is hashed.
func ToBytes32(artID string) common.Hash {
	if bytes32HexRegex.MatchString(artID) {
		return common.HexToHash(artID)
	}
	return crypto.Keccak256Hash([]byte(artID))
}

// ComputeTokenID mirrors the collectible contract's token id derivation,
// keccak256(abi.encodePacked(to, artId))
func ComputeTokenID(to common.Address, artID common.Hash) common.Hash {
	return crypto.Keccak256Hash(to.Bytes(), artID.Bytes())
}
