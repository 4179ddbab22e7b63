package domain

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
)

var (
	editionIDRegex = regexp.MustCompile(`^[0-9]+$`)
	addressRegex   = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
)

// EditionID is the canonical numeric identifier of an ERC-1155 edition.
// The zero value is edition 0.
type EditionID struct {
	n *big.Int
}

// NewEditionID returns the edition id for a small integer
func NewEditionID(id uint64) EditionID {
	return EditionID{n: new(big.Int).SetUint64(id)}
}

// ParseEditionID parses a decimal string of digits into an EditionID.
// Signs, whitespace, decimals, exponents and values above uint256 are rejected.
func ParseEditionID(s string) (EditionID, error) {
	if !editionIDRegex.MatchString(s) {
		return EditionID{}, fmt.Errorf("%w: %q", ErrInvalidEditionID, s)
	}

	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Cmp(math.MaxBig256) > 0 {
		return EditionID{}, fmt.Errorf("%w: %q", ErrInvalidEditionID, s)
	}

	return EditionID{n: n}, nil
}

// IsNumeric reports whether s has the shape of an edition id
func IsNumeric(s string) bool {
	return editionIDRegex.MatchString(s)
}

// BigInt returns a copy of the id as a big integer
func (e EditionID) BigInt() *big.Int {
	if e.n == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(e.n)
}

// String returns the canonical decimal form
func (e EditionID) String() string {
	if e.n == nil {
		return "0"
	}
	return e.n.String()
}

// Hex returns the id as 64 lowercase hex characters without prefix,
// the substitution form of the ERC-1155 {id} placeholder.
func (e EditionID) Hex() string {
	return fmt.Sprintf("%064x", e.BigInt())
}

// ParseAddress validates a 0x-prefixed hex address.
// Mixed-case input must carry a valid EIP-55 checksum; all-lowercase or
// all-uppercase input is accepted as is. The result is checksummed.
func ParseAddress(s string) (common.Address, error) {
	if !addressRegex.MatchString(s) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}

	addr := common.HexToAddress(s)
	hexPart := s[2:]
	if hexPart != strings.ToLower(hexPart) && hexPart != strings.ToUpper(hexPart) {
		if addr.Hex() != s {
			return common.Address{}, fmt.Errorf("%w: bad checksum %q", ErrInvalidAddress, s)
		}
	}

	return addr, nil
}
