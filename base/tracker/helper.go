package tracker

import (
	"strings"

	"github.com/x-xyz/auctionhouse/domain"
)

type Hexable interface {
	Hex() string
}

func ToLowerHexStr(h Hexable) string {
	return strings.ToLower(h.Hex())
}

func toDomainAddress(h Hexable) domain.Address {
	return domain.Address(ToLowerHexStr(h))
}

// Call is one successful transaction sent to the escrow address. Value is
// already converted to engine units.
type Call struct {
	Block   domain.BlockNumber
	TxIndex int
	TxHash  domain.TxHash
	From    domain.Address
	Value   uint64
	Data    []byte
}
