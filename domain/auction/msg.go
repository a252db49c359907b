package auction

import "github.com/x-xyz/auctionhouse/domain"

// Msg is the call envelope: who is calling, how much currency is attached
// and the block the call is executed in.
type Msg struct {
	Sender domain.Address
	Value  uint64
	Block  domain.BlockNumber
}
