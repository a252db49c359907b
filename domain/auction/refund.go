package auction

import (
	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain"
)

type RefundBalance struct {
	Bidder domain.Address `json:"bidder" bson:"bidder"`
	Amount uint64         `json:"amount" bson:"amount"`
}

// RefundRepo is the ledger of amounts owed to outbid bidders. Get returns 0
// for an address that has never been credited.
type RefundRepo interface {
	Get(ctx.Ctx, domain.Address) (uint64, error)
	Set(ctx.Ctx, domain.Address, uint64) error
}
