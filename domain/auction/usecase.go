package auction

import (
	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain"
)

// UseCase is the auction engine. Every mutating operation runs as one atomic
// call: when it returns an error none of its writes survive.
type UseCase interface {
	// Auction takes custody of the asset and opens an auction closing at
	// msg.Block + duration.
	Auction(c ctx.Ctx, msg Msg, contract domain.Address, assetId uint64, startingPrice uint64, duration uint64) error
	// Bid places msg.Value as a bid. The outbid amount is credited to the
	// previous bidder's refund balance.
	Bid(c ctx.Ctx, msg Msg, contract domain.Address, assetId uint64) error
	// Refund pays out the sender's refund balance. ok == false means the
	// payout was rejected and the balance is kept for a later retry.
	Refund(c ctx.Ctx, msg Msg) (ok bool, err error)
	// AuctionEnd settles a closed auction exactly once.
	AuctionEnd(c ctx.Ctx, msg Msg, contract domain.Address, assetId uint64) error

	// Bounce credits value attached to an aborted call back to its sender.
	Bounce(c ctx.Ctx, msg Msg) error

	GetAuctionInfo(c ctx.Ctx, contract domain.Address, assetId uint64) (*Auction, error)
	GetRefund(c ctx.Ctx, addr domain.Address) (uint64, error)
	FindAuctions(c ctx.Ctx, opts ...FindAllOptionsFunc) ([]Auction, error)
	FindEvents(c ctx.Ctx, opts ...FindEventsOptionsFunc) ([]Event, error)
}
