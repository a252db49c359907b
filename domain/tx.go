package domain

import "github.com/x-xyz/auctionhouse/base/ctx"

// TxRunner executes run as one atomic unit: every write made through the
// ctx handed to run is committed together, or discarded when run returns an
// error.
type TxRunner interface {
	RunWithTransaction(ctx.Ctx, func(ctx.Ctx) error) error
}
