package auction

import (
	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain"
)

// AssetRegistry is the external ERC-721 style registry owning the assets of
// one contract. The bool of a transfer reports success; an error reports the
// registry could not be reached at all.
type AssetRegistry interface {
	GetOwner(c ctx.Ctx, assetId uint64) (domain.Address, error)
	IsApprovedForAll(c ctx.Ctx, owner, operator domain.Address) (bool, error)
	TransferFrom(c ctx.Ctx, from, to domain.Address, assetId uint64) (bool, error)
	SafeTransferFrom(c ctx.Ctx, from, to domain.Address, assetId uint64) (bool, error)
}

// RegistryProvider resolves the registry deployed at contract.
type RegistryProvider interface {
	Registry(c ctx.Ctx, contract domain.Address) (AssetRegistry, error)
}

// Payer sends native currency from the engine's balance. ok == false means
// the transfer was rejected and nothing moved.
type Payer interface {
	Send(c ctx.Ctx, to domain.Address, amount uint64) (ok bool, err error)
}
