package simulated

import (
	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/auction"
)

// registry is the ERC-721 registry deployed at contract. The caller of every
// transfer is the engine.
type registry struct {
	ch       *Chain
	contract domain.Address
}

func (r *registry) id(assetId uint64) auction.Id {
	return auction.Id{Contract: r.contract, AssetId: assetId}
}

func (r *registry) GetOwner(c ctx.Ctx, assetId uint64) (domain.Address, error) {
	return r.ch.OwnerOf(r.contract, assetId), nil
}

func (r *registry) IsApprovedForAll(c ctx.Ctx, owner, operator domain.Address) (bool, error) {
	r.ch.mu.Lock()
	defer r.ch.mu.Unlock()
	return r.ch.st.operators[operatorKey{r.contract, owner.ToLower(), operator.ToLower()}], nil
}

func (r *registry) TransferFrom(c ctx.Ctx, from, to domain.Address, assetId uint64) (bool, error) {
	return r.transfer(c, from, to, assetId, false)
}

func (r *registry) SafeTransferFrom(c ctx.Ctx, from, to domain.Address, assetId uint64) (bool, error) {
	return r.transfer(c, from, to, assetId, true)
}

func (r *registry) transfer(c ctx.Ctx, from, to domain.Address, assetId uint64, safe bool) (bool, error) {
	from, to = from.ToLower(), to.ToLower()

	r.ch.mu.Lock()
	fail := r.ch.failTransfers[r.contract] || (safe && r.ch.rejectReceive[to])
	hook := r.ch.onTransfer
	r.ch.mu.Unlock()

	if fail || to.IsZero() {
		return false, nil
	}
	err := r.ch.tx.RunWithTransaction(c, func(c ctx.Ctx) error {
		if !r.move(from, to, assetId) {
			return errRejected
		}
		if hook != nil {
			return hook(c, r.contract, from, to, assetId)
		}
		return nil
	})
	if err != nil {
		c.WithFields(log.Fields{"err": err, "contract": r.contract, "assetId": assetId}).Warn("transfer rejected")
		return false, nil
	}
	return true, nil
}

// move applies the ERC-721 transfer guard: from owns the asset and the
// caller (the engine) is either from or an approved operator of from.
func (r *registry) move(from, to domain.Address, assetId uint64) bool {
	r.ch.mu.Lock()
	defer r.ch.mu.Unlock()
	caller := r.ch.engine
	if r.ch.st.owners[r.id(assetId)] != from {
		return false
	}
	if caller != from && !r.ch.st.operators[operatorKey{r.contract, from, caller}] {
		return false
	}
	r.ch.st.owners[r.id(assetId)] = to
	return true
}
