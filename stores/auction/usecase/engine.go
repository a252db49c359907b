package usecase

import (
	"errors"
	"math"
	"strconv"

	"golang.org/x/xerrors"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/base/metrics"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/auction"
)

type EngineCfg struct {
	// Address is the engine's own account, the custodian of assets and funds.
	Address     domain.Address
	Tx          domain.TxRunner
	AuctionRepo auction.Repo
	RefundRepo  auction.RefundRepo
	EventRepo   auction.EventRepo
	Registries  auction.RegistryProvider
	Payer       auction.Payer
}

type engine struct {
	address     domain.Address
	tx          domain.TxRunner
	auctionRepo auction.Repo
	refundRepo  auction.RefundRepo
	eventRepo   auction.EventRepo
	registries  auction.RegistryProvider
	payer       auction.Payer
	met         metrics.Service
}

func NewEngine(cfg *EngineCfg) auction.UseCase {
	return &engine{
		address:     cfg.Address.ToLower(),
		tx:          cfg.Tx,
		auctionRepo: cfg.AuctionRepo,
		refundRepo:  cfg.RefundRepo,
		eventRepo:   cfg.EventRepo,
		registries:  cfg.Registries,
		payer:       cfg.Payer,
		met:         metrics.New("auction"),
	}
}

// run executes fn as one atomic call. Any error discards every write fn made.
func (e *engine) run(c ctx.Ctx, op string, fields log.Fields, fn func(ctx.Ctx) error) error {
	defer e.met.BumpTime("op.time", "op", op).End()
	fields["op"] = op
	c = ctx.WithFields(c, fields)

	err := e.tx.RunWithTransaction(c, fn)
	switch {
	case err == nil:
		e.met.BumpSum("op.ok", 1, "op", op)
	case auction.IsAbort(err):
		e.met.BumpSum("op.abort", 1, "op", op, "kind", auction.KindOf(err).String())
		c.WithField("err", err).Warn("call aborted")
	default:
		e.met.BumpSum("op.err", 1, "op", op)
		c.WithField("err", err).Error("call failed")
	}
	return err
}

func msgFields(msg auction.Msg) log.Fields {
	return log.Fields{
		"sender": msg.Sender,
		"value":  msg.Value,
		"block":  msg.Block,
	}
}

func checkMsg(msg *auction.Msg, payable bool) error {
	if msg.Sender.IsZero() {
		return auction.ErrInvalidSender
	}
	if !payable && msg.Value != 0 {
		return auction.ErrNotPayable
	}
	msg.Sender = msg.Sender.ToLower()
	return nil
}

func (e *engine) registry(c ctx.Ctx, contract domain.Address) (auction.AssetRegistry, error) {
	reg, err := e.registries.Registry(c, contract)
	if err != nil {
		c.WithField("err", err).Error("registries.Registry failed")
		return nil, err
	}
	return reg, nil
}

// credit adds amount to addr's refund balance.
func (e *engine) credit(c ctx.Ctx, addr domain.Address, amount uint64) error {
	bal, err := e.refundRepo.Get(c, addr)
	if err != nil {
		c.WithField("err", err).Error("refundRepo.Get failed")
		return err
	}
	if bal > math.MaxUint64-amount {
		return xerrors.Errorf("refund balance of %s: %w", addr, auction.ErrOverflow)
	}
	if err := e.refundRepo.Set(c, addr, bal+amount); err != nil {
		c.WithField("err", err).Error("refundRepo.Set failed")
		return err
	}
	return nil
}

func (e *engine) emit(c ctx.Ctx, ev *auction.Event) error {
	if _, err := e.eventRepo.Append(c, ev); err != nil {
		c.WithFields(log.Fields{"err": err, "type": ev.Type}).Error("eventRepo.Append failed")
		return err
	}
	return nil
}

func (e *engine) Auction(c ctx.Ctx, msg auction.Msg, contract domain.Address, assetId uint64, startingPrice uint64, duration uint64) error {
	contract = contract.ToLower()
	fields := msgFields(msg)
	fields["contract"], fields["assetId"] = contract, assetId

	return e.run(c, "auction", fields, func(c ctx.Ctx) error {
		if err := checkMsg(&msg, false); err != nil {
			return err
		}

		reg, err := e.registry(c, contract)
		if err != nil {
			return err
		}
		owner, err := reg.GetOwner(c, assetId)
		if err != nil {
			c.WithField("err", err).Error("registry.GetOwner failed")
			return err
		}
		owner = owner.ToLower()
		if owner.Equals(e.address) {
			return auction.ErrAlreadyInAuction
		}
		if !owner.Equals(msg.Sender) {
			approved, err := reg.IsApprovedForAll(c, owner, msg.Sender)
			if err != nil {
				c.WithField("err", err).Error("registry.IsApprovedForAll failed")
				return err
			}
			if !approved {
				return auction.ErrNotOwnerOrApproved
			}
		}

		// an open record still holds the previous auction's highest bid
		id := auction.Id{Contract: contract, AssetId: assetId}
		if cur, err := e.auctionRepo.FindOne(c, id); err == nil && !cur.Ended {
			return auction.ErrAlreadyInAuction
		} else if err != nil && !errors.Is(err, auction.ErrAuctionNotFound) {
			c.WithField("err", err).Error("auctionRepo.FindOne failed")
			return err
		}

		if uint64(msg.Block) > math.MaxUint64-duration {
			return xerrors.Errorf("end block %d+%d: %w", msg.Block, duration, auction.ErrOverflow)
		}
		endBlock := msg.Block + domain.BlockNumber(duration)

		ok, err := reg.TransferFrom(c, owner, e.address, assetId)
		if err != nil {
			c.WithField("err", err).Error("registry.TransferFrom failed")
			return err
		} else if !ok {
			return auction.ErrCustodyTransferFail
		}

		a := &auction.Auction{
			Contract:      contract,
			AssetId:       assetId,
			Seller:        owner,
			EndBlock:      endBlock,
			StartingPrice: startingPrice,
			HighestBid:    0,
			HighestBidder: domain.EmptyAddress,
			Ended:         false,
		}
		if err := e.auctionRepo.Upsert(c, a); err != nil {
			c.WithField("err", err).Error("auctionRepo.Upsert failed")
			return err
		}

		return e.emit(c, &auction.Event{
			Type:          auction.EventAuctionStarted,
			Contract:      contract,
			AssetId:       assetId,
			Block:         msg.Block,
			Seller:        owner,
			EndBlock:      endBlock,
			StartingPrice: startingPrice,
		})
	})
}

func (e *engine) Bid(c ctx.Ctx, msg auction.Msg, contract domain.Address, assetId uint64) error {
	contract = contract.ToLower()
	fields := msgFields(msg)
	fields["contract"], fields["assetId"] = contract, assetId

	return e.run(c, "bid", fields, func(c ctx.Ctx) error {
		if err := checkMsg(&msg, true); err != nil {
			return err
		}

		a, err := e.auctionRepo.FindOne(c, auction.Id{Contract: contract, AssetId: assetId})
		if err != nil {
			return err
		}
		if !a.Accepting(msg.Block) {
			return auction.ErrAuctionClosed
		}
		if msg.Value <= a.HighestBid || msg.Value < a.StartingPrice {
			return auction.ErrBidTooLow
		}

		if a.HasBid() {
			if err := e.credit(c, a.HighestBidder, a.HighestBid); err != nil {
				return err
			}
		}
		a.HighestBid = msg.Value
		a.HighestBidder = msg.Sender
		if err := e.auctionRepo.Upsert(c, a); err != nil {
			c.WithField("err", err).Error("auctionRepo.Upsert failed")
			return err
		}

		return e.emit(c, &auction.Event{
			Type:     auction.EventHighestBidUpdated,
			Contract: contract,
			AssetId:  assetId,
			Block:    msg.Block,
			Bidder:   msg.Sender,
			Bid:      msg.Value,
		})
	})
}

func (e *engine) Refund(c ctx.Ctx, msg auction.Msg) (bool, error) {
	paid := false
	err := e.run(c, "refund", msgFields(msg), func(c ctx.Ctx) error {
		paid = false
		if err := checkMsg(&msg, false); err != nil {
			return err
		}

		bal, err := e.refundRepo.Get(c, msg.Sender)
		if err != nil {
			c.WithField("err", err).Error("refundRepo.Get failed")
			return err
		}
		if bal == 0 {
			return auction.ErrNoRefund
		}

		// zeroed before the payout so a reentrant Refund finds nothing to withdraw
		if err := e.refundRepo.Set(c, msg.Sender, 0); err != nil {
			c.WithField("err", err).Error("refundRepo.Set failed")
			return err
		}

		ok, err := e.payer.Send(c, msg.Sender, bal)
		if err != nil {
			c.WithField("err", err).Error("payer.Send failed")
			return err
		}
		if !ok {
			// add back rather than overwrite: a reentrant Bid may have credited meanwhile
			e.met.BumpSum("refund.payout_failed", 1)
			c.WithField("amount", bal).Warn("refund payout rejected, balance restored")
			return e.credit(c, msg.Sender, bal)
		}
		paid = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return paid, nil
}

func (e *engine) AuctionEnd(c ctx.Ctx, msg auction.Msg, contract domain.Address, assetId uint64) error {
	contract = contract.ToLower()
	fields := msgFields(msg)
	fields["contract"], fields["assetId"] = contract, assetId

	return e.run(c, "auctionEnd", fields, func(c ctx.Ctx) error {
		if err := checkMsg(&msg, false); err != nil {
			return err
		}

		a, err := e.auctionRepo.FindOne(c, auction.Id{Contract: contract, AssetId: assetId})
		if err != nil {
			return err
		}
		if msg.Block < a.EndBlock {
			return auction.ErrAuctionNotYetEnded
		}
		if a.Ended {
			return auction.ErrAlreadyEnded
		}

		// persisted before any external call so a reentrant AuctionEnd is rejected
		a.Ended = true
		if err := e.auctionRepo.Upsert(c, a); err != nil {
			c.WithField("err", err).Error("auctionRepo.Upsert failed")
			return err
		}

		reg, err := e.registry(c, contract)
		if err != nil {
			return err
		}

		recipient := a.Seller
		if a.HasBid() {
			ok, err := e.payer.Send(c, a.Seller, a.HighestBid)
			if err != nil {
				c.WithField("err", err).Error("payer.Send failed")
				return err
			} else if !ok {
				return auction.ErrSellerPayoutFail
			}
			recipient = a.HighestBidder
		}

		ok, err := reg.SafeTransferFrom(c, e.address, recipient, assetId)
		if err != nil {
			c.WithField("err", err).Error("registry.SafeTransferFrom failed")
			return err
		} else if !ok {
			return auction.ErrCustodyTransferFail
		}

		e.met.BumpSum("auction.settled", 1, "sold", strconv.FormatBool(a.HasBid()))
		return e.emit(c, &auction.Event{
			Type:          auction.EventAuctionEnded,
			Contract:      contract,
			AssetId:       assetId,
			Block:         msg.Block,
			HighestBidder: a.HighestBidder,
			HighestBid:    a.HighestBid,
		})
	})
}

func (e *engine) Bounce(c ctx.Ctx, msg auction.Msg) error {
	if msg.Value == 0 {
		return nil
	}
	return e.run(c, "bounce", msgFields(msg), func(c ctx.Ctx) error {
		if msg.Sender.IsZero() {
			return auction.ErrInvalidSender
		}
		return e.credit(c, msg.Sender.ToLower(), msg.Value)
	})
}

func (e *engine) GetAuctionInfo(c ctx.Ctx, contract domain.Address, assetId uint64) (*auction.Auction, error) {
	return e.auctionRepo.FindOne(c, auction.Id{Contract: contract.ToLower(), AssetId: assetId})
}

func (e *engine) GetRefund(c ctx.Ctx, addr domain.Address) (uint64, error) {
	return e.refundRepo.Get(c, addr.ToLower())
}

func (e *engine) FindAuctions(c ctx.Ctx, opts ...auction.FindAllOptionsFunc) ([]auction.Auction, error) {
	return e.auctionRepo.FindAll(c, opts...)
}

func (e *engine) FindEvents(c ctx.Ctx, opts ...auction.FindEventsOptionsFunc) ([]auction.Event, error) {
	return e.eventRepo.FindAll(c, opts...)
}
