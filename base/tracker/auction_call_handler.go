package tracker

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/xerrors"

	baseabi "github.com/x-xyz/auctionhouse/base/abi"
	bCtx "github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain/auction"
)

var ErrUnknownCall = errors.New("unknown escrow call")

// AuctionCallHandler decodes escrow calls with the auction house ABI and runs
// them on the engine.
type AuctionCallHandler struct {
	auction auction.UseCase
}

func NewAuctionCallHandler(u auction.UseCase) *AuctionCallHandler {
	return &AuctionCallHandler{auction: u}
}

func toMsg(call *Call) auction.Msg {
	return auction.Msg{
		Sender: call.From,
		Value:  call.Value,
		Block:  call.Block,
	}
}

func (h *AuctionCallHandler) Handle(ctx bCtx.Ctx, call *Call) error {
	if len(call.Data) < 4 {
		return ErrUnknownCall
	}
	method, err := baseabi.AuctionHouseABI.MethodById(call.Data[:4])
	if err != nil {
		return xerrors.Errorf("%w: %v", ErrUnknownCall, err)
	}
	args, err := method.Inputs.Unpack(call.Data[4:])
	if err != nil {
		return xerrors.Errorf("%w: %s: %v", ErrUnknownCall, method.Name, err)
	}

	msg := toMsg(call)
	switch method.Name {
	case "auction":
		contract := toDomainAddress(args[0].(common.Address))
		return h.auction.Auction(ctx, msg, contract, args[1].(uint64), args[2].(uint64), args[3].(uint64))
	case "bid":
		return h.auction.Bid(ctx, msg, toDomainAddress(args[0].(common.Address)), args[1].(uint64))
	case "refund":
		ok, err := h.auction.Refund(ctx, msg)
		if err == nil && !ok {
			ctx.WithField("sender", msg.Sender).Warn("refund payout rejected, balance kept")
		}
		return err
	case "auctionEnd":
		return h.auction.AuctionEnd(ctx, msg, toDomainAddress(args[0].(common.Address)), args[1].(uint64))
	}
	return xerrors.Errorf("%w: %s", ErrUnknownCall, method.Name)
}

func (h *AuctionCallHandler) Rejected(err error) bool {
	return errors.Is(err, ErrUnknownCall) || auction.IsAbort(err)
}

func (h *AuctionCallHandler) Reject(ctx bCtx.Ctx, call *Call) error {
	if call.Value == 0 {
		return nil
	}
	return h.auction.Bounce(ctx, toMsg(call))
}
