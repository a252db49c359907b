package auction

import (
	"errors"
	"fmt"

	"github.com/x-xyz/auctionhouse/domain"
)

var (
	ErrNotPayable          = errors.New("operation does not accept value")
	ErrInvalidSender       = errors.New("invalid sender")
	ErrAlreadyInAuction    = errors.New("asset already in auction")
	ErrNotOwnerOrApproved  = errors.New("caller is neither owner nor approved operator")
	ErrAuctionClosed       = errors.New("auction no longer accepts bids")
	ErrAuctionNotYetEnded  = errors.New("auction not yet ended")
	ErrAlreadyEnded        = errors.New("auction already ended")
	ErrBidTooLow           = errors.New("bid too low")
	ErrNoRefund            = errors.New("no refund available")
	ErrAuctionNotFound     = fmt.Errorf("auction %w", domain.ErrNotFound)
	ErrOverflow            = errors.New("arithmetic overflow")
	ErrCustodyTransferFail = errors.New("asset custody transfer failed")
	ErrSellerPayoutFail    = errors.New("seller payout failed")
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindPreconditionViolation
	KindExternalCustodyFailure
	KindExternalPayoutFailure
	KindArithmeticOverflow
)

func (k ErrorKind) String() string {
	switch k {
	case KindPreconditionViolation:
		return "precondition"
	case KindExternalCustodyFailure:
		return "custody"
	case KindExternalPayoutFailure:
		return "payout"
	case KindArithmeticOverflow:
		return "overflow"
	}
	return "internal"
}

var preconditions = []error{
	ErrNotPayable,
	ErrInvalidSender,
	ErrAlreadyInAuction,
	ErrNotOwnerOrApproved,
	ErrAuctionClosed,
	ErrAuctionNotYetEnded,
	ErrAlreadyEnded,
	ErrBidTooLow,
	ErrNoRefund,
	ErrAuctionNotFound,
}

// KindOf classifies an error returned by the engine.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindInternal
	}
	for _, e := range preconditions {
		if errors.Is(err, e) {
			return KindPreconditionViolation
		}
	}
	switch {
	case errors.Is(err, ErrCustodyTransferFail):
		return KindExternalCustodyFailure
	case errors.Is(err, ErrSellerPayoutFail):
		return KindExternalPayoutFailure
	case errors.Is(err, ErrOverflow):
		return KindArithmeticOverflow
	}
	return KindInternal
}

// IsAbort reports whether err is a rejection by the auction rules or by an
// external collaborator, as opposed to an infrastructure failure that is
// worth retrying.
func IsAbort(err error) bool {
	return err != nil && KindOf(err) != KindInternal
}
