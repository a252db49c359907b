package usecase

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/auction"
	"github.com/x-xyz/auctionhouse/service/chain/simulated"
	"github.com/x-xyz/auctionhouse/stores/auction/repository/memory"
)

const (
	engineAddr = domain.Address("0x00000000000000000000000000000000000000e0")
	token      = domain.Address("0x00000000000000000000000000000000000000a1")
	owner      = domain.Address("0x0000000000000000000000000000000000000001")
	operator   = domain.Address("0x0000000000000000000000000000000000000002")
	bidder1    = domain.Address("0x00000000000000000000000000000000000000b1")
	bidder2    = domain.Address("0x00000000000000000000000000000000000000b2")
	funds      = uint64(1000)
)

type EngineTestSuite struct {
	suite.Suite
	ctx    ctx.Ctx
	store  *memory.Store
	chain  *simulated.Chain
	engine auction.UseCase
}

func (s *EngineTestSuite) SetupTest() {
	s.ctx = ctx.Background()
	s.store = memory.New()
	s.chain = simulated.New(engineAddr, 1000, s.store)
	s.store.Attach(s.chain)
	s.engine = NewEngine(&EngineCfg{
		Address:     engineAddr,
		Tx:          s.store,
		AuctionRepo: s.store.Auctions(),
		RefundRepo:  s.store.Refunds(),
		EventRepo:   s.store.Events(),
		Registries:  s.chain,
		Payer:       s.chain,
	})

	s.chain.Mint(token, 1, owner)
	for _, addr := range []domain.Address{owner, bidder1, bidder2} {
		s.chain.SetApprovalForAll(token, addr, engineAddr, true)
	}
	s.chain.Fund(bidder1, funds)
	s.chain.Fund(bidder2, funds)
}

func (s *EngineTestSuite) TearDownTest() {
	s.assertConservation()
}

func (s *EngineTestSuite) assertConservation() {
	s.Equal(
		s.chain.Balance(engineAddr),
		s.store.TotalRefunds(s.ctx)+s.store.OpenBids(s.ctx),
		"engine balance must equal refunds plus open bids",
	)
}

func (s *EngineTestSuite) auction(sender domain.Address, value, startingPrice, duration uint64) error {
	msg := s.chain.Msg(sender, value)
	return s.chain.Execute(s.ctx, msg, func(c ctx.Ctx) error {
		return s.engine.Auction(c, msg, token, 1, startingPrice, duration)
	})
}

func (s *EngineTestSuite) bid(sender domain.Address, value uint64) error {
	msg := s.chain.Msg(sender, value)
	return s.chain.Execute(s.ctx, msg, func(c ctx.Ctx) error {
		return s.engine.Bid(c, msg, token, 1)
	})
}

func (s *EngineTestSuite) refund(sender domain.Address, value uint64) (bool, error) {
	msg := s.chain.Msg(sender, value)
	ok := false
	err := s.chain.Execute(s.ctx, msg, func(c ctx.Ctx) error {
		var err error
		ok, err = s.engine.Refund(c, msg)
		return err
	})
	return ok, err
}

func (s *EngineTestSuite) end(sender domain.Address, value uint64) error {
	msg := s.chain.Msg(sender, value)
	return s.chain.Execute(s.ctx, msg, func(c ctx.Ctx) error {
		return s.engine.AuctionEnd(c, msg, token, 1)
	})
}

func (s *EngineTestSuite) record() *auction.Auction {
	a, err := s.engine.GetAuctionInfo(s.ctx, token, 1)
	s.Require().NoError(err)
	return a
}

func (s *EngineTestSuite) refundOf(addr domain.Address) uint64 {
	amount, err := s.engine.GetRefund(s.ctx, addr)
	s.Require().NoError(err)
	return amount
}

func (s *EngineTestSuite) events() []auction.Event {
	events, err := s.engine.FindEvents(s.ctx, auction.EventWithContract(token), auction.EventWithAssetId(1))
	s.Require().NoError(err)
	return events
}

// startAuction opens the auction of the scenario: block 1000, price 100, duration 50.
func (s *EngineTestSuite) startAuction() {
	s.chain.SetBlock(1000)
	s.Require().NoError(s.auction(owner, 0, 100, 50))
}

func (s *EngineTestSuite) TestScenario() {
	s.startAuction()
	s.Equal(&auction.Auction{
		Contract:      token,
		AssetId:       1,
		Seller:        owner,
		EndBlock:      1050,
		StartingPrice: 100,
		HighestBid:    0,
		HighestBidder: domain.EmptyAddress,
		Ended:         false,
	}, s.record())
	s.Equal(engineAddr, s.chain.OwnerOf(token, 1))

	s.chain.SetBlock(1010)
	s.Require().NoError(s.bid(bidder1, 150))
	s.Equal(uint64(150), s.record().HighestBid)
	s.Equal(bidder1, s.record().HighestBidder)

	s.chain.SetBlock(1020)
	s.Require().NoError(s.bid(bidder2, 200))
	s.Equal(uint64(200), s.record().HighestBid)
	s.Equal(bidder2, s.record().HighestBidder)
	s.Equal(uint64(150), s.refundOf(bidder1))
	s.assertConservation()

	s.chain.SetBlock(1051)
	s.Require().NoError(s.end(bidder1, 0))
	s.Equal(uint64(200), s.chain.Balance(owner))
	s.Equal(bidder2, s.chain.OwnerOf(token, 1))
	s.True(s.record().Ended)

	events := s.events()
	s.Require().Len(events, 4)
	s.Equal(auction.EventAuctionStarted, events[0].Type)
	s.Equal(domain.BlockNumber(1050), events[0].EndBlock)
	s.Equal(owner, events[0].Seller)
	s.Equal(uint64(100), events[0].StartingPrice)
	s.Equal(auction.EventHighestBidUpdated, events[1].Type)
	s.Equal(auction.EventHighestBidUpdated, events[2].Type)
	s.Equal(bidder2, events[2].Bidder)
	s.Equal(auction.EventAuctionEnded, events[3].Type)
	s.Equal(bidder2, events[3].HighestBidder)
	s.Equal(uint64(200), events[3].HighestBid)

	s.chain.SetBlock(1052)
	err := s.end(bidder2, 0)
	s.True(errors.Is(err, auction.ErrAlreadyEnded))
	s.Equal(auction.KindPreconditionViolation, auction.KindOf(err))
	s.Len(s.events(), 4)
	s.Equal(uint64(200), s.chain.Balance(owner))
	s.Equal(bidder2, s.chain.OwnerOf(token, 1))

	ok, err := s.refund(bidder1, 0)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(funds, s.chain.Balance(bidder1))
	s.Equal(uint64(0), s.refundOf(bidder1))
	s.Equal(uint64(0), s.chain.Balance(engineAddr))
}

func (s *EngineTestSuite) TestNoBid() {
	s.startAuction()
	s.chain.SetBlock(1050)
	s.Require().NoError(s.end(operator, 0))

	s.Equal(owner, s.chain.OwnerOf(token, 1))
	s.True(s.record().Ended)
	events := s.events()
	s.Require().Len(events, 2)
	s.Equal(auction.EventAuctionEnded, events[1].Type)
	s.Equal(domain.EmptyAddress, events[1].HighestBidder)
	s.Equal(uint64(0), events[1].HighestBid)
}

func (s *EngineTestSuite) TestAuctionByOperator() {
	s.Equal(auction.ErrNotOwnerOrApproved, s.auction(operator, 0, 100, 50))
	_, err := s.engine.GetAuctionInfo(s.ctx, token, 1)
	s.True(errors.Is(err, domain.ErrNotFound))

	s.chain.SetApprovalForAll(token, owner, operator, true)
	s.Require().NoError(s.auction(operator, 0, 100, 50))
	s.Equal(owner, s.record().Seller)
	s.Equal(engineAddr, s.chain.OwnerOf(token, 1))
}

func (s *EngineTestSuite) TestAuctionAlreadyInAuction() {
	s.startAuction()
	s.Equal(auction.ErrAlreadyInAuction, s.auction(owner, 0, 1, 1))
	s.Len(s.events(), 1)
}

func (s *EngineTestSuite) TestAuctionUnknownAsset() {
	msg := s.chain.Msg(owner, 0)
	err := s.chain.Execute(s.ctx, msg, func(c ctx.Ctx) error {
		return s.engine.Auction(c, msg, token, 42, 1, 1)
	})
	s.Equal(auction.ErrNotOwnerOrApproved, err)
}

func (s *EngineTestSuite) TestNotPayable() {
	s.chain.Fund(owner, 10)
	s.Equal(auction.ErrNotPayable, s.auction(owner, 10, 100, 50))
	s.Equal(uint64(10), s.chain.Balance(owner))
	s.Equal(owner, s.chain.OwnerOf(token, 1))

	s.startAuction()
	s.chain.SetBlock(1010)
	s.Require().NoError(s.bid(bidder1, 150))
	s.chain.SetBlock(1020)
	s.Require().NoError(s.bid(bidder2, 200))

	_, err := s.refund(bidder1, 1)
	s.Equal(auction.ErrNotPayable, err)
	s.Equal(uint64(150), s.refundOf(bidder1))

	s.chain.SetBlock(1050)
	s.Equal(auction.ErrNotPayable, s.end(bidder1, 1))
	s.False(s.record().Ended)
	s.Equal(funds-150, s.chain.Balance(bidder1))
}

func (s *EngineTestSuite) TestInvalidSender() {
	s.Equal(auction.ErrInvalidSender, s.engine.Auction(s.ctx, auction.Msg{Block: 1000}, token, 1, 1, 1))
}

func (s *EngineTestSuite) TestEndBlockOverflow() {
	s.chain.SetBlock(10)
	err := s.auction(owner, 0, 100, math.MaxUint64-9)
	s.True(errors.Is(err, auction.ErrOverflow))
	s.Equal(auction.KindArithmeticOverflow, auction.KindOf(err))
	s.Equal(owner, s.chain.OwnerOf(token, 1))
	s.Len(s.events(), 0)

	s.Require().NoError(s.auction(owner, 0, 100, math.MaxUint64-10))
	s.Equal(domain.BlockNumber(math.MaxUint64), s.record().EndBlock)
}

func (s *EngineTestSuite) TestAuctionCustodyFailure() {
	s.chain.FailTransfers(token, true)
	err := s.auction(owner, 0, 100, 50)
	s.Equal(auction.ErrCustodyTransferFail, err)
	s.Equal(auction.KindExternalCustodyFailure, auction.KindOf(err))
	_, err = s.engine.GetAuctionInfo(s.ctx, token, 1)
	s.True(errors.Is(err, auction.ErrAuctionNotFound))
	s.Len(s.events(), 0)
}

func (s *EngineTestSuite) TestBidRules() {
	s.Equal(auction.ErrAuctionNotFound, s.bid(bidder1, 150))

	s.startAuction()
	s.Equal(auction.ErrBidTooLow, s.bid(bidder1, 99))
	s.Require().NoError(s.bid(bidder1, 100))
	s.Equal(auction.ErrBidTooLow, s.bid(bidder2, 100))
	s.Equal(funds, s.chain.Balance(bidder2))

	s.chain.SetBlock(1050)
	s.Equal(auction.ErrAuctionClosed, s.bid(bidder2, 500))
	s.Equal(bidder1, s.record().HighestBidder)
	s.Equal(funds, s.chain.Balance(bidder2))
}

func (s *EngineTestSuite) TestBidAfterEnded() {
	s.startAuction()
	s.chain.SetBlock(1050)
	s.Require().NoError(s.end(owner, 0))
	s.Equal(auction.ErrAuctionClosed, s.bid(bidder1, 500))
}

func (s *EngineTestSuite) TestAuctionEndRules() {
	s.Equal(auction.ErrAuctionNotFound, s.end(owner, 0))

	s.startAuction()
	s.chain.SetBlock(1049)
	s.Equal(auction.ErrAuctionNotYetEnded, s.end(owner, 0))
	s.False(s.record().Ended)
}

func (s *EngineTestSuite) TestRefundNothing() {
	_, err := s.refund(bidder1, 0)
	s.Equal(auction.ErrNoRefund, err)
}

func (s *EngineTestSuite) TestRefundPayoutFailure() {
	s.startAuction()
	s.Require().NoError(s.bid(bidder1, 150))
	s.Require().NoError(s.bid(bidder2, 200))

	s.chain.FailSendTo(bidder1, true)
	ok, err := s.refund(bidder1, 0)
	s.Require().NoError(err)
	s.False(ok)
	s.Equal(uint64(150), s.refundOf(bidder1))
	s.Equal(funds-150, s.chain.Balance(bidder1))
	s.assertConservation()

	s.chain.FailSendTo(bidder1, false)
	ok, err = s.refund(bidder1, 0)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(uint64(0), s.refundOf(bidder1))
	s.Equal(funds, s.chain.Balance(bidder1))
}

func (s *EngineTestSuite) TestSellerPayoutFailure() {
	s.startAuction()
	s.Require().NoError(s.bid(bidder1, 150))
	s.chain.SetBlock(1050)

	s.chain.FailSendTo(owner, true)
	err := s.end(bidder1, 0)
	s.Equal(auction.ErrSellerPayoutFail, err)
	s.Equal(auction.KindExternalPayoutFailure, auction.KindOf(err))
	s.False(s.record().Ended)
	s.Equal(engineAddr, s.chain.OwnerOf(token, 1))
	s.Equal(uint64(150), s.chain.Balance(engineAddr))
	s.Len(s.events(), 2)

	s.chain.FailSendTo(owner, false)
	s.Require().NoError(s.end(bidder1, 0))
	s.Equal(uint64(150), s.chain.Balance(owner))
	s.Equal(bidder1, s.chain.OwnerOf(token, 1))
}

func (s *EngineTestSuite) TestSettlementCustodyFailure() {
	s.startAuction()
	s.Require().NoError(s.bid(bidder1, 150))
	s.chain.SetBlock(1050)

	s.chain.RejectSafeReceive(bidder1, true)
	s.Equal(auction.ErrCustodyTransferFail, s.end(owner, 0))
	s.False(s.record().Ended)
	s.Equal(uint64(0), s.chain.Balance(owner))
	s.Equal(engineAddr, s.chain.OwnerOf(token, 1))
}

func (s *EngineTestSuite) TestMonotonicBidding() {
	s.startAuction()
	r := rand.New(rand.NewSource(7))
	bidders := []domain.Address{bidder1, bidder2, operator}
	s.chain.Fund(operator, funds)

	last, lastBidder := uint64(0), domain.EmptyAddress
	for i := 0; i < 200; i++ {
		sender := bidders[r.Intn(len(bidders))]
		value := uint64(r.Intn(400))
		err := s.bid(sender, value)
		if err == nil {
			s.Greater(value, last)
			last, lastBidder = value, sender
		} else {
			s.True(errors.Is(err, auction.ErrBidTooLow) || errors.Is(err, simulated.ErrInsufficientFunds), err)
		}
		s.Equal(last, s.record().HighestBid)
		s.Equal(lastBidder, s.record().HighestBidder)
		s.assertConservation()
	}
}

func (s *EngineTestSuite) TestReentrantRefund() {
	s.startAuction()
	s.Require().NoError(s.bid(bidder1, 150))
	s.Require().NoError(s.bid(bidder2, 200))

	var reentered []error
	s.chain.OnSend(func(c ctx.Ctx, to domain.Address, amount uint64) error {
		if to != bidder1 {
			return nil
		}
		msg := s.chain.Msg(bidder1, 0)
		_, err := s.engine.Refund(c, msg)
		reentered = append(reentered, err)
		return nil
	})

	ok, err := s.refund(bidder1, 0)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal([]error{auction.ErrNoRefund}, reentered)
	s.Equal(funds, s.chain.Balance(bidder1))
	s.Equal(uint64(0), s.refundOf(bidder1))
}

func (s *EngineTestSuite) TestReentrantRefundRejected() {
	s.startAuction()
	s.Require().NoError(s.bid(bidder1, 150))
	s.Require().NoError(s.bid(bidder2, 200))

	// the recipient re-enters, outbids and then rejects the payout
	s.chain.OnSend(func(c ctx.Ctx, to domain.Address, amount uint64) error {
		if to != bidder1 {
			return nil
		}
		s.Equal(auction.ErrNoRefund, func() error {
			_, err := s.engine.Refund(c, s.chain.Msg(bidder1, 0))
			return err
		}())
		return errors.New("fallback reverted")
	})

	ok, err := s.refund(bidder1, 0)
	s.Require().NoError(err)
	s.False(ok)
	s.Equal(uint64(150), s.refundOf(bidder1))
	s.Equal(funds-150, s.chain.Balance(bidder1))
}

func (s *EngineTestSuite) TestReentrantAuctionEnd() {
	s.startAuction()
	s.Require().NoError(s.bid(bidder1, 150))
	s.chain.SetBlock(1050)

	var reentered []error
	s.chain.OnSend(func(c ctx.Ctx, to domain.Address, amount uint64) error {
		msg := s.chain.Msg(to, 0)
		reentered = append(reentered, s.engine.AuctionEnd(c, msg, token, 1))
		bid := s.chain.Msg(bidder2, 0)
		bid.Value = 300
		reentered = append(reentered, s.engine.Bid(c, bid, token, 1))
		return nil
	})
	s.chain.OnTransfer(func(c ctx.Ctx, contract, from, to domain.Address, assetId uint64) error {
		reentered = append(reentered, s.engine.AuctionEnd(c, s.chain.Msg(to, 0), token, 1))
		return nil
	})

	s.Require().NoError(s.end(owner, 0))
	s.Equal([]error{auction.ErrAlreadyEnded, auction.ErrAuctionClosed, auction.ErrAlreadyEnded}, reentered)
	s.Equal(uint64(150), s.chain.Balance(owner))
	s.Equal(bidder1, s.chain.OwnerOf(token, 1))
	s.Len(s.events(), 3)
}

func (s *EngineTestSuite) TestBounce() {
	msg := s.chain.Msg(bidder1, 25)
	s.Require().NoError(s.chain.Execute(s.ctx, msg, func(c ctx.Ctx) error {
		return s.engine.Bounce(c, msg)
	}))
	s.Equal(uint64(25), s.refundOf(bidder1))
	s.Require().NoError(s.engine.Bounce(s.ctx, s.chain.Msg(bidder1, 0)))

	ok, err := s.refund(bidder1, 0)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(funds, s.chain.Balance(bidder1))
}

func (s *EngineTestSuite) TestReauction() {
	s.startAuction()
	s.Require().NoError(s.bid(bidder1, 150))
	s.chain.SetBlock(1050)
	s.Require().NoError(s.end(owner, 0))

	s.Require().NoError(s.auction(bidder1, 0, 10, 5))
	s.Equal(bidder1, s.record().Seller)
	s.False(s.record().Ended)
	s.Equal(domain.BlockNumber(1055), s.record().EndBlock)

	started, err := s.engine.FindEvents(s.ctx, auction.EventWithType(auction.EventAuctionStarted))
	s.Require().NoError(err)
	s.Len(started, 2)

	open, err := s.engine.FindAuctions(s.ctx, auction.WithSeller(bidder1), auction.WithEnded(false))
	s.Require().NoError(err)
	s.Len(open, 1)
}

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}
