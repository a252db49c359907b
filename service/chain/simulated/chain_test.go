package simulated

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/stores/auction/repository/memory"
)

const (
	engineAddr = domain.Address("0x00000000000000000000000000000000000000E0")
	token      = domain.Address("0x00000000000000000000000000000000000000a1")
	alice      = domain.Address("0x0000000000000000000000000000000000000001")
	bob        = domain.Address("0x0000000000000000000000000000000000000002")
)

type ChainTestSuite struct {
	suite.Suite
	ctx   ctx.Ctx
	store *memory.Store
	chain *Chain
}

func (s *ChainTestSuite) SetupTest() {
	s.ctx = ctx.Background()
	s.store = memory.New()
	s.chain = New(engineAddr, 10, s.store)
	s.store.Attach(s.chain)
}

func (s *ChainTestSuite) TestExecuteMovesValue() {
	s.chain.Fund(alice, 100)
	msg := s.chain.Msg(alice, 40)
	s.Equal(domain.BlockNumber(10), msg.Block)

	err := s.chain.Execute(s.ctx, msg, func(ctx.Ctx) error { return nil })
	s.Require().NoError(err)
	s.Equal(uint64(60), s.chain.Balance(alice))
	s.Equal(uint64(40), s.chain.Balance(engineAddr))
}

func (s *ChainTestSuite) TestExecuteAbortReturnsValue() {
	s.chain.Fund(alice, 100)
	abort := errors.New("abort")

	err := s.chain.Execute(s.ctx, s.chain.Msg(alice, 40), func(ctx.Ctx) error { return abort })
	s.Require().ErrorIs(err, abort)
	s.Equal(uint64(100), s.chain.Balance(alice))
	s.Equal(uint64(0), s.chain.Balance(engineAddr))
}

func (s *ChainTestSuite) TestExecuteInsufficientFunds() {
	s.chain.Fund(alice, 10)
	called := false
	err := s.chain.Execute(s.ctx, s.chain.Msg(alice, 11), func(ctx.Ctx) error {
		called = true
		return nil
	})
	s.Require().ErrorIs(err, ErrInsufficientFunds)
	s.False(called)
	s.Equal(uint64(10), s.chain.Balance(alice))
}

func (s *ChainTestSuite) TestTransferGuards() {
	s.chain.Mint(token, 1, alice)
	reg, err := s.chain.Registry(s.ctx, token)
	s.Require().NoError(err)

	ok, err := reg.TransferFrom(s.ctx, alice, bob, 1)
	s.Require().NoError(err)
	s.False(ok, "engine is not an operator of alice")

	s.chain.SetApprovalForAll(token, alice, engineAddr, true)
	approved, err := reg.IsApprovedForAll(s.ctx, alice, engineAddr)
	s.Require().NoError(err)
	s.True(approved)

	ok, err = reg.TransferFrom(s.ctx, bob, alice, 1)
	s.Require().NoError(err)
	s.False(ok, "bob does not own the asset")

	ok, err = reg.TransferFrom(s.ctx, alice, domain.EmptyAddress, 1)
	s.Require().NoError(err)
	s.False(ok)

	ok, err = reg.TransferFrom(s.ctx, alice, bob, 1)
	s.Require().NoError(err)
	s.True(ok)

	got, err := reg.GetOwner(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(bob.ToLower(), got)

	got, err = reg.GetOwner(s.ctx, 2)
	s.Require().NoError(err)
	s.Equal(domain.EmptyAddress, got)
}

func (s *ChainTestSuite) TestSafeTransferRejectedByReceiver() {
	s.chain.Mint(token, 1, engineAddr)
	s.chain.RejectSafeReceive(bob, true)
	reg, err := s.chain.Registry(s.ctx, token)
	s.Require().NoError(err)

	ok, err := reg.SafeTransferFrom(s.ctx, engineAddr, bob, 1)
	s.Require().NoError(err)
	s.False(ok)
	s.Equal(engineAddr.ToLower(), s.chain.OwnerOf(token, 1))

	ok, err = reg.TransferFrom(s.ctx, engineAddr, bob, 1)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(bob.ToLower(), s.chain.OwnerOf(token, 1))
}

func (s *ChainTestSuite) TestFailTransfers() {
	s.chain.Mint(token, 1, engineAddr)
	s.chain.FailTransfers(token, true)
	reg, err := s.chain.Registry(s.ctx, token)
	s.Require().NoError(err)

	ok, err := reg.TransferFrom(s.ctx, engineAddr, bob, 1)
	s.Require().NoError(err)
	s.False(ok)
	s.Equal(engineAddr.ToLower(), s.chain.OwnerOf(token, 1))
}

func (s *ChainTestSuite) TestSend() {
	s.chain.Fund(engineAddr, 50)

	ok, err := s.chain.Send(s.ctx, alice, 20)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(uint64(20), s.chain.Balance(alice))

	ok, err = s.chain.Send(s.ctx, alice, 31)
	s.Require().NoError(err)
	s.False(ok, "engine balance is 30")
	s.Equal(uint64(30), s.chain.Balance(engineAddr))

	s.chain.FailSendTo(bob, true)
	ok, err = s.chain.Send(s.ctx, bob, 1)
	s.Require().NoError(err)
	s.False(ok)
	s.Equal(uint64(0), s.chain.Balance(bob))
}

func (s *ChainTestSuite) TestRejectingHookRollsBackOnlyItsSend() {
	s.chain.Fund(alice, 10)
	s.chain.Fund(engineAddr, 50)
	s.chain.OnSend(func(c ctx.Ctx, to domain.Address, amount uint64) error {
		s.chain.Fund(to, 1000)
		return errors.New("receiver reverted")
	})

	err := s.chain.Execute(s.ctx, s.chain.Msg(alice, 10), func(c ctx.Ctx) error {
		ok, err := s.chain.Send(c, bob, 5)
		s.Require().NoError(err)
		s.False(ok)
		return nil
	})
	s.Require().NoError(err)
	s.Equal(uint64(0), s.chain.Balance(bob))
	s.Equal(uint64(60), s.chain.Balance(engineAddr))
	s.Equal(uint64(0), s.chain.Balance(alice))
}

func TestChainTestSuite(t *testing.T) {
	suite.Run(t, new(ChainTestSuite))
}
