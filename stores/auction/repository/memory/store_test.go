package memory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/auction"
)

var errAbort = errors.New("abort")

type counter struct {
	n int
}

func (c *counter) Snapshot() interface{} {
	return c.n
}

func (c *counter) Restore(v interface{}) {
	c.n = v.(int)
}

type StoreTestSuite struct {
	suite.Suite
	ctx   ctx.Ctx
	store *Store
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = ctx.Background()
	s.store = New()
}

func (s *StoreTestSuite) TestRefundDefaultsToZero() {
	amount, err := s.store.Refunds().Get(s.ctx, "0xabc")
	s.Require().NoError(err)
	s.Equal(uint64(0), amount)

	s.Require().NoError(s.store.Refunds().Set(s.ctx, "0xABC", 10))
	amount, err = s.store.Refunds().Get(s.ctx, "0xabc")
	s.Require().NoError(err)
	s.Equal(uint64(10), amount)
	s.Equal(uint64(10), s.store.TotalRefunds(s.ctx))
}

func (s *StoreTestSuite) TestAuctionNotFound() {
	_, err := s.store.Auctions().FindOne(s.ctx, auction.Id{Contract: "0x1", AssetId: 1})
	s.True(errors.Is(err, auction.ErrAuctionNotFound))
	s.True(errors.Is(err, domain.ErrNotFound))
}

func (s *StoreTestSuite) TestRollback() {
	j := &counter{}
	s.store.Attach(j)

	err := s.store.RunWithTransaction(s.ctx, func(c ctx.Ctx) error {
		j.n = 5
		s.Require().NoError(s.store.Auctions().Upsert(c, &auction.Auction{Contract: "0x1", AssetId: 1, HighestBid: 3}))
		s.Require().NoError(s.store.Refunds().Set(c, "0xa", 7))
		_, err := s.store.Events().Append(c, &auction.Event{Type: auction.EventAuctionStarted})
		s.Require().NoError(err)
		return errAbort
	})
	s.Equal(errAbort, err)

	s.Equal(0, j.n)
	_, err = s.store.Auctions().FindOne(s.ctx, auction.Id{Contract: "0x1", AssetId: 1})
	s.Error(err)
	s.Equal(uint64(0), s.store.TotalRefunds(s.ctx))
	events, err := s.store.Events().FindAll(s.ctx)
	s.Require().NoError(err)
	s.Len(events, 0)
}

func (s *StoreTestSuite) TestNestedRollbackKeepsOuterWrites() {
	err := s.store.RunWithTransaction(s.ctx, func(c ctx.Ctx) error {
		s.Require().NoError(s.store.Refunds().Set(c, "0xa", 1))
		nested := s.store.RunWithTransaction(c, func(c ctx.Ctx) error {
			s.Require().NoError(s.store.Refunds().Set(c, "0xb", 2))
			return errAbort
		})
		s.Equal(errAbort, nested)
		return nil
	})
	s.Require().NoError(err)

	a, _ := s.store.Refunds().Get(s.ctx, "0xa")
	b, _ := s.store.Refunds().Get(s.ctx, "0xb")
	s.Equal(uint64(1), a)
	s.Equal(uint64(0), b)
}

func (s *StoreTestSuite) TestEventsSeqAndFilter() {
	for i := uint64(1); i <= 3; i++ {
		e, err := s.store.Events().Append(s.ctx, &auction.Event{Type: auction.EventHighestBidUpdated, Contract: "0x1", AssetId: i % 2})
		s.Require().NoError(err)
		s.Equal(i, e.Seq)
	}

	events, err := s.store.Events().FindAll(s.ctx, auction.EventWithContract("0x1"), auction.EventWithAssetId(1))
	s.Require().NoError(err)
	s.Len(events, 2)
	s.Equal(uint64(1), events[0].Seq)
	s.Equal(uint64(3), events[1].Seq)

	events, err = s.store.Events().FindAll(s.ctx, auction.EventWithPagination(1, 1))
	s.Require().NoError(err)
	s.Len(events, 1)
	s.Equal(uint64(2), events[0].Seq)

	events, err = s.store.Events().FindAll(s.ctx, auction.EventWithPagination(5, 1))
	s.Require().NoError(err)
	s.Len(events, 0)
}

func (s *StoreTestSuite) TestFindAll() {
	s.Require().NoError(s.store.Auctions().Upsert(s.ctx, &auction.Auction{Contract: "0x1", AssetId: 1, Seller: "0xs", EndBlock: 10}))
	s.Require().NoError(s.store.Auctions().Upsert(s.ctx, &auction.Auction{Contract: "0x1", AssetId: 2, Seller: "0xs", EndBlock: 20, Ended: true}))
	s.Require().NoError(s.store.Auctions().Upsert(s.ctx, &auction.Auction{Contract: "0x1", AssetId: 3, Seller: "0xt", EndBlock: 30, HighestBid: 4}))

	res, err := s.store.Auctions().FindAll(s.ctx, auction.WithSeller("0xS"))
	s.Require().NoError(err)
	s.Len(res, 2)
	s.Equal(uint64(2), res[0].AssetId)

	res, err = s.store.Auctions().FindAll(s.ctx, auction.WithEnded(false), auction.WithPagination(0, 1))
	s.Require().NoError(err)
	s.Len(res, 1)
	s.Equal(uint64(3), res[0].AssetId)

	_, err = s.store.Auctions().FindAll(s.ctx, auction.WithPagination(0, 0))
	s.Equal(domain.ErrBadParamInput, err)

	s.Equal(uint64(4), s.store.OpenBids(s.ctx))
}

func (s *StoreTestSuite) TestTrackerStates() {
	id := &domain.TrackerStateId{ChainId: 1, ContractAddress: "0xe", Tag: domain.DefaultTag}
	_, err := s.store.TrackerStates().Get(s.ctx, id)
	s.Equal(domain.ErrNotFound, err)

	state := &domain.TrackerState{ChainId: 1, ContractAddress: "0xe", Tag: domain.DefaultTag, LastBlockProcessed: 9, LastTxIndexProcessed: -1}
	s.Require().NoError(s.store.TrackerStates().Upsert(s.ctx, state))
	got, err := s.store.TrackerStates().Get(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(state, got)
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
