package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	bCtx "github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/validator"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/auction"
	"github.com/x-xyz/auctionhouse/domain/auction/mocks"
	"github.com/x-xyz/auctionhouse/service/cache"
	"github.com/x-xyz/auctionhouse/service/cache/provider/local"
)

type fixedBlock uint64

func (b fixedBlock) BlockNumber(context.Context) (uint64, error) {
	return uint64(b), nil
}

const (
	contract = domain.Address("0x71c4658acc7b53ee814a29ce31100ff85ca23ca7")
	seller   = domain.Address("0x94ead797046c7b654cab82c1c27ad223b6501f1f")
	bidder   = domain.Address("0x939ae6a4c8dfdbb1f7085189574f0a938013952b")
)

type response struct {
	Data   json.RawMessage `json:"data"`
	Status string          `json:"status"`
}

type HandlerTestSuite struct {
	suite.Suite

	e       *echo.Echo
	usecase *mocks.UseCase
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	s.e = echo.New()
	s.e.Validator = validator.New()
	s.e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("ctx", bCtx.Background())
			return next(c)
		}
	})
	s.usecase = new(mocks.UseCase)
	newCache := func(prefix string) cache.Service {
		return cache.New(cache.ServiceConfig{Ttl: time.Minute, Prefix: prefix, Cache: local.New(1)})
	}
	New(s.e, &HandlerCfg{
		Auction:      s.usecase,
		CurrentBlock: fixedBlock(120),
		RecordCache:  newCache("record"),
		ListCache:    newCache("list"),
	})
}

func (s *HandlerTestSuite) do(target string, container interface{}) int {
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	res := response{}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &res))
	if container != nil {
		s.Require().NoError(json.Unmarshal(res.Data, container))
	}
	return rec.Code
}

func (s *HandlerTestSuite) TestGetAuction() {
	record := &auction.Auction{
		Contract:      contract,
		AssetId:       1,
		Seller:        seller,
		EndBlock:      150,
		StartingPrice: 100,
		HighestBid:    1_500_000_000,
		HighestBidder: bidder,
	}
	s.usecase.On("GetAuctionInfo", mock.Anything, contract, uint64(1)).Return(record, nil).Once()

	for i := 0; i < 2; i++ {
		view := AuctionView{}
		s.Equal(http.StatusOK, s.do("/auctions/"+string(contract)+"/1", &view))
		s.Equal(*record, view.Auction)
		s.Equal("1.5", view.DisplayHighestBid)
		s.Equal("0.0000001", view.DisplayStartingPrice)
		s.Equal(StatusOpen, view.Status)
		s.Equal(uint64(120), view.CurrentBlock)
	}
	s.usecase.AssertExpectations(s.T())
}

func (s *HandlerTestSuite) TestGetAuctionNotFound() {
	s.usecase.On("GetAuctionInfo", mock.Anything, contract, uint64(2)).Return(nil, auction.ErrAuctionNotFound)
	s.Equal(http.StatusNotFound, s.do("/auctions/"+string(contract)+"/2", nil))
}

func (s *HandlerTestSuite) TestGetAuctionBadParams() {
	s.Equal(http.StatusBadRequest, s.do("/auctions/0x123/1", nil))
	s.Equal(http.StatusBadRequest, s.do("/auctions/"+string(contract)+"/abc", nil))
}

func (s *HandlerTestSuite) TestStatus() {
	a := &auction.Auction{EndBlock: 100}
	s.Equal(StatusOpen, status(a, 99))
	s.Equal(StatusClosing, status(a, 100))
	a.Ended = true
	s.Equal(StatusEnded, status(a, 99))
}

func (s *HandlerTestSuite) TestGetAll() {
	records := []auction.Auction{
		{Contract: contract, AssetId: 1, Seller: seller, EndBlock: 100},
		{Contract: contract, AssetId: 2, Seller: seller, EndBlock: 200, Ended: true},
	}
	s.usecase.On("FindAuctions", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(records, nil).Once()

	views := []AuctionView{}
	s.Equal(http.StatusOK, s.do("/auctions?seller="+string(seller)+"&ended=true&limit=10", &views))
	s.Require().Len(views, 2)
	s.Equal(StatusClosing, views[0].Status)
	s.Equal(StatusEnded, views[1].Status)

	call := s.usecase.Calls[0]
	var opts []auction.FindAllOptionsFunc
	for _, arg := range call.Arguments[1:] {
		opts = append(opts, arg.(auction.FindAllOptionsFunc))
	}
	got, err := auction.GetFindAllOptions(opts...)
	s.Require().NoError(err)
	s.Equal(seller, *got.Seller)
	s.True(*got.Ended)
	s.Equal(0, *got.Offset)
	s.Equal(10, *got.Limit)

	s.Equal(http.StatusBadRequest, s.do("/auctions?limit=-1", nil))
	s.Equal(http.StatusBadRequest, s.do("/auctions?ended=maybe", nil))
}

func (s *HandlerTestSuite) TestGetEvents() {
	events := []auction.Event{
		{Seq: 1, Type: auction.EventAuctionStarted, Contract: contract, AssetId: 1, Seller: seller},
		{Seq: 2, Type: auction.EventHighestBidUpdated, Contract: contract, AssetId: 1, Bidder: bidder, Bid: 10},
	}
	s.usecase.On("FindEvents", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(events, nil).Once()

	got := []auction.Event{}
	s.Equal(http.StatusOK, s.do("/auctions/"+string(contract)+"/1/events", &got))
	s.Equal(events, got)
}

func (s *HandlerTestSuite) TestGetRefund() {
	s.usecase.On("GetRefund", mock.Anything, bidder).Return(uint64(2_000_000_000), nil)

	view := RefundView{}
	s.Equal(http.StatusOK, s.do("/refunds/"+string(bidder), &view))
	s.Equal(RefundView{Address: bidder, Amount: 2_000_000_000, DisplayAmount: "2"}, view)

	s.Equal(http.StatusBadRequest, s.do("/refunds/nope", nil))
}
