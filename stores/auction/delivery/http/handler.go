package http

import (
	"fmt"
	"math/big"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/delivery"
	eth "github.com/x-xyz/auctionhouse/base/ethereum"
	"github.com/x-xyz/auctionhouse/base/tracker"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/auction"
	"github.com/x-xyz/auctionhouse/middleware"
	"github.com/x-xyz/auctionhouse/service/cache"
)

const (
	StatusOpen    = "open"
	StatusClosing = "closing"
	StatusEnded   = "ended"

	defaultLimit = 50
)

type HandlerCfg struct {
	Auction      auction.UseCase
	CurrentBlock tracker.CurrentBlockProvider
	ValueUnitWei *big.Int
	// RecordCache holds auction records, ListCache whole list responses.
	RecordCache cache.Service
	ListCache   cache.Service
}

type handler struct {
	auction      auction.UseCase
	currentBlock tracker.CurrentBlockProvider
	unit         *big.Int
	records      cache.Service
}

type AuctionView struct {
	auction.Auction
	DisplayStartingPrice string `json:"displayStartingPrice"`
	DisplayHighestBid    string `json:"displayHighestBid"`
	Status               string `json:"status"`
	CurrentBlock         uint64 `json:"currentBlock"`
}

type RefundView struct {
	Address       domain.Address `json:"address"`
	Amount        uint64         `json:"amount"`
	DisplayAmount string         `json:"displayAmount"`
}

func New(e *echo.Echo, cfg *HandlerCfg) {
	unit := cfg.ValueUnitWei
	if unit == nil || unit.Sign() <= 0 {
		unit = eth.Gwei
	}
	h := &handler{
		auction:      cfg.Auction,
		currentBlock: cfg.CurrentBlock,
		unit:         unit,
		records:      cfg.RecordCache,
	}

	gs := e.Group("/auctions")
	gs.GET("", h.getAll, middleware.CacheHttp(cfg.ListCache))
	gs.GET("/:contract/:assetId", h.get, middleware.IsValidAddress("contract"))
	gs.GET("/:contract/:assetId/events", h.getEvents, middleware.IsValidAddress("contract"), middleware.CacheHttp(cfg.ListCache))

	e.GET("/refunds/:address", h.getRefund, middleware.IsValidAddress("address"))
}

func status(a *auction.Auction, current uint64) string {
	switch {
	case a.Ended:
		return StatusEnded
	case a.Accepting(domain.BlockNumber(current)):
		return StatusOpen
	}
	return StatusClosing
}

func (h *handler) view(a *auction.Auction, current uint64) *AuctionView {
	return &AuctionView{
		Auction:              *a,
		DisplayStartingPrice: eth.ToEther(a.StartingPrice, h.unit).String(),
		DisplayHighestBid:    eth.ToEther(a.HighestBid, h.unit).String(),
		Status:               status(a, current),
		CurrentBlock:         current,
	}
}

type assetParams struct {
	Contract string `param:"contract" validate:"required,eth_addr"`
	AssetId  uint64 `param:"assetId"`
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := assetParams{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	contract := domain.Address(p.Contract).ToLower()

	record := &auction.Auction{}
	key := fmt.Sprintf("auction:%s:%d", contract, p.AssetId)
	if err := h.records.GetOrLoad(ctx, key, record, func() (interface{}, error) {
		return h.auction.GetAuctionInfo(ctx, contract, p.AssetId)
	}); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	current, err := h.currentBlock.BlockNumber(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, h.view(record, current))
}

type listParams struct {
	Seller string `query:"seller" validate:"omitempty,eth_addr"`
	Ended  string `query:"ended" validate:"omitempty,oneof=true false"`
	Offset int    `query:"offset" validate:"min=0"`
	Limit  int    `query:"limit" validate:"min=0,max=500"`
}

func pagination(offset, limit int) (int, int) {
	if limit == 0 {
		limit = defaultLimit
	}
	return offset, limit
}

func (h *handler) getAll(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := listParams{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	opts := []auction.FindAllOptionsFunc{auction.WithPagination(pagination(p.Offset, p.Limit))}
	if p.Seller != "" {
		opts = append(opts, auction.WithSeller(domain.Address(p.Seller)))
	}
	if p.Ended != "" {
		ended, _ := strconv.ParseBool(p.Ended)
		opts = append(opts, auction.WithEnded(ended))
	}

	records, err := h.auction.FindAuctions(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	current, err := h.currentBlock.BlockNumber(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	res := make([]*AuctionView, 0, len(records))
	for i := range records {
		res = append(res, h.view(&records[i], current))
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

type eventParams struct {
	Contract string `param:"contract" validate:"required,eth_addr"`
	AssetId  uint64 `param:"assetId"`
	Type     string `query:"type" validate:"omitempty,oneof=AuctionStarted HighestBidUpdated AuctionEnded"`
	Offset   int    `query:"offset" validate:"min=0"`
	Limit    int    `query:"limit" validate:"min=0,max=500"`
}

func (h *handler) getEvents(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := eventParams{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	opts := []auction.FindEventsOptionsFunc{
		auction.EventWithContract(domain.Address(p.Contract)),
		auction.EventWithAssetId(p.AssetId),
		auction.EventWithPagination(pagination(p.Offset, p.Limit)),
	}
	if p.Type != "" {
		opts = append(opts, auction.EventWithType(auction.EventType(p.Type)))
	}

	events, err := h.auction.FindEvents(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, events)
}

func (h *handler) getRefund(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	addr := domain.Address(c.Param("address")).ToLower()
	amount, err := h.auction.GetRefund(ctx, addr)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, RefundView{
		Address:       addr,
		Amount:        amount,
		DisplayAmount: eth.ToEther(amount, h.unit).String(),
	})
}
