package auction

import (
	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain"
)

type EventType string

const (
	EventAuctionStarted    EventType = "AuctionStarted"
	EventHighestBidUpdated EventType = "HighestBidUpdated"
	EventAuctionEnded      EventType = "AuctionEnded"
)

// Event is an append-only notification. Seq is assigned by the EventRepo
// and is strictly increasing in append order.
type Event struct {
	Seq      uint64             `json:"seq" bson:"seq"`
	Type     EventType          `json:"type" bson:"type"`
	Contract domain.Address     `json:"contract" bson:"contract"`
	AssetId  uint64             `json:"assetId" bson:"assetId"`
	Block    domain.BlockNumber `json:"block" bson:"block"`

	// AuctionStarted
	Seller        domain.Address     `json:"seller,omitempty" bson:"seller,omitempty"`
	EndBlock      domain.BlockNumber `json:"endBlock,omitempty" bson:"endBlock,omitempty"`
	StartingPrice uint64             `json:"startingPrice,omitempty" bson:"startingPrice,omitempty"`

	// HighestBidUpdated
	Bidder domain.Address `json:"bidder,omitempty" bson:"bidder,omitempty"`
	Bid    uint64         `json:"bid,omitempty" bson:"bid,omitempty"`

	// AuctionEnded, zero address and 0 when unsold
	HighestBidder domain.Address `json:"highestBidder,omitempty" bson:"highestBidder,omitempty"`
	HighestBid    uint64         `json:"highestBid" bson:"highestBid"`
}

func (e *Event) ToId() Id {
	return Id{Contract: e.Contract, AssetId: e.AssetId}
}

type findEventsOptions struct {
	Contract *domain.Address
	AssetId  *uint64
	Type     *EventType
	Offset   *int
	Limit    *int
}

type FindEventsOptionsFunc func(*findEventsOptions) error

func GetFindEventsOptions(opts ...FindEventsOptionsFunc) (findEventsOptions, error) {
	res := findEventsOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func EventWithContract(contract domain.Address) FindEventsOptionsFunc {
	return func(options *findEventsOptions) error {
		options.Contract = contract.ToLowerPtr()
		return nil
	}
}

func EventWithAssetId(assetId uint64) FindEventsOptionsFunc {
	return func(options *findEventsOptions) error {
		options.AssetId = &assetId
		return nil
	}
}

func EventWithType(typ EventType) FindEventsOptionsFunc {
	return func(options *findEventsOptions) error {
		options.Type = &typ
		return nil
	}
}

func EventWithPagination(offset, limit int) FindEventsOptionsFunc {
	return func(options *findEventsOptions) error {
		if offset < 0 || limit <= 0 {
			return domain.ErrBadParamInput
		}
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

// EventRepo is the EventSink. Append assigns Seq and returns the stored
// event. FindAll returns events in Seq order.
type EventRepo interface {
	Append(ctx.Ctx, *Event) (*Event, error)
	FindAll(ctx.Ctx, ...FindEventsOptionsFunc) ([]Event, error)
}
