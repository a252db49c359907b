package auction

import (
	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain"
)

// Id identifies one auctionable asset. An asset keeps the same Id across
// successive auctions; only the latest auction is kept in the store.
type Id struct {
	Contract domain.Address `json:"contract" bson:"contract"`
	AssetId  uint64         `json:"assetId" bson:"assetId"`
}

type Auction struct {
	Contract      domain.Address     `json:"contract" bson:"contract"`
	AssetId       uint64             `json:"assetId" bson:"assetId"`
	Seller        domain.Address     `json:"seller" bson:"seller"`
	EndBlock      domain.BlockNumber `json:"endBlock" bson:"endBlock"`
	StartingPrice uint64             `json:"startingPrice" bson:"startingPrice"`
	HighestBid    uint64             `json:"highestBid" bson:"highestBid"`
	HighestBidder domain.Address     `json:"highestBidder" bson:"highestBidder"`
	Ended         bool               `json:"ended" bson:"ended"`
}

func (a *Auction) ToId() Id {
	return Id{Contract: a.Contract, AssetId: a.AssetId}
}

// HasBid reports whether any bid has been accepted. A bid is strictly
// positive so HighestBid == 0 means no bid.
func (a *Auction) HasBid() bool {
	return a.HighestBid > 0
}

// Accepting reports whether a bid placed at block may still be accepted.
func (a *Auction) Accepting(block domain.BlockNumber) bool {
	return !a.Ended && block < a.EndBlock
}

type findAllOptions struct {
	Seller *domain.Address
	Ended  *bool
	Offset *int
	Limit  *int
}

type FindAllOptionsFunc func(*findAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (findAllOptions, error) {
	res := findAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func WithSeller(seller domain.Address) FindAllOptionsFunc {
	return func(options *findAllOptions) error {
		options.Seller = seller.ToLowerPtr()
		return nil
	}
}

func WithEnded(ended bool) FindAllOptionsFunc {
	return func(options *findAllOptions) error {
		options.Ended = &ended
		return nil
	}
}

func WithPagination(offset, limit int) FindAllOptionsFunc {
	return func(options *findAllOptions) error {
		if offset < 0 || limit <= 0 {
			return domain.ErrBadParamInput
		}
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

// Repo is the auction store. FindOne returns ErrAuctionNotFound for an asset
// that was never auctioned.
type Repo interface {
	FindOne(ctx.Ctx, Id) (*Auction, error)
	FindAll(ctx.Ctx, ...FindAllOptionsFunc) ([]Auction, error)
	Upsert(ctx.Ctx, *Auction) error
}
