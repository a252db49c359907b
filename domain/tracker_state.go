package domain

import (
	"github.com/x-xyz/auctionhouse/base/ctx"
)

const DefaultTag = "default"

// TrackerState records how far the auctioneer has executed the calls sent
// to the escrow address. LastTxIndexProcessed is -1 when the block at
// LastBlockProcessed has not been touched yet.
type TrackerState struct {
	ChainId              ChainId `bson:"chainId"`
	ContractAddress      Address `bson:"contractAddress"`
	Tag                  string  `bson:"tag"`
	LastBlockProcessed   uint64  `bson:"lastBlockProcessed"`
	LastTxIndexProcessed int64   `bson:"lastTxIndexProcessed"`
}

func (s *TrackerState) ToId() *TrackerStateId {
	return &TrackerStateId{
		ChainId:         s.ChainId,
		ContractAddress: s.ContractAddress,
		Tag:             s.Tag,
	}
}

type TrackerStateId struct {
	ChainId         ChainId `bson:"chainId"`
	ContractAddress Address `bson:"contractAddress"`
	Tag             string  `bson:"tag"`
}

type TrackerStateRepo interface {
	Get(ctx.Ctx, *TrackerStateId) (*TrackerState, error)
	Upsert(ctx.Ctx, *TrackerState) error
}

type TrackerStateUseCase interface {
	Get(ctx.Ctx, *TrackerStateId) (*TrackerState, error)
	Upsert(ctx.Ctx, *TrackerState) error
}
