package usecase

import (
	"time"

	bCtx "github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain"
)

type trackerStateUseCase struct {
	trackerStateRepo domain.TrackerStateRepo
	ctxTimeout       time.Duration
}

func NewTrackerStateUseCase(r domain.TrackerStateRepo, ctxTimeout time.Duration) domain.TrackerStateUseCase {
	return &trackerStateUseCase{
		trackerStateRepo: r,
		ctxTimeout:       ctxTimeout,
	}
}

func (u *trackerStateUseCase) Get(c bCtx.Ctx, id *domain.TrackerStateId) (*domain.TrackerState, error) {
	ctx, cancel := bCtx.WithTimeout(c, u.ctxTimeout)
	defer cancel()
	return u.trackerStateRepo.Get(ctx, id)
}

func (u *trackerStateUseCase) Upsert(c bCtx.Ctx, state *domain.TrackerState) error {
	if state.LastTxIndexProcessed < -1 {
		return domain.ErrBadParamInput
	}
	ctx, cancel := bCtx.WithTimeout(c, u.ctxTimeout)
	defer cancel()
	return u.trackerStateRepo.Upsert(ctx, state)
}
