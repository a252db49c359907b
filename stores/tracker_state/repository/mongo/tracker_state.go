package mongo

import (
	"go.mongodb.org/mongo-driver/bson"

	bCtx "github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/service/query"
)

type trackerStateMongoRepo struct {
	m query.Mongo
}

func NewTrackerStateMongoRepo(mCon query.Mongo) domain.TrackerStateRepo {
	return &trackerStateMongoRepo{m: mCon}
}

func selector(id *domain.TrackerStateId) bson.M {
	return bson.M{
		"chainId":         id.ChainId,
		"contractAddress": id.ContractAddress.ToLower(),
		"tag":             id.Tag,
	}
}

func (r *trackerStateMongoRepo) Get(ctx bCtx.Ctx, id *domain.TrackerStateId) (*domain.TrackerState, error) {
	state := &domain.TrackerState{}
	if err := r.m.FindOne(ctx, domain.TableTrackerStates, selector(id), state); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to FindOne")
		return nil, err
	}
	return state, nil
}

// Upsert joins the caller's transaction, so progress is stored together with
// the effects of the call it records.
func (r *trackerStateMongoRepo) Upsert(ctx bCtx.Ctx, state *domain.TrackerState) error {
	doc := *state
	doc.ContractAddress = doc.ContractAddress.ToLower()
	if err := r.m.Upsert(ctx, domain.TableTrackerStates, selector(doc.ToId()), &doc); err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  doc.ToId(),
		}).Error("failed to upsert")
		return err
	}
	return nil
}
