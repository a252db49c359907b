package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	bCtx "github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/auction"
	"github.com/x-xyz/auctionhouse/service/query"
)

const eventSeqCounter = "auction_events"

func idSelector(id auction.Id) bson.M {
	// built by hand: assetId 0 is a valid id and MakeBsonM drops zero fields
	return bson.M{
		"contract": id.Contract.ToLower(),
		"assetId":  id.AssetId,
	}
}

type auctionMongoRepo struct {
	m query.Mongo
}

func NewAuctionMongoRepo(m query.Mongo) auction.Repo {
	return &auctionMongoRepo{m: m}
}

func (r *auctionMongoRepo) FindOne(ctx bCtx.Ctx, id auction.Id) (*auction.Auction, error) {
	res := &auction.Auction{}
	if err := r.m.FindOne(ctx, domain.TableAuctions, idSelector(id), res); err == query.ErrNotFound {
		return nil, auction.ErrAuctionNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to FindOne")
		return nil, err
	}
	return res, nil
}

func auctionsQuery(opts ...auction.FindAllOptionsFunc) (bson.M, int, int, error) {
	options, err := auction.GetFindAllOptions(opts...)
	if err != nil {
		return nil, 0, 0, err
	}
	qry := bson.M{}
	if options.Seller != nil {
		qry["seller"] = *options.Seller
	}
	if options.Ended != nil {
		qry["ended"] = *options.Ended
	}
	offset, limit := 0, 0
	if options.Offset != nil {
		offset = *options.Offset
	}
	if options.Limit != nil {
		limit = *options.Limit
	}
	return qry, offset, limit, nil
}

func (r *auctionMongoRepo) FindAll(ctx bCtx.Ctx, opts ...auction.FindAllOptionsFunc) ([]auction.Auction, error) {
	qry, offset, limit, err := auctionsQuery(opts...)
	if err != nil {
		ctx.WithField("err", err).Error("auctionsQuery failed")
		return nil, err
	}
	res := []auction.Auction{}
	sorts := []string{"-endBlock", "contract", "assetId"}
	if err := r.m.SearchNSorts(ctx, domain.TableAuctions, offset, limit, sorts, qry, &res); err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to SearchNSorts")
		return nil, err
	}
	return res, nil
}

func (r *auctionMongoRepo) Upsert(ctx bCtx.Ctx, a *auction.Auction) error {
	doc := *a
	doc.Contract = doc.Contract.ToLower()
	if err := r.m.Upsert(ctx, domain.TableAuctions, idSelector(doc.ToId()), &doc); err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  doc.ToId(),
		}).Error("failed to Upsert")
		return err
	}
	return nil
}

type refundMongoRepo struct {
	m query.Mongo
}

func NewRefundMongoRepo(m query.Mongo) auction.RefundRepo {
	return &refundMongoRepo{m: m}
}

func (r *refundMongoRepo) Get(ctx bCtx.Ctx, addr domain.Address) (uint64, error) {
	res := &auction.RefundBalance{}
	if err := r.m.FindOne(ctx, domain.TableRefunds, bson.M{"bidder": addr.ToLower()}, res); err == query.ErrNotFound {
		return 0, nil
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":    err,
			"bidder": addr,
		}).Error("failed to FindOne")
		return 0, err
	}
	return res.Amount, nil
}

func (r *refundMongoRepo) Set(ctx bCtx.Ctx, addr domain.Address, amount uint64) error {
	doc := &auction.RefundBalance{Bidder: addr.ToLower(), Amount: amount}
	if err := r.m.Upsert(ctx, domain.TableRefunds, bson.M{"bidder": doc.Bidder}, doc); err != nil {
		ctx.WithFields(log.Fields{
			"err":    err,
			"bidder": addr,
		}).Error("failed to Upsert")
		return err
	}
	return nil
}

type eventMongoRepo struct {
	m query.Mongo
}

func NewEventMongoRepo(m query.Mongo) auction.EventRepo {
	return &eventMongoRepo{m: m}
}

type seqCounter struct {
	Id  string `bson:"_id"`
	Seq uint64 `bson:"seq"`
}

// Append takes the next sequence number from the counter document. Both
// writes join the caller's transaction so an aborted call leaves no gap.
func (r *eventMongoRepo) Append(ctx bCtx.Ctx, e *auction.Event) (*auction.Event, error) {
	counter := &seqCounter{}
	if err := r.m.Increment(ctx, domain.TableCounters, bson.M{"_id": eventSeqCounter}, counter, "seq", 1); err != nil {
		ctx.WithField("err", err).Error("failed to Increment")
		return nil, err
	}

	stored := *e
	stored.Seq = counter.Seq
	stored.Contract = stored.Contract.ToLower()
	if err := r.m.Insert(ctx, domain.TableAuctionEvents, &stored); err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"event": stored,
		}).Error("failed to Insert")
		return nil, err
	}
	return &stored, nil
}

func eventsQuery(opts ...auction.FindEventsOptionsFunc) (bson.M, int, int, error) {
	options, err := auction.GetFindEventsOptions(opts...)
	if err != nil {
		return nil, 0, 0, err
	}
	qry := bson.M{}
	if options.Contract != nil {
		qry["contract"] = *options.Contract
	}
	if options.AssetId != nil {
		qry["assetId"] = *options.AssetId
	}
	if options.Type != nil {
		qry["type"] = *options.Type
	}
	offset, limit := 0, 0
	if options.Offset != nil {
		offset = *options.Offset
	}
	if options.Limit != nil {
		limit = *options.Limit
	}
	return qry, offset, limit, nil
}

func (r *eventMongoRepo) FindAll(ctx bCtx.Ctx, opts ...auction.FindEventsOptionsFunc) ([]auction.Event, error) {
	qry, offset, limit, err := eventsQuery(opts...)
	if err != nil {
		ctx.WithField("err", err).Error("eventsQuery failed")
		return nil, err
	}
	res := []auction.Event{}
	if err := r.m.Search(ctx, domain.TableAuctionEvents, offset, limit, "seq", qry, &res); err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to Search")
		return nil, err
	}
	return res, nil
}
