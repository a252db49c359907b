package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/auction"
)

// Journal is state living outside the store that must roll back together
// with it, e.g. a simulated chain.
type Journal interface {
	Snapshot() interface{}
	Restore(interface{})
}

type txKey struct{}

// Store keeps auctions, refunds, events and tracker states in memory. It is
// its own domain.TxRunner: a failed transaction restores the store and every
// attached Journal to the state they had when it started.
type Store struct {
	mu       sync.Mutex
	auctions map[auction.Id]auction.Auction
	refunds  map[domain.Address]uint64
	events   []auction.Event
	trackers map[domain.TrackerStateId]domain.TrackerState
	journals []Journal
}

func New() *Store {
	return &Store{
		auctions: map[auction.Id]auction.Auction{},
		refunds:  map[domain.Address]uint64{},
		trackers: map[domain.TrackerStateId]domain.TrackerState{},
	}
}

// Attach registers j to be snapshotted and restored with the store.
func (s *Store) Attach(j Journal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journals = append(s.journals, j)
}

func (s *Store) inTx(c ctx.Ctx) bool {
	v, ok := c.Value(txKey{}).(*Store)
	return ok && v == s
}

// RunWithTransaction serializes outermost transactions. A call made with a
// ctx that is already inside a transaction of this store is nested: it does
// not lock again and only rolls back its own writes.
func (s *Store) RunWithTransaction(c ctx.Ctx, run func(ctx.Ctx) error) error {
	if !s.inTx(c) {
		s.mu.Lock()
		defer s.mu.Unlock()
		c = ctx.WithContext(c, context.WithValue(c.Context, txKey{}, s))
	}

	snap := s.snapshot()
	if err := run(c); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// view runs fn under the store lock unless c already holds it.
func (s *Store) view(c ctx.Ctx, fn func()) {
	if !s.inTx(c) {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	fn()
}

type snapshot struct {
	auctions map[auction.Id]auction.Auction
	refunds  map[domain.Address]uint64
	events   []auction.Event
	trackers map[domain.TrackerStateId]domain.TrackerState
	journals []interface{}
}

func (s *Store) snapshot() *snapshot {
	snap := &snapshot{
		auctions: make(map[auction.Id]auction.Auction, len(s.auctions)),
		refunds:  make(map[domain.Address]uint64, len(s.refunds)),
		events:   s.events[:len(s.events):len(s.events)],
		trackers: make(map[domain.TrackerStateId]domain.TrackerState, len(s.trackers)),
		journals: make([]interface{}, len(s.journals)),
	}
	for k, v := range s.auctions {
		snap.auctions[k] = v
	}
	for k, v := range s.refunds {
		snap.refunds[k] = v
	}
	for k, v := range s.trackers {
		snap.trackers[k] = v
	}
	for i, j := range s.journals {
		snap.journals[i] = j.Snapshot()
	}
	return snap
}

func (s *Store) restore(snap *snapshot) {
	s.auctions = snap.auctions
	s.refunds = snap.refunds
	s.events = snap.events
	s.trackers = snap.trackers
	for i, j := range s.journals {
		j.Restore(snap.journals[i])
	}
}

// TotalRefunds is the sum of every refund balance.
func (s *Store) TotalRefunds(c ctx.Ctx) uint64 {
	total := uint64(0)
	s.view(c, func() {
		for _, v := range s.refunds {
			total += v
		}
	})
	return total
}

// OpenBids is the sum of the highest bids of auctions not yet ended.
func (s *Store) OpenBids(c ctx.Ctx) uint64 {
	total := uint64(0)
	s.view(c, func() {
		for _, a := range s.auctions {
			if !a.Ended {
				total += a.HighestBid
			}
		}
	})
	return total
}

func (s *Store) Auctions() auction.Repo {
	return &auctionRepo{s: s}
}

func (s *Store) Refunds() auction.RefundRepo {
	return &refundRepo{s: s}
}

func (s *Store) Events() auction.EventRepo {
	return &eventRepo{s: s}
}

func (s *Store) TrackerStates() domain.TrackerStateRepo {
	return &trackerStateRepo{s: s}
}

func normalizeId(id auction.Id) auction.Id {
	return auction.Id{Contract: id.Contract.ToLower(), AssetId: id.AssetId}
}

type auctionRepo struct {
	s *Store
}

func (r *auctionRepo) FindOne(c ctx.Ctx, id auction.Id) (*auction.Auction, error) {
	var (
		a  auction.Auction
		ok bool
	)
	r.s.view(c, func() {
		a, ok = r.s.auctions[normalizeId(id)]
	})
	if !ok {
		return nil, auction.ErrAuctionNotFound
	}
	return &a, nil
}

func (r *auctionRepo) FindAll(c ctx.Ctx, optFns ...auction.FindAllOptionsFunc) ([]auction.Auction, error) {
	opts, err := auction.GetFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("auction.GetFindAllOptions failed")
		return nil, err
	}

	res := []auction.Auction{}
	r.s.view(c, func() {
		for _, a := range r.s.auctions {
			if opts.Seller != nil && !a.Seller.Equals(*opts.Seller) {
				continue
			}
			if opts.Ended != nil && a.Ended != *opts.Ended {
				continue
			}
			res = append(res, a)
		}
	})

	sort.Slice(res, func(i, j int) bool {
		if res[i].EndBlock != res[j].EndBlock {
			return res[i].EndBlock > res[j].EndBlock
		}
		if res[i].Contract != res[j].Contract {
			return res[i].Contract < res[j].Contract
		}
		return res[i].AssetId < res[j].AssetId
	})
	from, to := window(len(res), opts.Offset, opts.Limit)
	return res[from:to], nil
}

func (r *auctionRepo) Upsert(c ctx.Ctx, a *auction.Auction) error {
	r.s.view(c, func() {
		r.s.auctions[normalizeId(a.ToId())] = *a
	})
	return nil
}

type refundRepo struct {
	s *Store
}

func (r *refundRepo) Get(c ctx.Ctx, addr domain.Address) (uint64, error) {
	amount := uint64(0)
	r.s.view(c, func() {
		amount = r.s.refunds[addr.ToLower()]
	})
	return amount, nil
}

func (r *refundRepo) Set(c ctx.Ctx, addr domain.Address, amount uint64) error {
	r.s.view(c, func() {
		if amount == 0 {
			delete(r.s.refunds, addr.ToLower())
			return
		}
		r.s.refunds[addr.ToLower()] = amount
	})
	return nil
}

type eventRepo struct {
	s *Store
}

func (r *eventRepo) Append(c ctx.Ctx, e *auction.Event) (*auction.Event, error) {
	stored := *e
	r.s.view(c, func() {
		stored.Seq = uint64(len(r.s.events)) + 1
		r.s.events = append(r.s.events, stored)
	})
	return &stored, nil
}

func (r *eventRepo) FindAll(c ctx.Ctx, optFns ...auction.FindEventsOptionsFunc) ([]auction.Event, error) {
	opts, err := auction.GetFindEventsOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("auction.GetFindEventsOptions failed")
		return nil, err
	}

	res := []auction.Event{}
	r.s.view(c, func() {
		for _, e := range r.s.events {
			if opts.Contract != nil && !e.Contract.Equals(*opts.Contract) {
				continue
			}
			if opts.AssetId != nil && e.AssetId != *opts.AssetId {
				continue
			}
			if opts.Type != nil && e.Type != *opts.Type {
				continue
			}
			res = append(res, e)
		}
	})
	from, to := window(len(res), opts.Offset, opts.Limit)
	return res[from:to], nil
}

type trackerStateRepo struct {
	s *Store
}

func (r *trackerStateRepo) Get(c ctx.Ctx, id *domain.TrackerStateId) (*domain.TrackerState, error) {
	var (
		state domain.TrackerState
		ok    bool
	)
	r.s.view(c, func() {
		state, ok = r.s.trackers[*id]
	})
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &state, nil
}

func (r *trackerStateRepo) Upsert(c ctx.Ctx, state *domain.TrackerState) error {
	r.s.view(c, func() {
		r.s.trackers[*state.ToId()] = *state
	})
	return nil
}

// window returns the [from, to) bounds of the requested page over n items.
func window(n int, offset, limit *int) (int, int) {
	from, to := 0, n
	if offset != nil {
		from = *offset
		if from > n {
			from = n
		}
	}
	if limit != nil && from+*limit < to {
		to = from + *limit
	}
	return from, to
}
