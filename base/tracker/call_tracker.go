package tracker

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/x-xyz/auctionhouse/base/backoff"
	bCtx "github.com/x-xyz/auctionhouse/base/ctx"
	eth "github.com/x-xyz/auctionhouse/base/ethereum"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/base/metrics"
	"github.com/x-xyz/auctionhouse/domain"
)

var (
	metOnce sync.Once
	met     metrics.Service
)

// CallHandler executes the calls found by a CallTracker.
type CallHandler interface {
	// Handle executes call. Every write must go through the given ctx so it
	// commits together with the tracker progress.
	Handle(bCtx.Ctx, *Call) error
	// Rejected reports whether err is a refusal of the call rather than an
	// infrastructure failure worth retrying.
	Rejected(error) bool
	// Reject returns the value attached to a refused call to its sender.
	Reject(bCtx.Ctx, *Call) error
}

type CallTrackerCfg struct {
	ChainId             int64
	Escrow              domain.Address
	Tag                 string
	StartBlock          uint64
	PollInterval        time.Duration
	FollowDistance      uint64
	ValueUnitWei        *big.Int
	RetryStart          time.Duration
	RetryLimit          time.Duration
	MaxRetries          int
	CurrentBlockGetter  CurrentBlockProvider
	Client              domain.EthClientRepo
	TrackerStateUseCase domain.TrackerStateUseCase
	Tx                  domain.TxRunner
	Handler             CallHandler
	ErrorCh             chan<- error
}

// CallTracker walks confirmed blocks and feeds every successful transaction
// sent to the escrow address to its handler, in block and index order. The
// position of each executed call is stored in the same transaction as the
// call's effects, so a restart neither skips nor repeats a call.
type CallTracker struct {
	chainId             int64
	escrow              domain.Address
	tag                 string
	startBlock          uint64
	pollInterval        time.Duration
	followDistance      uint64
	unit                *big.Int
	maxRetries          int
	backoff             *backoff.Backoff
	signer              types.Signer
	currentBlockGetter  CurrentBlockProvider
	client              domain.EthClientRepo
	trackerStateUseCase domain.TrackerStateUseCase
	tx                  domain.TxRunner
	handler             CallHandler
	errorCh             chan<- error
	state               *domain.TrackerState
	stoppedCh           chan interface{}
}

func NewCallTracker(cfg *CallTrackerCfg) (*CallTracker, error) {
	metOnce.Do(func() {
		met = metrics.New("tracker")
	})
	if cfg.Escrow.IsZero() {
		return nil, errors.New("config error: escrow address is required")
	}
	if cfg.Handler == nil {
		return nil, errors.New("config error: call handler is required")
	}
	unit := cfg.ValueUnitWei
	if unit == nil || unit.Sign() <= 0 {
		unit = eth.Gwei
	}
	tag := cfg.Tag
	if tag == "" {
		tag = domain.DefaultTag
	}
	return &CallTracker{
		chainId:             cfg.ChainId,
		escrow:              cfg.Escrow.ToLower(),
		tag:                 tag,
		startBlock:          cfg.StartBlock,
		pollInterval:        cfg.PollInterval,
		followDistance:      cfg.FollowDistance,
		unit:                unit,
		maxRetries:          cfg.MaxRetries,
		backoff:             backoff.NewExponential(cfg.RetryStart, cfg.RetryLimit),
		signer:              types.LatestSignerForChainID(big.NewInt(cfg.ChainId)),
		currentBlockGetter:  cfg.CurrentBlockGetter,
		client:              cfg.Client,
		trackerStateUseCase: cfg.TrackerStateUseCase,
		tx:                  cfg.Tx,
		handler:             cfg.Handler,
		errorCh:             cfg.ErrorCh,
		stoppedCh:           make(chan interface{}),
	}, nil
}

func (f *CallTracker) Start(ctx bCtx.Ctx) {
	go func() {
		defer close(f.stoppedCh)
		if err := f.loop(ctx); err != nil && f.errorCh != nil {
			f.errorCh <- err
		}
	}()
}

func (f *CallTracker) Wait() {
	<-f.stoppedCh
}

func (f *CallTracker) loop(ctx bCtx.Ctx) error {
	ctx = bCtx.WithFields(ctx, log.Fields{"escrow": f.escrow, "tag": f.tag})

	if err := f.retry(ctx, "setupTrackerState", func() error {
		state, err := f.setupTrackerState(ctx)
		if err != nil {
			return err
		}
		f.state = state
		return nil
	}); err != nil {
		return err
	}
	ctx.WithField("lastBlockProcessed", f.state.LastBlockProcessed).Info("call tracker started")

	ticker := time.NewTicker(f.pollInterval)
	defer ticker.Stop()
	for {
		if err := f.retry(ctx, "poll", func() error { return f.poll(ctx) }); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// retry runs fn until it succeeds, backing off between attempts. It gives up
// after maxRetries consecutive failures when maxRetries is positive, and
// returns nil once ctx is done.
func (f *CallTracker) retry(ctx bCtx.Ctx, name string, fn func() error) error {
	defer f.backoff.Reset()
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || ctx.Err() != nil {
			return nil
		}
		met.BumpSum("retry", 1, "step", name)
		ctx.WithFields(log.Fields{"err": err, "attempt": attempt, "wait": f.backoff.Next}).Error(name + " failed")
		if f.maxRetries > 0 && attempt >= f.maxRetries {
			return fmt.Errorf("%s failed after %d attempts: %w", name, attempt, err)
		}
		if err := f.backoff.Wait(ctx); err != nil {
			return nil
		}
	}
}

func (f *CallTracker) stateId() *domain.TrackerStateId {
	return &domain.TrackerStateId{
		ChainId:         domain.ChainId(f.chainId),
		ContractAddress: f.escrow,
		Tag:             f.tag,
	}
}

func (f *CallTracker) newState(blk uint64, txIndex int64) *domain.TrackerState {
	return &domain.TrackerState{
		ChainId:              domain.ChainId(f.chainId),
		ContractAddress:      f.escrow,
		Tag:                  f.tag,
		LastBlockProcessed:   blk,
		LastTxIndexProcessed: txIndex,
	}
}

func (f *CallTracker) setupTrackerState(ctx bCtx.Ctx) (*domain.TrackerState, error) {
	state, err := f.trackerStateUseCase.Get(ctx, f.stateId())
	if err == nil {
		return state, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	state = f.newState(f.startBlock, -1)
	if err := f.trackerStateUseCase.Upsert(ctx, state); err != nil {
		ctx.WithField("err", err).Error("trackerStateUseCase.Upsert failed")
		return nil, err
	}
	return state, nil
}

// poll processes every block up to the head minus the follow distance.
func (f *CallTracker) poll(ctx bCtx.Ctx) error {
	current, err := f.currentBlockGetter.BlockNumber(ctx)
	if err != nil {
		return err
	}
	met.BumpAvg("blockchain.lastBlock", float64(current), "chainId", fmt.Sprint(f.chainId))
	if current < f.followDistance {
		return nil
	}
	target := current - f.followDistance
	start := f.state.LastBlockProcessed
	if target < start {
		return nil
	}

	for blk := start; blk <= target; blk++ {
		if ctx.Err() != nil {
			return nil
		}
		if err := f.processBlock(ctx, blk); err != nil {
			return err
		}
	}

	// blocks without calls only move the cursor, persist it once per round
	done := f.newState(target+1, -1)
	if err := f.trackerStateUseCase.Upsert(ctx, done); err != nil {
		return err
	}
	f.state = done
	met.BumpAvg("escrow.lastBlock", float64(target), "chainId", fmt.Sprint(f.chainId))
	ctx.Debug(fmt.Sprintf("processed blocks start=%d end=%d", start, target))
	return nil
}

func (f *CallTracker) processBlock(ctx bCtx.Ctx, blk uint64) error {
	block, err := f.client.BlockByNumber(ctx, new(big.Int).SetUint64(blk))
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "block": blk}).Error("client.BlockByNumber failed")
		return err
	}
	for i, tx := range block.Transactions() {
		if blk == f.state.LastBlockProcessed && int64(i) <= f.state.LastTxIndexProcessed {
			continue
		}
		call, err := f.toCall(ctx, blk, i, tx)
		if err != nil {
			return err
		}
		if call == nil {
			continue
		}
		if err := f.execute(ctx, call); err != nil {
			return err
		}
	}
	f.state = f.newState(blk+1, -1)
	return nil
}

// toCall returns nil for transactions the escrow should not act on.
func (f *CallTracker) toCall(ctx bCtx.Ctx, blk uint64, index int, tx *types.Transaction) (*Call, error) {
	if tx.To() == nil || !toDomainAddress(tx.To()).Equals(f.escrow) {
		return nil, nil
	}
	ctx = bCtx.WithFields(ctx, log.Fields{"txHash": tx.Hash().Hex()})

	receipt, err := f.client.TransactionReceipt(ctx, tx.Hash())
	if err != nil {
		ctx.WithField("err", err).Error("client.TransactionReceipt failed")
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, nil
	}

	from, err := types.Sender(f.signer, tx)
	if err != nil {
		ctx.WithField("err", err).Error("types.Sender failed, skipping")
		met.BumpSum("call.skipped", 1, "reason", "sender")
		return nil, nil
	}
	value, err := eth.FromWei(tx.Value(), f.unit)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "wei": tx.Value().String()}).Error("value not representable, left in escrow")
		met.BumpSum("call.skipped", 1, "reason", "value")
		return nil, nil
	}
	return &Call{
		Block:   domain.BlockNumber(blk),
		TxIndex: index,
		TxHash:  domain.TxHash(ToLowerHexStr(tx.Hash())),
		From:    toDomainAddress(from),
		Value:   value,
		Data:    tx.Data(),
	}, nil
}

func (f *CallTracker) execute(ctx bCtx.Ctx, call *Call) error {
	ctx = bCtx.WithFields(ctx, log.Fields{
		"txHash": call.TxHash,
		"block":  call.Block,
		"from":   call.From,
		"value":  call.Value,
	})
	state := f.newState(uint64(call.Block), int64(call.TxIndex))

	err := f.tx.RunWithTransaction(ctx, func(c bCtx.Ctx) error {
		if err := f.handler.Handle(c, call); err != nil {
			return err
		}
		return f.trackerStateUseCase.Upsert(c, state)
	})
	if err == nil {
		met.BumpSum("call", 1, "result", "ok")
		f.state = state
		return nil
	}
	if !f.handler.Rejected(err) {
		return err
	}

	ctx.WithField("err", err).Info("call rejected")
	err = f.tx.RunWithTransaction(ctx, func(c bCtx.Ctx) error {
		if err := f.handler.Reject(c, call); err != nil {
			if !f.handler.Rejected(err) {
				return err
			}
			c.WithField("err", err).Error("handler.Reject refused, value left in escrow")
		}
		return f.trackerStateUseCase.Upsert(c, state)
	})
	if err != nil {
		return err
	}
	met.BumpSum("call", 1, "result", "rejected")
	f.state = state
	return nil
}
