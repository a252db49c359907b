package tracker

import (
	"context"
	"sync"
	"time"

	bCtx "github.com/x-xyz/auctionhouse/base/ctx"
)

type CurrentBlockProvider interface {
	BlockNumber(context.Context) (uint64, error)
}

type CurrentBlockGetterCfg struct {
	Client   CurrentBlockProvider
	Interval time.Duration
	ErrCh    chan<- error
}

// CurrentBlockGetter polls the node head so every reader shares one rpc
// call per interval.
type CurrentBlockGetter struct {
	client    CurrentBlockProvider
	interval  time.Duration
	mutex     sync.RWMutex
	blk       uint64
	errCh     chan<- error
	stoppedCh chan interface{}
}

func NewCurrentBlockGetter(cfg *CurrentBlockGetterCfg) *CurrentBlockGetter {
	return &CurrentBlockGetter{
		client:    cfg.Client,
		interval:  cfg.Interval,
		errCh:     cfg.ErrCh,
		stoppedCh: make(chan interface{}),
	}
}

func (g *CurrentBlockGetter) BlockNumber(ctx context.Context) (uint64, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return g.blk, nil
}

func (g *CurrentBlockGetter) Start(ctx bCtx.Ctx) error {
	if err := g.refresh(ctx); err != nil {
		ctx.WithField("err", err).Error("client.BlockNumber failed")
		return err
	}
	go g.loop(ctx)
	return nil
}

func (g *CurrentBlockGetter) Wait() {
	<-g.stoppedCh
}

func (g *CurrentBlockGetter) refresh(ctx bCtx.Ctx) error {
	blk, err := g.client.BlockNumber(ctx)
	if err != nil {
		return err
	}
	g.mutex.Lock()
	if blk > g.blk {
		g.blk = blk
	}
	g.mutex.Unlock()
	return nil
}

func (g *CurrentBlockGetter) loop(ctx bCtx.Ctx) {
	defer close(g.stoppedCh)
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()
	failures := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := g.refresh(ctx); err != nil {
				failures++
				ctx.WithField("err", err).WithField("failures", failures).Warn("client.BlockNumber failed")
				if failures >= maxHeadFailures && g.errCh != nil {
					g.errCh <- err
					return
				}
				continue
			}
			failures = 0
		}
	}
}

const maxHeadFailures = 10
