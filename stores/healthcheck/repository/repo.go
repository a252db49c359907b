package repository

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/database/mongoclient"
	"github.com/x-xyz/auctionhouse/base/tracker"
	hcdomain "github.com/x-xyz/auctionhouse/domain/healthcheck"
)

var ErrNoChainHead = errors.New("chain head unknown")

type impl struct {
	mgoClient *mongoclient.Client
	head      tracker.CurrentBlockProvider
}

func New(mgoClient *mongoclient.Client, head tracker.CurrentBlockProvider) hcdomain.HealthCheckRepo {
	return &impl{
		mgoClient: mgoClient,
		head:      head,
	}
}

func (im *impl) PingDB(context ctx.Ctx) error {
	c, cancel := ctx.WithTimeout(context, 2*time.Second)
	defer cancel()
	if err := im.mgoClient.Ping(c, readpref.Primary()); err != nil {
		context.WithField("err", err).Error("ping mongo error")
		return err
	}
	return nil
}

func (im *impl) PingChain(context ctx.Ctx) error {
	blk, err := im.head.BlockNumber(context)
	if err != nil {
		context.WithField("err", err).Error("head.BlockNumber failed")
		return err
	}
	if blk == 0 {
		return ErrNoChainHead
	}
	return nil
}
