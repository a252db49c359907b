package main

import (
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/database/mongoclient"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/base/tracker"
	bValidator "github.com/x-xyz/auctionhouse/base/validator"
	"github.com/x-xyz/auctionhouse/domain"
	mmiddleware "github.com/x-xyz/auctionhouse/middleware"
	"github.com/x-xyz/auctionhouse/service/cache"
	"github.com/x-xyz/auctionhouse/service/cache/provider/local"
	"github.com/x-xyz/auctionhouse/service/query"
	auction_delivery "github.com/x-xyz/auctionhouse/stores/auction/delivery/http"
	auction_repository "github.com/x-xyz/auctionhouse/stores/auction/repository"
	auction_usecase "github.com/x-xyz/auctionhouse/stores/auction/usecase"
	hc_delivery "github.com/x-xyz/auctionhouse/stores/healthcheck/delivery/http"
	hc_repo "github.com/x-xyz/auctionhouse/stores/healthcheck/repository"
	hc_usecase "github.com/x-xyz/auctionhouse/stores/healthcheck/usecase"
)

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(`infra/configs/api/config.yaml`)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.SetDebug(true)
		log.Log().Info("Service RUN on DEBUG mode")
	}

	viper.BindEnv("ACTIVENETWORK")
}

func main() {
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.New()

	context, cancel := ctx.WithCancel(ctx.Background())
	defer cancel()

	context.Info("init mongo")
	mongoClient := mongoclient.MustConnect(mongoclient.Config{
		URI:                viper.GetString("mongo.uri"),
		AuthDBName:         viper.GetString("mongo.authDBName"),
		DBName:             viper.GetString("mongo.dbName"),
		SSL:                viper.GetBool("mongo.enableSSL"),
		PoolSizeMultiplier: 2,
	})
	q := query.New(mongoClient)

	activeNetwork := viper.GetString("activeNetwork")
	network := viper.Sub("networks." + activeNetwork)
	if network == nil {
		context.WithField("network", activeNetwork).Panic("unknown network")
	}
	rpcUrl := network.GetString("rpcUrl")
	ethClient, err := ethclient.DialContext(context, rpcUrl)
	if err != nil {
		context.WithFields(log.Fields{"err": err, "url": rpcUrl}).Panic("failed to connect rpc")
	}
	currentBlockGetter := tracker.NewCurrentBlockGetter(&tracker.CurrentBlockGetterCfg{
		Client:   ethClient,
		Interval: network.GetDuration("blockTime"),
	})
	if err := currentBlockGetter.Start(context); err != nil {
		context.WithField("err", err).Panic("currentBlockGetter.Start failed")
	}

	valueUnitWei, ok := new(big.Int).SetString(viper.GetString("escrow.valueUnitWei"), 10)
	if !ok {
		context.Panic("invalid escrow.valueUnitWei")
	}

	// read only: mutating calls are executed by the auctioneer
	engine := auction_usecase.NewEngine(&auction_usecase.EngineCfg{
		Address:     domain.Address(viper.GetString("escrow.address")),
		Tx:          q,
		AuctionRepo: auction_repository.NewAuctionMongoRepo(q),
		RefundRepo:  auction_repository.NewRefundMongoRepo(q),
		EventRepo:   auction_repository.NewEventMongoRepo(q),
	})

	cacheProvider := local.New(viper.GetInt("cache.sizeMB"))
	cacheTtl := viper.GetDuration("cache.ttl")
	auction_delivery.New(e, &auction_delivery.HandlerCfg{
		Auction:      engine,
		CurrentBlock: currentBlockGetter,
		ValueUnitWei: valueUnitWei,
		RecordCache:  cache.New(cache.ServiceConfig{Ttl: cacheTtl, Prefix: "auction", Cache: cacheProvider}),
		ListCache:    cache.New(cache.ServiceConfig{Ttl: cacheTtl, Prefix: "httpCacheMiddleware", Cache: cacheProvider}),
	})

	hc_delivery.New(e, hc_usecase.New(hc_repo.New(mongoClient, currentBlockGetter)))

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	cancel()
	currentBlockGetter.Wait()

	shutdownCtx, shutdownCancel := ctx.WithTimeout(ctx.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
