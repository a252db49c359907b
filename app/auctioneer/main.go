package main

import (
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	bCtx "github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/database/mongoclient"
	"github.com/x-xyz/auctionhouse/base/ethereum"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/base/tracker"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/healthcheck"
	mmiddleware "github.com/x-xyz/auctionhouse/middleware"
	"github.com/x-xyz/auctionhouse/service/chain"
	"github.com/x-xyz/auctionhouse/service/chain/contract"
	"github.com/x-xyz/auctionhouse/service/query"
	auction_repository "github.com/x-xyz/auctionhouse/stores/auction/repository"
	auction_usecase "github.com/x-xyz/auctionhouse/stores/auction/usecase"
	hc_delivery "github.com/x-xyz/auctionhouse/stores/healthcheck/delivery/http"
	hc_repo "github.com/x-xyz/auctionhouse/stores/healthcheck/repository"
	hc_usecase "github.com/x-xyz/auctionhouse/stores/healthcheck/usecase"
	"github.com/x-xyz/auctionhouse/stores/tracker_state/repository/mongo"
	"github.com/x-xyz/auctionhouse/stores/tracker_state/usecase"
)

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(`infra/configs/auctioneer/config.yaml`)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.SetDebug(true)
		log.Log().Info("Service RUN on DEBUG mode")
	}

	// overwrite active network in the config if the environment has been set
	viper.BindEnv("ACTIVENETWORK")
}

func main() {
	ctx, cancel := bCtx.WithCancel(bCtx.Background())

	ctxTimeout := viper.GetDuration("context.timeout")
	activeNetwork := viper.GetString("activeNetwork")
	networkInfo := viper.Sub("networks." + activeNetwork)
	if networkInfo == nil {
		ctx.WithField("network", activeNetwork).Panic("unknown network")
	}
	chainId := networkInfo.GetInt64("chainId")
	blockTime := networkInfo.GetDuration("blockTime")
	rpcUrl := networkInfo.GetString("rpcUrl")

	escrowAddress := domain.Address(viper.GetString("escrow.address")).ToLower()
	valueUnitWei, ok := new(big.Int).SetString(viper.GetString("escrow.valueUnitWei"), 10)
	if !ok {
		ctx.Panic("invalid escrow.valueUnitWei")
	}

	ctx.WithFields(log.Fields{
		"network":      activeNetwork,
		"chainId":      chainId,
		"blockTime":    blockTime,
		"rpcUrl":       rpcUrl,
		"escrow":       escrowAddress,
		"valueUnitWei": valueUnitWei.String(),
	}).Info("config")

	ctx.Info("init mongo")
	mongoClient, q := initMongo()

	ctx.Info("connecting eth client")
	rpcClient, err := ethclient.DialContext(ctx, rpcUrl)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "url": rpcUrl}).Panic("failed to connect rpc")
	}
	throttledClient := ethereum.NewThrottledClient(rpcClient, viper.GetInt("auctioneer.rpcConcurrency"))

	wallet, err := chain.NewWallet(&chain.WalletCfg{
		PrivateKey:   viper.GetString("escrow.privateKey"),
		ChainId:      chainId,
		ValueUnitWei: valueUnitWei,
	}, throttledClient)
	if err != nil {
		ctx.WithField("err", err).Panic("chain.NewWallet failed")
	}
	if !wallet.Address().Equals(escrowAddress) {
		ctx.WithField("wallet", wallet.Address()).Panic("escrow.privateKey does not match escrow.address")
	}
	chainClient := chain.NewClient(throttledClient)

	engine := auction_usecase.NewEngine(&auction_usecase.EngineCfg{
		Address:     escrowAddress,
		Tx:          q,
		AuctionRepo: auction_repository.NewAuctionMongoRepo(q),
		RefundRepo:  auction_repository.NewRefundMongoRepo(q),
		EventRepo:   auction_repository.NewEventMongoRepo(q),
		Registries:  contract.NewErc721Provider(chainClient, wallet),
		Payer:       wallet,
	})
	tsUseCase := usecase.NewTrackerStateUseCase(mongo.NewTrackerStateMongoRepo(q), ctxTimeout)

	errCh := make(chan error, 10)
	currentBlockGetter := tracker.NewCurrentBlockGetter(&tracker.CurrentBlockGetterCfg{
		Client:   throttledClient,
		Interval: blockTime,
		ErrCh:    errCh,
	})
	if err := currentBlockGetter.Start(ctx); err != nil {
		ctx.WithField("err", err).Panic("currentBlockGetter.Start failed")
	}

	callTracker, err := tracker.NewCallTracker(&tracker.CallTrackerCfg{
		ChainId:             chainId,
		Escrow:              escrowAddress,
		Tag:                 domain.DefaultTag,
		StartBlock:          viper.GetUint64("auctioneer.startBlock"),
		PollInterval:        viper.GetDuration("auctioneer.pollInterval"),
		FollowDistance:      viper.GetUint64("auctioneer.followDistance"),
		ValueUnitWei:        valueUnitWei,
		RetryStart:          viper.GetDuration("auctioneer.retryStart"),
		RetryLimit:          viper.GetDuration("auctioneer.retryLimit"),
		MaxRetries:          viper.GetInt("auctioneer.maxRetries"),
		CurrentBlockGetter:  currentBlockGetter,
		Client:              throttledClient,
		TrackerStateUseCase: tsUseCase,
		Tx:                  q,
		Handler:             tracker.NewAuctionCallHandler(engine),
		ErrorCh:             errCh,
	})
	if err != nil {
		ctx.WithField("err", err).Panic("tracker.NewCallTracker failed")
	}
	callTracker.Start(ctx)

	startEchoServer(hc_usecase.New(hc_repo.New(mongoClient, currentBlockGetter)))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	select {
	case err := <-errCh:
		ctx.WithField("err", err).Error("auctioneer error")
	case sig := <-quit:
		ctx.WithField("signal", sig).Info("received signal")
	}

	go func() {
		for range errCh {
		}
	}()
	cancel()

	callTracker.Wait()
	currentBlockGetter.Wait()
}

func initMongo() (*mongoclient.Client, query.Mongo) {
	mongoClient := mongoclient.MustConnect(mongoclient.Config{
		URI:                viper.GetString("mongo.uri"),
		AuthDBName:         viper.GetString("mongo.authDBName"),
		DBName:             viper.GetString("mongo.dbName"),
		SSL:                viper.GetBool("mongo.enableSSL"),
		PoolSizeMultiplier: 2,
	})
	return mongoClient, query.New(mongoClient)
}

// startEchoServer serves the health check of the hosting platform.
func startEchoServer(hc healthcheck.HealthCheckUsecase) {
	context := bCtx.Background()

	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	hc_delivery.New(e, hc)

	address := viper.GetString("server.address")
	context.WithField("address", address).Info("starting server")
	go func() {
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			context.WithField("err", err).Error("shutting down the server")
		}
	}()
}
