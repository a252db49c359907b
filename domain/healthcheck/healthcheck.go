package healthcheck

import (
	"github.com/x-xyz/auctionhouse/base/ctx"
)

type HealthCheckUsecase interface {
	Check(ctx.Ctx) error
}

// HealthCheckRepo probes the dependencies a process cannot serve without.
type HealthCheckRepo interface {
	PingDB(ctx.Ctx) error
	PingChain(ctx.Ctx) error
}
