package cache

import (
	"errors"
	"time"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/service/cache/provider"
)

var (
	ErrNotFound = errors.New("cache not found")
)

// Loader produces the value to cache on a miss. It must return a pointer of
// the same type as the container passed alongside it.
type Loader func() (interface{}, error)

type Serializer func(interface{}) ([]byte, error)

type Deserializer func([]byte, interface{}) error

// Service caches typed values on top of a raw Provider.
type Service interface {
	GetOrLoad(c ctx.Ctx, key string, container interface{}, load Loader) error
	Get(c ctx.Ctx, key string, container interface{}) error
	Set(c ctx.Ctx, key string, value interface{}) error
	Del(c ctx.Ctx, key string) error
}

type ServiceConfig struct {
	Ttl         time.Duration
	Prefix      string
	Cache       provider.Provider
	Serialize   Serializer
	Deserialize Deserializer
}
