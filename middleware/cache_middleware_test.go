package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/service/cache"
	"github.com/x-xyz/auctionhouse/service/cache/provider/local"
)

type cacheMiddlewareSuite struct {
	suite.Suite

	svc cache.Service
}

func (s *cacheMiddlewareSuite) SetupTest() {
	s.svc = cache.New(cache.ServiceConfig{
		Ttl:    30 * time.Second,
		Prefix: "httpCacheMiddleware",
		Cache:  local.New(1),
	})
}

func TestCacheMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(cacheMiddlewareSuite))
}

func (s *cacheMiddlewareSuite) serve(target string, status int, body string) *httptest.ResponseRecorder {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), rec)
	c.Set("ctx", ctx.Background())
	h := func(c echo.Context) error {
		return c.String(status, body)
	}
	s.NoError(CacheHttp(s.svc)(h)(c))
	return rec
}

func (s *cacheMiddlewareSuite) TestHit() {
	rec := s.serve("/auctions?limit=1&offset=0", http.StatusOK, "first")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("first", rec.Body.String())

	// same query, different param order
	rec = s.serve("/auctions?offset=0&limit=1", http.StatusOK, "second")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("first", rec.Body.String())

	rec = s.serve("/auctions?offset=1&limit=1", http.StatusOK, "third")
	s.Equal("third", rec.Body.String())
}

func (s *cacheMiddlewareSuite) TestErrorNotCached() {
	rec := s.serve("/auctions", http.StatusInternalServerError, "oops")
	s.Equal(http.StatusInternalServerError, rec.Code)

	rec = s.serve("/auctions", http.StatusOK, "fine")
	s.Equal("fine", rec.Body.String())
}
