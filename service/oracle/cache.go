package oracle

import (
	"context"
	"fmt"
	"time"

	"github.com/bluele/gcache"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"lendpool/core"
)

// Cache wraps a price service with a short-lived LRU cache. Concurrent
// lookups of the same asset collapse into one upstream request.
func Cache(service core.IPriceOracleService, exp time.Duration) core.IPriceOracleService {
	return &cachePriceService{
		IPriceOracleService: service,
		cache:               gcache.New(512).LRU().Build(),
		sf:                  &singleflight.Group{},
		exp:                 exp,
	}
}

type cachePriceService struct {
	core.IPriceOracleService
	cache gcache.Cache
	sf    *singleflight.Group
	exp   time.Duration
}

func (s *cachePriceService) GetUnderlyingPrice(ctx context.Context, assetID string) (decimal.Decimal, error) {
	key := s.priceKey(assetID)
	if v, err := s.cache.Get(key); err == nil {
		if price, ok := v.(decimal.Decimal); ok {
			return price, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		price, err := s.IPriceOracleService.GetUnderlyingPrice(ctx, assetID)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetWithExpire(key, price, s.exp)
		return price, nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	return v.(decimal.Decimal), nil
}

func (s *cachePriceService) priceKey(assetID string) string {
	return fmt.Sprintf("price:%s", assetID)
}
