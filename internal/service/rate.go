package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benx421/digital-bank/internal/models"
	"github.com/benx421/digital-bank/internal/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

type cachedRate struct {
	fetchedAt time.Time
	rate      decimal.Decimal
}

// RateService converts amounts between currencies using stored exchange rates
type RateService struct {
	rates repository.RateRepository
	now   func() time.Time
	cache map[string]cachedRate
	group singleflight.Group
	ttl   time.Duration
	mu    sync.RWMutex
}

// NewRateService creates a RateService caching rates for ttl. A zero ttl disables caching.
func NewRateService(rates repository.RateRepository, ttl time.Duration) *RateService {
	return &RateService{
		rates: rates,
		ttl:   ttl,
		now:   time.Now,
		cache: map[string]cachedRate{},
	}
}

// Convert returns amount expressed in to, rounded to cents, and the rate
// applied. The rate is nil when both currencies match.
func (s *RateService) Convert(ctx context.Context, amount decimal.Decimal, from, to models.Currency) (decimal.Decimal, *decimal.Decimal, error) {
	return s.ConvertIn(ctx, s.rates, amount, from, to)
}

// ConvertIn is Convert with cache misses read through rates. Callers holding
// a database transaction pass its repository so the lookup reuses their
// connection instead of waiting on the pool.
func (s *RateService) ConvertIn(ctx context.Context, rates repository.RateRepository, amount decimal.Decimal, from, to models.Currency) (decimal.Decimal, *decimal.Decimal, error) {
	if from == to {
		return amount, nil, nil
	}

	rate, err := s.rate(ctx, rates, from, to)
	if err != nil {
		return decimal.Zero, nil, err
	}

	return amount.Mul(rate).Round(2), &rate, nil
}

func (s *RateService) rate(ctx context.Context, rates repository.RateRepository, from, to models.Currency) (decimal.Decimal, error) {
	key := string(from) + "/" + string(to)

	s.mu.RLock()
	cached, ok := s.cache[key]
	s.mu.RUnlock()
	if ok && s.now().Sub(cached.fetchedAt) < s.ttl {
		return cached.rate, nil
	}

	ch := s.group.DoChan(key, func() (any, error) {
		r, err := rates.Get(ctx, from, to)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.cache[key] = cachedRate{rate: r.Rate, fetchedAt: s.now()}
		s.mu.Unlock()
		return r.Rate, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return decimal.Zero, internalError("failed to load exchange rate", ctx.Err())
	}

	v, err := res.Val, res.Err
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return decimal.Zero, newError(ErrCodeRateNotFound, "no exchange rate from "+string(from)+" to "+string(to))
		}
		return decimal.Zero, internalError("failed to load exchange rate", err)
	}

	return v.(decimal.Decimal), nil
}

// Rates lists every configured exchange rate
func (s *RateService) Rates(ctx context.Context) ([]*models.ExchangeRate, error) {
	rates, err := s.rates.List(ctx)
	if err != nil {
		return nil, internalError("failed to list exchange rates", err)
	}
	return rates, nil
}
