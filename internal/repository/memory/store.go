// Package memory provides an in-process implementation of the repository
// contracts for local runs and tests.
package memory

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/benx421/digital-bank/internal/models"
	"github.com/benx421/digital-bank/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ratePair struct {
	from, to models.Currency
}

type idempotencyID struct {
	key, path string
}

type state struct {
	users        map[uuid.UUID]*models.User
	accounts     map[uuid.UUID]*models.Account
	transactions map[uuid.UUID]*models.Transaction
	sessions     map[uuid.UUID]*models.Session
	rates        map[ratePair]*models.ExchangeRate
	idempotency  map[idempotencyID]*models.IdempotencyKey
	lastSignup   *time.Time
}

func newState() *state {
	return &state{
		users:        map[uuid.UUID]*models.User{},
		accounts:     map[uuid.UUID]*models.Account{},
		transactions: map[uuid.UUID]*models.Transaction{},
		sessions:     map[uuid.UUID]*models.Session{},
		rates:        map[ratePair]*models.ExchangeRate{},
		idempotency:  map[idempotencyID]*models.IdempotencyKey{},
	}
}

// clone copies every record so a failed transaction can be rolled back
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		u := *v
		c.users[k] = &u
	}
	for k, v := range s.accounts {
		a := *v
		c.accounts[k] = &a
	}
	for k, v := range s.transactions {
		t := *v
		c.transactions[k] = &t
	}
	for k, v := range s.sessions {
		sess := *v
		c.sessions[k] = &sess
	}
	for k, v := range s.rates {
		r := *v
		c.rates[k] = &r
	}
	for k, v := range s.idempotency {
		i := *v
		c.idempotency[k] = &i
	}
	if s.lastSignup != nil {
		last := *s.lastSignup
		c.lastSignup = &last
	}
	return c
}

type txKey struct{}

// Store implements repository.Store in memory. Transactions are fully
// serialized by a single lock and rolled back from a snapshot on error.
type Store struct {
	data *state
	now  func() time.Time
	mu   sync.Mutex
}

// NewStore creates an empty store seeded with the default exchange rates
func NewStore() *Store {
	s := &Store{data: newState(), now: time.Now}
	now := s.now().UTC()
	for _, r := range []struct {
		from, to models.Currency
		rate     string
	}{
		{models.CurrencyUSD, models.CurrencyPEN, "3.75"},
		{models.CurrencyPEN, models.CurrencyUSD, "0.26666667"},
	} {
		s.data.rates[ratePair{r.from, r.to}] = &models.ExchangeRate{
			From:      r.from,
			To:        r.to,
			Rate:      decimal.RequireFromString(r.rate),
			UpdatedAt: now,
		}
	}
	return s
}

// SetRate inserts or replaces the rate converting from into to
func (s *Store) SetRate(from, to models.Currency, rate decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.rates[ratePair{from, to}] = &models.ExchangeRate{From: from, To: to, Rate: rate, UpdatedAt: s.now().UTC()}
}

// Repositories returns repositories that lock the store per call
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Accounts:       &accountRepository{store: s},
		Transactions:   &transactionRepository{store: s},
		Users:          &userRepository{store: s},
		Sessions:       &sessionRepository{store: s},
		Rates:          &rateRepository{store: s},
		SignupThrottle: &signupThrottleRepository{store: s},
		Idempotency:    &idempotencyRepository{store: s},
	}
}

// WithTx runs fn holding the store lock. Repository calls made with the
// context passed to fn join the transaction; any error restores the state
// seen when the transaction began.
func (s *Store) WithTx(ctx context.Context, _ *sql.TxOptions, fn func(ctx context.Context, repos repository.Repositories) error) error {
	if s.inTx(ctx) {
		return fn(ctx, s.Repositories())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(context.WithValue(ctx, txKey{}, s), s.Repositories()); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// PingContext always succeeds
func (s *Store) PingContext(context.Context) error {
	return nil
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// run executes f against the current state, taking the lock unless ctx
// already belongs to a transaction on this store
func (s *Store) run(ctx context.Context, f func(data *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.inTx(ctx) {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return f(s.data)
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

var _ repository.Store = (*Store)(nil)
