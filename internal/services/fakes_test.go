package services

import (
	"context"
	"errors"
	"park-locator-service/internal/domain"
	"park-locator-service/internal/ports"
	"sync"
	"time"
)

type fakeLocator struct {
	byDepot map[string]ports.VehicleMatch
	err     error
}

func (f *fakeLocator) Resolve(_ context.Context, depot string) (ports.VehicleMatch, error) {
	if f.err != nil {
		return ports.VehicleMatch{}, f.err
	}
	m, ok := f.byDepot[depot]
	if !ok {
		return ports.VehicleMatch{}, domain.ErrVehicleNotFound
	}
	return m, nil
}

type fakeFetcher struct {
	mu    sync.Mutex
	byID  map[int64]domain.RawPosition
	errs  map[int64]error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, id int64) (domain.RawPosition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.errs[id]; err != nil {
		return domain.RawPosition{}, err
	}
	return f.byID[id], nil
}

// memCache is an in-memory PositionCache with an injectable clock.
type memCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     time.Time
	records map[int64]domain.CachedPosition
	putErr  error
}

func newMemCache(ttl time.Duration) *memCache {
	return &memCache{
		ttl:     ttl,
		now:     time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		records: map[int64]domain.CachedPosition{},
	}
}

func (c *memCache) Get(_ context.Context, id int64) (domain.CachedPosition, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.records[id]
	if !ok || c.now.Sub(p.CachedAt) > c.ttl {
		return domain.CachedPosition{}, false
	}
	return p, true
}

func (c *memCache) Put(_ context.Context, p domain.CachedPosition) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.putErr != nil {
		return c.putErr
	}
	p.CachedAt = c.now
	c.records[p.VehicleID] = p
	return nil
}

// seed stores p as if it had been written age ago.
func (c *memCache) seed(p domain.CachedPosition, age time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p.CachedAt = c.now.Add(-age)
	c.records[p.VehicleID] = p
}

func (c *memCache) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type staticParks struct {
	parks []domain.Park
	err   error
}

func (s staticParks) ListParks(context.Context) ([]domain.Park, error) {
	return s.parks, s.err
}

var errNetwork = errors.New("dial tcp: connection refused")

func ptr(v float64) *float64 { return &v }

func square(name string, tol float64) domain.Park {
	p, err := domain.NewPark(name, [][]float64{
		{30.0, 59.0}, {30.0, 59.01}, {30.01, 59.01}, {30.01, 59.0},
	}, tol)
	if err != nil {
		panic(err)
	}
	return p
}
