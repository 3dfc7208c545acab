package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newRedisCache(t *testing.T) (*RedisPositionCache, *miniredis.Miniredis, *fakeClock) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := NewRedisClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = client.Close() })

	clock := newFakeClock()
	c := NewRedisPositionCache(client, 120*time.Second)
	c.now = clock.Now
	return c, mr, clock
}

func TestRedisPositionCacheRoundTrip(t *testing.T) {
	c, mr, _ := newRedisCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, samplePosition(123)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if ttl := mr.TTL(redisKey(123)); ttl != 120*time.Second {
		t.Fatalf("key ttl = %v", ttl)
	}

	got, ok := c.Get(ctx, 123)
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Lat != 59.9 || got.Lon != 30.3 || got.ParkName != "Depot A" || !got.InPark {
		t.Fatalf("got %+v", got)
	}
}

func TestRedisPositionCacheKeyExpiry(t *testing.T) {
	c, mr, _ := newRedisCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, samplePosition(1)); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(121 * time.Second)

	if _, ok := c.Get(ctx, 1); ok {
		t.Fatal("expected miss after key expiry")
	}
}

func TestRedisPositionCacheChecksStamp(t *testing.T) {
	c, mr, clock := newRedisCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, samplePosition(1)); err != nil {
		t.Fatal(err)
	}
	mr.SetTTL(redisKey(1), time.Hour)
	clock.Advance(200 * time.Second)

	if _, ok := c.Get(ctx, 1); ok {
		t.Fatal("expected miss for stale stamp")
	}
}

func TestRedisPositionCacheCorruptAndDown(t *testing.T) {
	c, mr, _ := newRedisCache(t)
	ctx := context.Background()

	if err := mr.Set(redisKey(5), "garbage"); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get(ctx, 5); ok {
		t.Fatal("expected miss for corrupt value")
	}

	mr.Close()
	if _, ok := c.Get(ctx, 5); ok {
		t.Fatal("expected miss when redis is unreachable")
	}
	if err := c.Put(ctx, samplePosition(5)); err == nil {
		t.Fatal("expected put error when redis is unreachable")
	}
}
