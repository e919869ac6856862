package kv

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type MemoryStoreSuite struct {
	suite.Suite
	clock *testClock
	store *MemoryStore
	ctx   context.Context
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.clock = newTestClock()
	s.store = NewMemoryStore(s.clock.Now)
	s.ctx = context.Background()
}

func (s *MemoryStoreSuite) TestGetMissingKey() {
	_, err := s.store.Get(s.ctx, "absent")
	s.Require().ErrorIs(err, ErrNotFound)
}

func (s *MemoryStoreSuite) TestSetAndGet() {
	s.Require().NoError(s.store.Set(s.ctx, "key", "value", 0))

	value, err := s.store.Get(s.ctx, "key")
	s.Require().NoError(err)
	s.Equal("value", value)
}

func (s *MemoryStoreSuite) TestExpiryIsLazy() {
	s.Require().NoError(s.store.Set(s.ctx, "key", "value", time.Minute))

	s.clock.Advance(59 * time.Second)
	_, err := s.store.Get(s.ctx, "key")
	s.Require().NoError(err)

	s.clock.Advance(time.Second)
	_, err = s.store.Get(s.ctx, "key")
	s.Require().ErrorIs(err, ErrNotFound)
}

func (s *MemoryStoreSuite) TestZeroTTLNeverExpires() {
	s.Require().NoError(s.store.Set(s.ctx, "key", "value", 0))

	s.clock.Advance(1000 * time.Hour)
	value, err := s.store.Get(s.ctx, "key")
	s.Require().NoError(err)
	s.Equal("value", value)
}

func (s *MemoryStoreSuite) TestIncrStartsWindowAtCreation() {
	count, err := s.store.Incr(s.ctx, "counter", time.Minute)
	s.Require().NoError(err)
	s.Equal(int64(1), count)

	// Later increments must not push the expiry forward.
	s.clock.Advance(30 * time.Second)
	count, err = s.store.Incr(s.ctx, "counter", time.Minute)
	s.Require().NoError(err)
	s.Equal(int64(2), count)

	s.clock.Advance(30 * time.Second)
	count, err = s.store.Incr(s.ctx, "counter", time.Minute)
	s.Require().NoError(err)
	s.Equal(int64(1), count, "expired counter should restart at 1")
}

func (s *MemoryStoreSuite) TestDelete() {
	s.Require().NoError(s.store.Set(s.ctx, "a", "1", 0))
	s.Require().NoError(s.store.Set(s.ctx, "b", "2", 0))

	s.Require().NoError(s.store.Delete(s.ctx, "a", "b", "missing"))

	_, err := s.store.Get(s.ctx, "a")
	s.Require().ErrorIs(err, ErrNotFound)
	_, err = s.store.Get(s.ctx, "b")
	s.Require().ErrorIs(err, ErrNotFound)
}
