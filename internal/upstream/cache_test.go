package upstream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/dafibh/fortuna/insights-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCached(t *testing.T, ttl time.Duration) (*CachedSource, *testutil.MockDataSource) {
	t.Helper()
	ds := testutil.NewMockDataSource()
	testutil.SeedUser(ds, "alice")
	testutil.SeedUser(ds, "alice2")
	cs := NewCachedSource(ds, ttl, 0)
	t.Cleanup(cs.Stop)
	return cs, ds
}

func TestCachedSource_ServesRepeatReadsFromCache(t *testing.T) {
	cs, ds := newCached(t, time.Minute)
	session := domain.Session{UserID: "alice", Token: "t1"}

	first, err := cs.GetCategories(context.Background(), session)
	require.NoError(t, err)
	second, err := cs.GetCategories(context.Background(), session)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, ds.CallCount("GetCategories"))
}

func TestCachedSource_KeysByCall(t *testing.T) {
	cs, ds := newCached(t, time.Minute)
	session := domain.Session{UserID: "alice", Token: "t1"}

	_, _ = cs.GetCustomExpenses(context.Background(), session, 3)
	_, _ = cs.GetCustomExpenses(context.Background(), session, 6)
	_, _ = cs.GetCustomExpenses(context.Background(), session, 3)
	_, _ = cs.GetCurrentExpenses(context.Background(), session)

	assert.Equal(t, 2, ds.CallCount("GetCustomExpenses"))
	assert.Equal(t, 1, ds.CallCount("GetCurrentExpenses"))
	assert.Equal(t, 3, cs.Len())
}

func TestCachedSource_DifferentTokenMisses(t *testing.T) {
	cs, ds := newCached(t, time.Minute)

	_, _ = cs.GetBudgets(context.Background(), domain.Session{UserID: "alice", Token: "t1"})
	_, _ = cs.GetBudgets(context.Background(), domain.Session{UserID: "alice", Token: "t2"})

	assert.Equal(t, 2, ds.CallCount("GetBudgets"))
}

func TestCachedSource_ErrorsAreNotCached(t *testing.T) {
	cs, ds := newCached(t, time.Minute)
	session := domain.Session{UserID: "alice", Token: "t1"}
	ds.BudgetsErr = domain.ErrUpstream

	_, err := cs.GetBudgets(context.Background(), session)
	assert.True(t, errors.Is(err, domain.ErrUpstream))

	ds.BudgetsErr = nil
	budgets, err := cs.GetBudgets(context.Background(), session)
	require.NoError(t, err)
	assert.Len(t, budgets, 2)
	assert.Equal(t, 2, ds.CallCount("GetBudgets"))
}

func TestCachedSource_Invalidate(t *testing.T) {
	cs, ds := newCached(t, time.Minute)
	alice := domain.Session{UserID: "alice", Token: "t1"}
	alice2 := domain.Session{UserID: "alice2", Token: "t1"}

	_, _ = cs.GetSixMonthsExpenses(context.Background(), alice)
	_, _ = cs.GetSixMonthsExpenses(context.Background(), alice2)
	require.Equal(t, 2, cs.Len())

	cs.Invalidate("alice")

	assert.Equal(t, 1, cs.Len(), "only alice's entries are dropped")
	_, _ = cs.GetSixMonthsExpenses(context.Background(), alice)
	_, _ = cs.GetSixMonthsExpenses(context.Background(), alice2)
	assert.Equal(t, 3, ds.CallCount("GetSixMonthsExpenses"))
}

func TestCachedSource_Expiry(t *testing.T) {
	cs, ds := newCached(t, time.Minute)
	clock := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	cs.cache.now = func() time.Time { return clock }
	session := domain.Session{UserID: "alice", Token: "t1"}

	_, _ = cs.GetCategories(context.Background(), session)
	clock = clock.Add(2 * time.Minute)
	_, _ = cs.GetCategories(context.Background(), session)

	assert.Equal(t, 2, ds.CallCount("GetCategories"))

	clock = clock.Add(2 * time.Minute)
	assert.Equal(t, 1, cs.cache.cleanExpired())
	assert.Equal(t, 0, cs.Len())
}

func TestLRUCache_EvictsOldest(t *testing.T) {
	c := newLRUCache(2, time.Minute)

	c.set("a", 1)
	c.set("b", 2)
	_, _ = c.get("a")
	c.set("c", 3)

	_, okA := c.get("a")
	_, okB := c.get("b")
	_, okC := c.get("c")
	assert.True(t, okA)
	assert.False(t, okB)
	assert.True(t, okC)
}

func TestCachedSource_StopIsIdempotent(t *testing.T) {
	cs, _ := newCached(t, time.Minute)
	assert.NotPanics(t, func() {
		cs.Stop()
		cs.Stop()
	})
}
