package results

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   1, // Use different DB for tests
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	require.NoError(t, client.FlushDB(ctx).Err())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.FlushDB(ctx).Err()
		_ = client.Close()
	})
	return client
}

func record(scenario string, passed bool) Record {
	r := Record{
		RunID:     "run-1",
		Scenario:  scenario,
		Group:     "quote",
		Passed:    passed,
		Duration:  120 * time.Millisecond,
		StartedAt: time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC),
	}
	if !passed {
		r.Check = "quote.outAmount"
		r.Error = "quote.outAmount: expected positive integer, got \"0\""
	}
	return r
}

func TestNewStore_NilClient(t *testing.T) {
	_, err := NewStore(nil)
	assert.Error(t, err)
}

func TestValidateScenario(t *testing.T) {
	assert.NoError(t, ValidateScenario("quote/sol_to_usdc_basic"))
	assert.NoError(t, ValidateScenario("perf.quote"))
	assert.Error(t, ValidateScenario(""))
	assert.Error(t, ValidateScenario("quote sol"))
	assert.Error(t, ValidateScenario("quote:*"))
}

func TestStore_RecordAndGet(t *testing.T) {
	store, err := NewStore(setupTestRedis(t))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, record("quote/sol_to_usdc_basic", true)))

	got, err := store.Get(ctx, "quote/sol_to_usdc_basic")
	require.NoError(t, err)
	assert.True(t, got.Passed)
	assert.Equal(t, 120*time.Millisecond, got.Duration)
	assert.True(t, got.StartedAt.Equal(record("", true).StartedAt))

	// a later run replaces the earlier one
	require.NoError(t, store.Record(ctx, record("quote/sol_to_usdc_basic", false)))
	got, err = store.Get(ctx, "quote/sol_to_usdc_basic")
	require.NoError(t, err)
	assert.False(t, got.Passed)
	assert.Equal(t, "quote.outAmount", got.Check)
}

func TestStore_GetMissing(t *testing.T) {
	store, err := NewStore(setupTestRedis(t))
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "swap/nothing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_ListAndFailing(t *testing.T) {
	store, err := NewStore(setupTestRedis(t))
	require.NoError(t, err)
	ctx := context.Background()

	empty, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, store.Record(ctx, record("swap/basic", true)))
	require.NoError(t, store.Record(ctx, record("price/single", false)))
	require.NoError(t, store.Record(ctx, record("quote/zero_amount", true)))

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "price/single", all[0].Scenario)
	assert.Equal(t, "swap/basic", all[2].Scenario)

	failing, err := store.Failing(ctx)
	require.NoError(t, err)
	require.Len(t, failing, 1)
	assert.Equal(t, "price/single", failing[0].Scenario)
}

func TestStore_Delete(t *testing.T) {
	store, err := NewStore(setupTestRedis(t))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, record("token/lst", true)))
	require.NoError(t, store.Delete(ctx, "token/lst"))

	_, err = store.Get(ctx, "token/lst")
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

type memorySink struct {
	got []Record
	err error
}

func (m *memorySink) Record(_ context.Context, r Record) error {
	m.got = append(m.got, r)
	return m.err
}

func TestMulti(t *testing.T) {
	a, b := &memorySink{}, &memorySink{err: errors.New("down")}
	err := Multi{a, b}.Record(context.Background(), record("quote/x", true))

	assert.ErrorContains(t, err, "down")
	assert.Len(t, a.got, 1)
	assert.Len(t, b.got, 1)

	assert.NoError(t, Multi{}.Record(context.Background(), record("quote/x", true)))
}
