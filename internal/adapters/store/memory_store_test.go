package store_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/icp-outreach/internal/adapters/store"
	"github.com/mikey/icp-outreach/internal/core"
)

func pendingRecord(key string) *core.DeliveryRecord {
	return &core.DeliveryRecord{
		Key:       key,
		DraftID:   "draft-1",
		Recipient: "alice@acme.example",
		Status:    core.StatusPending,
	}
}

func TestMemoryStore_ClaimCreatesOnce(t *testing.T) {
	st := store.NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	rec, claimed, err := st.Claim(ctx, "k1", pendingRecord("k1"))
	require.NoError(t, err)
	require.True(t, claimed)
	require.Equal(t, core.StatusPending, rec.Status)

	again, claimed, err := st.Claim(ctx, "k1", pendingRecord("k1"))
	require.NoError(t, err)
	require.False(t, claimed)
	require.Equal(t, rec.Key, again.Key)
}

func TestMemoryStore_ConcurrentClaimsYieldOneWinner(t *testing.T) {
	st := store.NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	const callers = 16
	var (
		wg      sync.WaitGroup
		winners atomic.Int32
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, claimed, err := st.Claim(ctx, "k1", pendingRecord("k1"))
			require.NoError(t, err)
			if claimed {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), winners.Load())
}

func TestMemoryStore_UpdateThenGet(t *testing.T) {
	st := store.NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	rec, _, err := st.Claim(ctx, "k1", pendingRecord("k1"))
	require.NoError(t, err)

	rec.Status = core.StatusSent
	rec.Attempts = 2
	require.NoError(t, st.Update(ctx, rec))

	got, err := st.Get(ctx, "k1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, core.StatusSent, got.Status)
	require.Equal(t, 2, got.Attempts)
}

func TestMemoryStore_GetUnknownKey(t *testing.T) {
	st := store.NewMemoryStore(zap.NewNop())

	got, err := st.Get(context.Background(), "missing")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestMemoryStore_ClaimReturnsCopies(t *testing.T) {
	st := store.NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	rec, _, err := st.Claim(ctx, "k1", pendingRecord("k1"))
	require.NoError(t, err)

	// Mutating the returned record must not change stored state until Update.
	rec.Status = core.StatusFailed

	got, err := st.Get(ctx, "k1")
	require.NoError(t, err)
	require.Equal(t, core.StatusPending, got.Status)
}
