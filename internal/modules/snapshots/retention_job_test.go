package snapshots

import (
	"context"
	"testing"
	"time"

	testhelpers "github.com/aristath/oi-sentinel/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetentionJob_Run(t *testing.T) {
	db := testhelpers.NewTestDB(t, "snapshots")
	repo := NewRepository(db.Conn(), zerolog.Nop())
	ctx := context.Background()

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	old := now.Add(-8 * 24 * time.Hour).Unix()
	recent := now.Add(-2 * 24 * time.Hour).Unix()

	require.NoError(t, repo.Upsert(ctx, Observation{Timestamp: old, Side: SideCall, Strike: 100}))
	require.NoError(t, repo.Upsert(ctx, Observation{Timestamp: old, Side: SideFuture, Strike: FutureStrike}))
	require.NoError(t, repo.Upsert(ctx, Observation{Timestamp: recent, Side: SideCall, Strike: 100}))

	job := NewRetentionJob(repo, 7, zerolog.Nop())
	job.now = func() time.Time { return now }

	require.NoError(t, job.Run())
	assert.Equal(t, "snapshot_retention", job.Name())

	rows, err := repo.QuerySince(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, recent, rows[0].Timestamp)
}
