package history

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonwong282/mdimgup/internal/common"
	"github.com/leonwong282/mdimgup/internal/store"
)

func newLedger(t *testing.T, max int) (*Ledger, store.Repository) {
	t.Helper()
	repo := store.NewMemoryRepository()
	l, err := Open(context.Background(), repo, max)
	require.NoError(t, err)
	return l, repo
}

func TestAdd_AssignsIdentityAndPrepends(t *testing.T) {
	l, _ := newLedger(t, 0)
	ctx := context.Background()

	first, err := l.Add(ctx, UploadRecord{OriginalPath: "a.png"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.Timestamp.IsZero())

	second, err := l.Add(ctx, UploadRecord{OriginalPath: "b.png"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	records, err := l.Records(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "b.png", records[0].OriginalPath, "most recent first")
	assert.Equal(t, "a.png", records[1].OriginalPath)
}

func TestAdd_EvictsOldestAtCapacity(t *testing.T) {
	l, _ := newLedger(t, 3)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := l.Add(ctx, UploadRecord{OriginalPath: fmt.Sprintf("img-%d.png", i)})
		require.NoError(t, err)
	}

	records, err := l.Records(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "img-3.png", records[0].OriginalPath)
	assert.Equal(t, "img-1.png", records[2].OriginalPath, "the oldest record is gone")
}

func TestOpen_SurvivesRestart(t *testing.T) {
	l, repo := newLedger(t, 0)
	ctx := context.Background()

	added, err := l.Add(ctx, UploadRecord{OriginalPath: "a.png", UploadedURL: "https://cdn/a"})
	require.NoError(t, err)

	reopened, err := Open(ctx, repo, 0)
	require.NoError(t, err)

	got, err := reopened.Get(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/a", got.UploadedURL)
}

func TestRecords_Filters(t *testing.T) {
	l, _ := newLedger(t, 0)
	ctx := context.Background()

	_, err := l.Add(ctx, UploadRecord{ProfileID: "p1", DocumentURI: "file:///a.md"})
	require.NoError(t, err)
	_, err = l.Add(ctx, UploadRecord{ProfileID: "p2", DocumentURI: "file:///a.md"})
	require.NoError(t, err)
	_, err = l.Add(ctx, UploadRecord{ProfileID: "p1", DocumentURI: "file:///b.md"})
	require.NoError(t, err)

	byProfile, err := l.Records(ctx, Filter{ProfileID: "p1"})
	require.NoError(t, err)
	assert.Len(t, byProfile, 2)

	byDoc, err := l.Records(ctx, Filter{DocumentURI: "file:///a.md"})
	require.NoError(t, err)
	assert.Len(t, byDoc, 2)

	both, err := l.Records(ctx, Filter{ProfileID: "p1", DocumentURI: "file:///a.md"})
	require.NoError(t, err)
	assert.Len(t, both, 1)

	limited, err := l.Records(ctx, Filter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestGet_NotFound(t *testing.T) {
	l, _ := newLedger(t, 0)

	_, err := l.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrRecordNotFound)
}

func TestDelete(t *testing.T) {
	l, _ := newLedger(t, 0)
	ctx := context.Background()

	rec, err := l.Add(ctx, UploadRecord{OriginalPath: "a.png"})
	require.NoError(t, err)

	require.NoError(t, l.Delete(ctx, rec.ID))
	_, err = l.Get(ctx, rec.ID)
	assert.ErrorIs(t, err, common.ErrRecordNotFound)

	// Deleting an absent id is a no-op.
	assert.NoError(t, l.Delete(ctx, rec.ID))
}

func TestClear(t *testing.T) {
	l, _ := newLedger(t, 0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := l.Add(ctx, UploadRecord{})
		require.NoError(t, err)
	}

	removed, err := l.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	records, err := l.Records(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestClearByProfile(t *testing.T) {
	l, _ := newLedger(t, 0)
	ctx := context.Background()

	_, err := l.Add(ctx, UploadRecord{ProfileID: "p1"})
	require.NoError(t, err)
	_, err = l.Add(ctx, UploadRecord{ProfileID: "p2"})
	require.NoError(t, err)

	removed, err := l.ClearByProfile(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	records, err := l.Records(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "p2", records[0].ProfileID)
}

func TestClearOlderThan(t *testing.T) {
	l, _ := newLedger(t, 0)
	ctx := context.Background()

	_, err := l.Add(ctx, UploadRecord{})
	require.NoError(t, err)

	// A cutoff in the past keeps everything.
	removed, err := l.ClearOlderThan(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	// A cutoff in the future removes everything.
	removed, err = l.ClearOlderThan(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}
