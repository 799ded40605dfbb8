// Package history keeps the append-only, capacity-bounded ledger of
// completed uploads. Records are immutable once written; the ledger is
// a prepend-ordered list capped at a fixed maximum, with the oldest
// inserted record evicted first.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leonwong282/mdimgup/internal/common"
	"github.com/leonwong282/mdimgup/internal/store"
)

const storageKey = "upload_history"

// DefaultMaxRecords is the ledger capacity when none is configured.
const DefaultMaxRecords = 1000

// UploadRecord describes one completed upload. Profile id and name are
// denormalized so history stays meaningful after a profile is renamed
// or deleted.
type UploadRecord struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	ProfileID   string    `json:"profileId"`
	ProfileName string    `json:"profileName"`
	DocumentURI string    `json:"documentUri"`
	// OriginalPath is the verbatim original markdown token, not a
	// decoded path.
	OriginalPath string `json:"originalPath"`
	UploadedURL  string `json:"uploadedUrl"`
	UploadKey    string `json:"uploadKey"`
	FileSize     int64  `json:"fileSize"`
	FileHash     string `json:"fileHash"`
}

// Filter narrows a ledger query. Zero fields match everything.
type Filter struct {
	ProfileID   string
	DocumentURI string
	Limit       int
}

// Ledger is safe for concurrent use; upload units append records while
// running in parallel.
type Ledger struct {
	mu      sync.Mutex
	repo    store.Repository
	max     int
	records []UploadRecord
}

// Open loads the persisted ledger. maxRecords <= 0 selects
// DefaultMaxRecords.
func Open(ctx context.Context, repo store.Repository, maxRecords int) (*Ledger, error) {
	if maxRecords <= 0 {
		maxRecords = DefaultMaxRecords
	}
	l := &Ledger{repo: repo, max: maxRecords}

	data, err := repo.Get(ctx, storageKey)
	if err != nil {
		return nil, fmt.Errorf("load upload history: %w", err)
	}
	if data != nil {
		if err := json.Unmarshal(data, &l.records); err != nil {
			return nil, fmt.Errorf("decode upload history: %w", err)
		}
	}

	return l, nil
}

// Add assigns identity and timestamp, prepends the record, and evicts
// the oldest-inserted record when capacity is exceeded.
func (l *Ledger) Add(ctx context.Context, r UploadRecord) (UploadRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	r.ID = uuid.NewString()
	r.Timestamp = time.Now().UTC()

	l.records = append([]UploadRecord{r}, l.records...)
	if len(l.records) > l.max {
		l.records = l.records[:l.max]
	}

	if err := l.saveLocked(ctx); err != nil {
		return UploadRecord{}, err
	}
	return r, nil
}

// Records returns matching records, most recent first.
func (l *Ledger) Records(ctx context.Context, f Filter) ([]UploadRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var result []UploadRecord
	for _, r := range l.records {
		if f.ProfileID != "" && r.ProfileID != f.ProfileID {
			continue
		}
		if f.DocumentURI != "" && r.DocumentURI != f.DocumentURI {
			continue
		}
		result = append(result, r)
		if f.Limit > 0 && len(result) == f.Limit {
			break
		}
	}
	return result, nil
}

// Get returns the record with the given id.
func (l *Ledger) Get(ctx context.Context, id string) (UploadRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, r := range l.records {
		if r.ID == id {
			return r, nil
		}
	}
	return UploadRecord{}, fmt.Errorf("record %s: %w", id, common.ErrRecordNotFound)
}

// Delete removes the record with the given id. Deleting an absent id is
// a no-op.
func (l *Ledger) Delete(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.records[:0]
	for _, r := range l.records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	l.records = kept
	return l.saveLocked(ctx)
}

// Clear removes every record and returns the count removed.
func (l *Ledger) Clear(ctx context.Context) (int, error) {
	return l.retain(ctx, func(UploadRecord) bool { return false })
}

// ClearOlderThan removes records older than cutoff, retaining records
// with timestamp >= cutoff. Returns the count removed.
func (l *Ledger) ClearOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	return l.retain(ctx, func(r UploadRecord) bool {
		return !r.Timestamp.Before(cutoff)
	})
}

// ClearByProfile removes records belonging to the given profile.
// Returns the count removed.
func (l *Ledger) ClearByProfile(ctx context.Context, profileID string) (int, error) {
	return l.retain(ctx, func(r UploadRecord) bool {
		return r.ProfileID != profileID
	})
}

func (l *Ledger) retain(ctx context.Context, keep func(UploadRecord) bool) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	before := len(l.records)
	kept := l.records[:0]
	for _, r := range l.records {
		if keep(r) {
			kept = append(kept, r)
		}
	}
	l.records = kept

	if err := l.saveLocked(ctx); err != nil {
		return 0, err
	}
	return before - len(l.records), nil
}

func (l *Ledger) saveLocked(ctx context.Context) error {
	data, err := json.Marshal(l.records)
	if err != nil {
		return fmt.Errorf("encode upload history: %w", err)
	}
	if err := l.repo.Set(ctx, storageKey, data); err != nil {
		return fmt.Errorf("save upload history: %w", err)
	}
	return nil
}
