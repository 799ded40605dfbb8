package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/leonwong282/mdimgup/internal/common"
)

const (
	exportVersion         = "1.0"
	exportCredentialsNote = "REQUIRED: Add accessKey and secretKey when importing"
	exportNotice          = "Credentials are NOT included in this export for security. You must configure them after importing."
)

type exportEnvelope struct {
	Version    string          `json:"version"`
	ExportedAt time.Time       `json:"exportedAt"`
	ExportedBy string          `json:"exportedBy"`
	Profiles   []exportProfile `json:"profiles"`
	Notice     string          `json:"_notice"`
}

type exportProfile struct {
	StorageProfile
	Credentials string `json:"_credentials"`
}

// Export serializes the given profiles (all profiles when ids is empty)
// into the versioned export envelope. Credentials are never included.
func (s *Store) Export(ctx context.Context, ids ...string) ([]byte, error) {
	var selected []*StorageProfile
	if len(ids) == 0 {
		all, err := s.List(ctx)
		if err != nil {
			return nil, err
		}
		selected = all
	} else {
		for _, id := range ids {
			p, err := s.Get(ctx, id)
			if err != nil {
				return nil, err
			}
			selected = append(selected, p)
		}
	}

	env := exportEnvelope{
		Version:    exportVersion,
		ExportedAt: time.Now().UTC(),
		ExportedBy: "mdimgup",
		Notice:     exportNotice,
	}
	for _, p := range selected {
		env.Profiles = append(env.Profiles, exportProfile{
			StorageProfile: *p,
			Credentials:    exportCredentialsNote,
		})
	}

	return json.MarshalIndent(env, "", "  ")
}

// Import creates new profiles from an export payload. Every imported
// profile is minted a new id; embedded ids and timestamps are ignored.
// Name collisions are resolved by appending " (n)" with the smallest
// available n. A malformed payload aborts the whole operation.
func (s *Store) Import(ctx context.Context, data []byte) ([]*StorageProfile, error) {
	var env exportEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrImportFormat, err)
	}
	if env.Profiles == nil {
		return nil, fmt.Errorf("%w: missing profiles array", common.ErrImportFormat)
	}

	var imported []*StorageProfile
	for _, ep := range env.Profiles {
		p := ep.StorageProfile.Clone()
		p.ID = ""
		p.CreatedAt = time.Time{}
		p.UpdatedAt = time.Time{}
		p.LastUsed = nil
		p.Name = s.availableName(p.Name)

		created, err := s.Create(ctx, p)
		if err != nil {
			return nil, err
		}
		imported = append(imported, created)
	}

	return imported, nil
}

// availableName returns name unchanged when free, otherwise the first
// of "name (1)", "name (2)", ... that is.
func (s *Store) availableName(name string) string {
	if !s.HasName(name) {
		return name
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", name, n)
		if !s.HasName(candidate) {
			return candidate
		}
	}
}
