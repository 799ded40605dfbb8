package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/leonwong282/mdimgup/internal/common"
)

// resolveStrategy is one step of the resolution chain. A (nil, nil)
// return means "no hit here, try the next strategy".
type resolveStrategy func(ctx context.Context) (*StorageProfile, error)

// Resolve walks the precedence chain and returns the first profile
// found:
//
//  1. Per-workspace active-profile pointer, if its target still exists.
//  2. Global active-profile pointer, if it still exists.
//  3. Legacy generic single-profile configuration.
//  4. Legacy first-generation R2 configuration.
//
// When no strategy hits, ErrNoProfileResolved is returned and the
// caller must prompt for profile creation or selection.
func (s *Store) Resolve(ctx context.Context, workspaceRoot string) (*StorageProfile, error) {
	strategies := []resolveStrategy{
		s.resolvePointer(ScopeWorkspace, workspaceRoot),
		s.resolvePointer(ScopeGlobal, ""),
		s.resolveLegacyGeneric,
		s.resolveLegacyR2,
	}

	for _, strategy := range strategies {
		p, err := strategy(ctx)
		if err != nil {
			return nil, err
		}
		if p != nil {
			return p, nil
		}
	}

	return nil, common.ErrNoProfileResolved
}

func (s *Store) resolvePointer(scope Scope, workspaceRoot string) resolveStrategy {
	return func(ctx context.Context) (*StorageProfile, error) {
		if scope == ScopeWorkspace && workspaceRoot == "" {
			return nil, nil
		}
		id, err := s.ActiveID(ctx, scope, workspaceRoot)
		if err != nil {
			return nil, err
		}
		if id == "" {
			return nil, nil
		}

		s.mu.Lock()
		p, ok := s.profiles[id]
		s.mu.Unlock()
		if !ok {
			// Stale pointer; fall through to the next strategy.
			return nil, nil
		}
		return p.Clone(), nil
	}
}

func (s *Store) resolveLegacyGeneric(ctx context.Context) (*StorageProfile, error) {
	return s.legacyProfile(LegacyGenericID), nil
}

func (s *Store) resolveLegacyR2(ctx context.Context) (*StorageProfile, error) {
	return s.legacyProfile(LegacyR2ID), nil
}

// legacyProfile synthesizes the read-only pseudo-profile for the given
// reserved id, or nil when the corresponding configuration shape is not
// present. A fresh value is built on every call; nothing is persisted.
func (s *Store) legacyProfile(id string) *StorageProfile {
	now := time.Now().UTC()

	switch id {
	case LegacyGenericID:
		if !s.legacy.HasGeneric() {
			return nil
		}
		provider := Provider(s.legacy.Provider)
		if provider == "" {
			provider = ProviderS3Compatible
		}
		region := s.legacy.Region
		if region == "" {
			region = "auto"
		}
		return &StorageProfile{
			ID:         LegacyGenericID,
			Name:       "Legacy Configuration",
			Provider:   provider,
			AccountID:  s.legacy.AccountID,
			Bucket:     s.legacy.Bucket,
			Region:     region,
			Endpoint:   s.legacy.Endpoint,
			CDNDomain:  s.legacy.CDNDomain,
			PathPrefix: legacyPathPrefix(s.legacy.PathPrefix),
			CreatedAt:  now,
			UpdatedAt:  now,
		}

	case LegacyR2ID:
		if !s.legacy.HasR2() {
			return nil
		}
		return &StorageProfile{
			ID:         LegacyR2ID,
			Name:       "Legacy R2 Configuration",
			Provider:   ProviderR2,
			AccountID:  s.legacy.R2AccountID,
			Bucket:     s.legacy.R2Bucket,
			Region:     "auto",
			CDNDomain:  s.legacy.R2Domain,
			PathPrefix: legacyPathPrefix(s.legacy.PathPrefix),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}

	return nil
}

func legacyPathPrefix(prefix string) string {
	if prefix == "" {
		return "blog"
	}
	return prefix
}

// SetCredentials stores the credential pair for a profile in the secret
// store.
func (s *Store) SetCredentials(ctx context.Context, profileID string, creds Credentials) error {
	data, err := marshalCredentials(creds)
	if err != nil {
		return err
	}
	return s.secrets.Store(ctx, credentialsKey(profileID), data)
}

// GetCredentials fetches a profile's credential pair. Legacy
// pseudo-profiles read theirs from the legacy configuration shapes.
func (s *Store) GetCredentials(ctx context.Context, profileID string) (Credentials, error) {
	switch profileID {
	case LegacyR2ID:
		return Credentials{AccessKey: s.legacy.R2AccessKey, SecretKey: s.legacy.R2SecretKey}, nil
	case LegacyGenericID:
		return Credentials{AccessKey: s.legacy.AccessKey, SecretKey: s.legacy.SecretKey}, nil
	}

	data, err := s.secrets.Get(ctx, credentialsKey(profileID))
	if err != nil {
		return Credentials{}, err
	}
	if data == nil {
		return Credentials{}, fmt.Errorf("profile %s: %w", profileID, common.ErrCredentialNotFound)
	}
	return unmarshalCredentials(data)
}

// GetWithCredentials returns a profile together with its credentials,
// resolved at call time.
func (s *Store) GetWithCredentials(ctx context.Context, profileID string) (*StorageProfile, Credentials, error) {
	p, err := s.Get(ctx, profileID)
	if err != nil {
		return nil, Credentials{}, err
	}
	creds, err := s.GetCredentials(ctx, profileID)
	if err != nil {
		return nil, Credentials{}, err
	}
	return p, creds, nil
}
