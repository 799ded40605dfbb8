package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leonwong282/mdimgup/internal/common"
	"github.com/leonwong282/mdimgup/internal/config"
	"github.com/leonwong282/mdimgup/internal/logging"
	"github.com/leonwong282/mdimgup/internal/secrets"
	"github.com/leonwong282/mdimgup/internal/store"
)

const (
	profilesKey        = "profiles"
	activeKey          = "active_profile"
	workspaceKeyPrefix = "active_profile:ws:"
)

func credentialsKey(profileID string) string {
	return fmt.Sprintf("profile:%s:credentials", profileID)
}

// Scope selects which active-profile pointer an operation touches.
type Scope string

const (
	ScopeGlobal    Scope = "global"
	ScopeWorkspace Scope = "workspace"
)

// Store owns profile metadata and the active-profile pointers. Profile
// metadata and credentials are two independently lockable resources:
// the store's mutex guards only the metadata map, credential access
// goes straight to the secret store.
type Store struct {
	mu       sync.Mutex
	repo     store.Repository
	secrets  secrets.Store
	legacy   config.Legacy
	profiles map[string]*StorageProfile
	log      logging.Logger
}

// NewStore loads the persisted profile set and returns a ready Store.
func NewStore(ctx context.Context, repo store.Repository, sec secrets.Store, legacy config.Legacy, log logging.Logger) (*Store, error) {
	s := &Store{
		repo:     repo,
		secrets:  sec,
		legacy:   legacy,
		profiles: make(map[string]*StorageProfile),
		log:      log,
	}

	data, err := repo.Get(ctx, profilesKey)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	if data != nil {
		var list []*StorageProfile
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("decode profiles: %w", err)
		}
		for _, p := range list {
			s.profiles[p.ID] = p
		}
	}

	return s, nil
}

// Create validates profileData, assigns identity and timestamps, and
// persists the new profile.
func (s *Store) Create(ctx context.Context, p *StorageProfile) (*StorageProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateLocked(p, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := p.Clone()
	created.ID = uuid.NewString()
	created.CreatedAt = now
	created.UpdatedAt = now
	created.LastUsed = nil

	s.profiles[created.ID] = created
	if err := s.saveLocked(ctx); err != nil {
		delete(s.profiles, created.ID)
		return nil, err
	}

	s.log.Info(ctx, "profile created", "id", created.ID, "name", created.Name)
	return created.Clone(), nil
}

// Get returns the profile with the given id. Legacy pseudo-profile ids
// resolve against the legacy configuration shapes.
func (s *Store) Get(ctx context.Context, id string) (*StorageProfile, error) {
	if strings.HasPrefix(id, "legacy-") {
		if p := s.legacyProfile(id); p != nil {
			return p, nil
		}
		return nil, fmt.Errorf("profile %s: %w", id, common.ErrProfileNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", id, common.ErrProfileNotFound)
	}
	return p.Clone(), nil
}

// Update applies a partial mutation to the profile with the given id.
// The mutation runs on a copy; id and creation time are preserved and
// the update time is bumped regardless of what the mutation did.
func (s *Store) Update(ctx context.Context, id string, mutate func(*StorageProfile)) (*StorageProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", id, common.ErrProfileNotFound)
	}

	updated := old.Clone()
	mutate(updated)

	updated.ID = old.ID
	updated.CreatedAt = old.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	if updated.UpdatedAt.Before(old.UpdatedAt) {
		updated.UpdatedAt = old.UpdatedAt
	}

	if err := s.validateLocked(updated, id); err != nil {
		return nil, err
	}

	s.profiles[id] = updated
	if err := s.saveLocked(ctx); err != nil {
		s.profiles[id] = old
		return nil, err
	}

	return updated.Clone(), nil
}

// Delete removes a profile, cascades to its credentials, and clears any
// active-profile pointer (global or workspace) referencing it.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	old, ok := s.profiles[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("profile %s: %w", id, common.ErrProfileNotFound)
	}
	delete(s.profiles, id)
	if err := s.saveLocked(ctx); err != nil {
		s.profiles[id] = old
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	if err := s.secrets.Delete(ctx, credentialsKey(id)); err != nil {
		return fmt.Errorf("delete credentials: %w", err)
	}

	return s.clearPointersTo(ctx, id)
}

// List returns all profiles, sorted by name.
func (s *Store) List(ctx context.Context) ([]*StorageProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*StorageProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		result = append(result, p.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})
	return result, nil
}

// Duplicate copies every configuration field of a profile under a new
// name. Identity, timestamps and credentials are not copied; the
// duplicate's credentials must be entered anew.
func (s *Store) Duplicate(ctx context.Context, id, newName string) (*StorageProfile, error) {
	src, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.HasName(newName) {
		return nil, fmt.Errorf("%q: %w", newName, common.ErrNameConflict)
	}

	cp := src.Clone()
	cp.Name = newName
	cp.LastUsed = nil
	return s.Create(ctx, cp)
}

// HasName reports whether any profile already uses name
// (case-insensitive).
func (s *Store) HasName(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasNameLocked(name, "")
}

func (s *Store) hasNameLocked(name, excludeID string) bool {
	for id, p := range s.profiles {
		if id == excludeID {
			continue
		}
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

func (s *Store) saveLocked(ctx context.Context) error {
	list := make([]*StorageProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode profiles: %w", err)
	}
	if err := s.repo.Set(ctx, profilesKey, data); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}
	return nil
}

// SetActive marks a profile as active in the given scope and stamps its
// lastUsed time.
func (s *Store) SetActive(ctx context.Context, id string, scope Scope, workspaceRoot string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if !strings.HasPrefix(id, "legacy-") {
		now := time.Now().UTC()
		if _, err := s.Update(ctx, id, func(p *StorageProfile) {
			p.LastUsed = &now
		}); err != nil {
			return err
		}
	}

	return s.repo.Set(ctx, pointerKey(scope, workspaceRoot), []byte(id))
}

// ActiveID returns the active profile id for the scope, or "" when none
// is set.
func (s *Store) ActiveID(ctx context.Context, scope Scope, workspaceRoot string) (string, error) {
	v, err := s.repo.Get(ctx, pointerKey(scope, workspaceRoot))
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// ClearActive removes the active-profile pointer for the scope.
func (s *Store) ClearActive(ctx context.Context, scope Scope, workspaceRoot string) error {
	return s.repo.Delete(ctx, pointerKey(scope, workspaceRoot))
}

func pointerKey(scope Scope, workspaceRoot string) string {
	if scope == ScopeWorkspace {
		return workspaceKeyPrefix + workspaceRoot
	}
	return activeKey
}

// clearPointersTo deletes every active-profile pointer whose value is
// the given id, across the global key and all workspace keys.
func (s *Store) clearPointersTo(ctx context.Context, id string) error {
	all, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	for key, value := range all {
		if key != activeKey && !strings.HasPrefix(key, workspaceKeyPrefix) {
			continue
		}
		if string(value) == id {
			if err := s.repo.Delete(ctx, key); err != nil {
				return err
			}
		}
	}
	return nil
}
