package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonwong282/mdimgup/internal/common"
	"github.com/leonwong282/mdimgup/internal/config"
	"github.com/leonwong282/mdimgup/internal/logging"
	"github.com/leonwong282/mdimgup/internal/secrets"
	"github.com/leonwong282/mdimgup/internal/store"
)

func newTestStore(t *testing.T, legacy config.Legacy) (*Store, store.Repository, secrets.Store) {
	t.Helper()
	repo := store.NewMemoryRepository()
	sec := secrets.NewMemoryStore()
	s, err := NewStore(context.Background(), repo, sec, legacy, logging.NewNopLogger())
	require.NoError(t, err)
	return s, repo, sec
}

func validProfile(name string) *StorageProfile {
	return &StorageProfile{
		Name:      name,
		Provider:  ProviderS3Compatible,
		Endpoint:  "https://minio.example.com",
		Bucket:    "images",
		CDNDomain: "https://cdn.example.com",
	}
}

func TestCreate_AssignsIdentityAndTimestamps(t *testing.T) {
	s, _, _ := newTestStore(t, config.Legacy{})
	ctx := context.Background()

	created, err := s.Create(ctx, validProfile("blog"))
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.Nil(t, created.LastUsed)
}

func TestCreate_SurvivesRestart(t *testing.T) {
	s, repo, sec := newTestStore(t, config.Legacy{})
	ctx := context.Background()

	created, err := s.Create(ctx, validProfile("blog"))
	require.NoError(t, err)

	reopened, err := NewStore(ctx, repo, sec, config.Legacy{}, logging.NewNopLogger())
	require.NoError(t, err)

	got, err := reopened.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "blog", got.Name)
}

func TestCreate_NameConflictCaseInsensitive(t *testing.T) {
	s, _, _ := newTestStore(t, config.Legacy{})
	ctx := context.Background()

	_, err := s.Create(ctx, validProfile("Blog"))
	require.NoError(t, err)

	_, err = s.Create(ctx, validProfile("blog"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already in use")
}

func TestUpdate_PreservesIdentity(t *testing.T) {
	s, _, _ := newTestStore(t, config.Legacy{})
	ctx := context.Background()

	created, err := s.Create(ctx, validProfile("blog"))
	require.NoError(t, err)

	updated, err := s.Update(ctx, created.ID, func(p *StorageProfile) {
		p.ID = "hijacked"
		p.Name = "renamed"
		p.Bucket = "other"
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID, "mutation cannot change identity")
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, "other", updated.Bucket)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestUpdate_RenameToOwnNameIsNotAConflict(t *testing.T) {
	s, _, _ := newTestStore(t, config.Legacy{})
	ctx := context.Background()

	created, err := s.Create(ctx, validProfile("blog"))
	require.NoError(t, err)

	_, err = s.Update(ctx, created.ID, func(p *StorageProfile) {
		p.Description = "same name, new description"
	})
	assert.NoError(t, err)
}

func TestUpdate_NotFound(t *testing.T) {
	s, _, _ := newTestStore(t, config.Legacy{})

	_, err := s.Update(context.Background(), "nope", func(p *StorageProfile) {})
	assert.ErrorIs(t, err, common.ErrProfileNotFound)
}

func TestDelete_CascadesCredentialsAndPointers(t *testing.T) {
	s, repo, sec := newTestStore(t, config.Legacy{})
	ctx := context.Background()

	created, err := s.Create(ctx, validProfile("blog"))
	require.NoError(t, err)
	require.NoError(t, s.SetCredentials(ctx, created.ID, Credentials{AccessKey: "ak", SecretKey: "sk"}))
	require.NoError(t, s.SetActive(ctx, created.ID, ScopeGlobal, ""))
	require.NoError(t, s.SetActive(ctx, created.ID, ScopeWorkspace, "/home/alice/blog"))

	require.NoError(t, s.Delete(ctx, created.ID))

	_, err = s.Get(ctx, created.ID)
	assert.ErrorIs(t, err, common.ErrProfileNotFound)

	data, err := sec.Get(ctx, "profile:"+created.ID+":credentials")
	require.NoError(t, err)
	assert.Nil(t, data, "credentials removed with the profile")

	global, err := s.ActiveID(ctx, ScopeGlobal, "")
	require.NoError(t, err)
	assert.Empty(t, global)

	ws, err := s.ActiveID(ctx, ScopeWorkspace, "/home/alice/blog")
	require.NoError(t, err)
	assert.Empty(t, ws)

	// The profile list key persists as an empty set.
	stored, err := repo.Get(ctx, "profiles")
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

func TestDelete_KeepsOtherProfilesPointers(t *testing.T) {
	s, _, _ := newTestStore(t, config.Legacy{})
	ctx := context.Background()

	a, err := s.Create(ctx, validProfile("a"))
	require.NoError(t, err)
	b, err := s.Create(ctx, validProfile("b"))
	require.NoError(t, err)
	require.NoError(t, s.SetActive(ctx, b.ID, ScopeGlobal, ""))

	require.NoError(t, s.Delete(ctx, a.ID))

	active, err := s.ActiveID(ctx, ScopeGlobal, "")
	require.NoError(t, err)
	assert.Equal(t, b.ID, active)
}

func TestList_SortedByName(t *testing.T) {
	s, _, _ := newTestStore(t, config.Legacy{})
	ctx := context.Background()

	for _, name := range []string{"zeta", "Alpha", "mid"} {
		_, err := s.Create(ctx, validProfile(name))
		require.NoError(t, err)
	}

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Alpha", list[0].Name)
	assert.Equal(t, "mid", list[1].Name)
	assert.Equal(t, "zeta", list[2].Name)
}

func TestDuplicate(t *testing.T) {
	s, _, _ := newTestStore(t, config.Legacy{})
	ctx := context.Background()

	width := 800
	src := validProfile("blog")
	src.MaxWidth = &width
	src.NamingPattern = "{hash:12}{ext}"
	created, err := s.Create(ctx, src)
	require.NoError(t, err)
	require.NoError(t, s.SetCredentials(ctx, created.ID, Credentials{AccessKey: "ak", SecretKey: "sk"}))

	dup, err := s.Duplicate(ctx, created.ID, "blog-copy")
	require.NoError(t, err)

	assert.NotEqual(t, created.ID, dup.ID)
	assert.Equal(t, "blog-copy", dup.Name)
	assert.Equal(t, created.Bucket, dup.Bucket)
	require.NotNil(t, dup.MaxWidth)
	assert.Equal(t, 800, *dup.MaxWidth)
	assert.Equal(t, "{hash:12}{ext}", dup.NamingPattern)

	// Credentials never follow a duplicate.
	_, err = s.GetCredentials(ctx, dup.ID)
	assert.ErrorIs(t, err, common.ErrCredentialNotFound)
}

func TestDuplicate_NameConflict(t *testing.T) {
	s, _, _ := newTestStore(t, config.Legacy{})
	ctx := context.Background()

	created, err := s.Create(ctx, validProfile("blog"))
	require.NoError(t, err)
	_, err = s.Create(ctx, validProfile("other"))
	require.NoError(t, err)

	_, err = s.Duplicate(ctx, created.ID, "other")
	assert.ErrorIs(t, err, common.ErrNameConflict)
}

func TestSetActive_StampsLastUsed(t *testing.T) {
	s, _, _ := newTestStore(t, config.Legacy{})
	ctx := context.Background()

	created, err := s.Create(ctx, validProfile("blog"))
	require.NoError(t, err)

	require.NoError(t, s.SetActive(ctx, created.ID, ScopeGlobal, ""))

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.LastUsed)
}

func TestSetActive_UnknownProfile(t *testing.T) {
	s, _, _ := newTestStore(t, config.Legacy{})

	err := s.SetActive(context.Background(), "nope", ScopeGlobal, "")
	assert.ErrorIs(t, err, common.ErrProfileNotFound)
}

func TestCredentialsRoundtrip(t *testing.T) {
	s, _, _ := newTestStore(t, config.Legacy{})
	ctx := context.Background()

	created, err := s.Create(ctx, validProfile("blog"))
	require.NoError(t, err)

	require.NoError(t, s.SetCredentials(ctx, created.ID, Credentials{AccessKey: "AKIA", SecretKey: "shh"}))

	creds, err := s.GetCredentials(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, Credentials{AccessKey: "AKIA", SecretKey: "shh"}, creds)
}

func TestGetCredentials_Missing(t *testing.T) {
	s, _, _ := newTestStore(t, config.Legacy{})

	_, err := s.GetCredentials(context.Background(), "some-id")
	assert.ErrorIs(t, err, common.ErrCredentialNotFound)
}
