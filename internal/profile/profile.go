// Package profile manages named storage configurations: CRUD,
// validation, import/export, active-profile pointers and the ordered
// resolution chain, with credentials held apart in a secret store.
package profile

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Provider identifies the kind of storage backend a profile targets.
type Provider string

const (
	ProviderR2           Provider = "cloudflare-r2"
	ProviderAWS          Provider = "aws-s3"
	ProviderS3Compatible Provider = "s3-compatible"
)

// Reserved ids of the read-only pseudo-profiles synthesized from legacy
// configuration shapes.
const (
	LegacyR2ID      = "legacy-r2"
	LegacyGenericID = "legacy-generic"
)

// StorageProfile is a named, persisted storage configuration.
// Credentials are never part of this record; they live in the secret
// store keyed by profile id.
type StorageProfile struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Provider    Provider `json:"provider"`

	Endpoint  string `json:"endpoint,omitempty"`
	Region    string `json:"region,omitempty"`
	Bucket    string `json:"bucket"`
	AccountID string `json:"accountId,omitempty"`

	CDNDomain  string `json:"cdnDomain"`
	PathPrefix string `json:"pathPrefix,omitempty"`

	// Optional per-profile overrides of the global upload defaults.
	MaxWidth        *int  `json:"maxWidth,omitempty"`
	ParallelUploads *int  `json:"parallelUploads,omitempty"`
	UseCache        *bool `json:"useCache,omitempty"`

	NamingPattern string `json:"namingPattern,omitempty"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	LastUsed  *time.Time `json:"lastUsed,omitempty"`
}

// Credentials is the secret pair stored separately from the profile.
type Credentials struct {
	AccessKey string `json:"accessKey"`
	SecretKey string `json:"secretKey"`
}

func marshalCredentials(c Credentials) ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode credentials: %w", err)
	}
	return data, nil
}

func unmarshalCredentials(data []byte) (Credentials, error) {
	var c Credentials
	if err := json.Unmarshal(data, &c); err != nil {
		return Credentials{}, fmt.Errorf("decode credentials: %w", err)
	}
	return c, nil
}

// IsLegacy reports whether p is a synthesized legacy pseudo-profile.
func (p *StorageProfile) IsLegacy() bool {
	return strings.HasPrefix(p.ID, "legacy-")
}

// Clone returns a deep copy of p.
func (p *StorageProfile) Clone() *StorageProfile {
	cp := *p
	if p.MaxWidth != nil {
		v := *p.MaxWidth
		cp.MaxWidth = &v
	}
	if p.ParallelUploads != nil {
		v := *p.ParallelUploads
		cp.ParallelUploads = &v
	}
	if p.UseCache != nil {
		v := *p.UseCache
		cp.UseCache = &v
	}
	if p.LastUsed != nil {
		v := *p.LastUsed
		cp.LastUsed = &v
	}
	return &cp
}
