package profile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonwong282/mdimgup/internal/common"
)

func TestValidate_CollectsAllViolations(t *testing.T) {
	err := Validate(&StorageProfile{Provider: ProviderR2})

	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)

	assert.Contains(t, verr.Violations, "profile name is required")
	assert.Contains(t, verr.Violations, "bucket name is required")
	assert.Contains(t, verr.Violations, "CDN domain is required")
	assert.Contains(t, verr.Violations, "Cloudflare R2 requires account ID")
	assert.Len(t, verr.Violations, 4)
}

func TestValidate_ProviderRules(t *testing.T) {
	base := func(provider Provider) *StorageProfile {
		return &StorageProfile{
			Name:      "p",
			Provider:  provider,
			Bucket:    "b",
			CDNDomain: "https://cdn.example.com",
		}
	}

	tests := []struct {
		name   string
		tweak  func(*StorageProfile)
		expect string
	}{
		{"r2 without account id", func(p *StorageProfile) { p.Provider = ProviderR2 }, "account ID"},
		{"s3-compatible without endpoint", func(p *StorageProfile) { p.Provider = ProviderS3Compatible }, "endpoint URL"},
		{"aws without region", func(p *StorageProfile) { p.Provider = ProviderAWS }, "region"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base("")
			tt.tweak(p)
			err := Validate(p)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expect)
		})
	}

	t.Run("r2 with account id", func(t *testing.T) {
		p := base(ProviderR2)
		p.AccountID = "acc"
		assert.NoError(t, Validate(p))
	})
	t.Run("aws with region", func(t *testing.T) {
		p := base(ProviderAWS)
		p.Region = "eu-west-1"
		assert.NoError(t, Validate(p))
	})
}

func TestValidate_NameLength(t *testing.T) {
	p := &StorageProfile{
		Name:      strings.Repeat("x", 101),
		Provider:  ProviderAWS,
		Region:    "us-east-1",
		Bucket:    "b",
		CDNDomain: "https://cdn.example.com",
	}
	err := Validate(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most 100 characters")

	p.Name = strings.Repeat("x", 100)
	assert.NoError(t, Validate(p))
}
