package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonwong282/mdimgup/internal/profile"
)

func TestOptionsFor_R2(t *testing.T) {
	p := &profile.StorageProfile{
		Provider:  profile.ProviderR2,
		AccountID: "abc123",
		Region:    "ignored",
		Endpoint:  "https://also-ignored.example.com",
	}

	opts := OptionsFor(p, profile.Credentials{AccessKey: "ak", SecretKey: "sk"})

	assert.Equal(t, "auto", opts.Region)
	assert.Equal(t, "https://abc123.r2.cloudflarestorage.com", opts.Endpoint)
	assert.Equal(t, "ak", opts.AccessKey)
	assert.Equal(t, "sk", opts.SecretKey)
}

func TestOptionsFor_AWS(t *testing.T) {
	p := &profile.StorageProfile{
		Provider: profile.ProviderAWS,
		Region:   "eu-central-1",
	}

	opts := OptionsFor(p, profile.Credentials{})

	assert.Equal(t, "eu-central-1", opts.Region)
	assert.Empty(t, opts.Endpoint, "aws uses the default endpoint")
}

func TestOptionsFor_S3Compatible(t *testing.T) {
	p := &profile.StorageProfile{
		Provider: profile.ProviderS3Compatible,
		Endpoint: "https://minio.example.com:9000",
	}

	opts := OptionsFor(p, profile.Credentials{})

	assert.Equal(t, "us-east-1", opts.Region, "region defaults when absent")
	assert.Equal(t, "https://minio.example.com:9000", opts.Endpoint)

	p.Region = "auto"
	opts = OptionsFor(p, profile.Credentials{})
	assert.Equal(t, "auto", opts.Region)
}

func TestNewClientForProfile(t *testing.T) {
	p := &profile.StorageProfile{
		Provider:  profile.ProviderR2,
		AccountID: "abc123",
		Bucket:    "images",
	}

	client, err := NewClientForProfile(context.Background(), p, profile.Credentials{AccessKey: "ak", SecretKey: "sk"})
	require.NoError(t, err)
	assert.NotNil(t, client)
}
