package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, c.DataDir, "")
	assert.Equal(t, c.MetadataDSN, "")
	assert.Equal(t, c.MaxWidth, 1280)
	assert.Equal(t, c.ParallelUploads, 4)
	assert.Equal(t, c.UseCache, true)
	assert.Equal(t, c.HistoryLimit, 1000)
	assert.Equal(t, c.NamingPattern, "{timestamp}-{filename}{ext}")
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	c, err := LoadConfig()

	require.NoError(t, err)
	require.NotNil(t, c, "LoadConfig must not return nil")
	assert.Equal(t, c.MaxWidth, 1280)
	assert.Equal(t, c.ParallelUploads, 4)
	assert.Equal(t, c.UseCache, true)
}

func TestLoadConfig_MissingFileFails(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"mdimgup", "-c", filepath.Join(t.TempDir(), "absent.json")}
	defer func() { os.Args = oldArgs }()

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestLoadConfig_MalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	oldArgs := os.Args
	os.Args = []string{"mdimgup", "-c", path}
	defer func() { os.Args = oldArgs }()

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestParseJson_OverlaysOnlyPresentKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"max_width": 800,
		"use_cache": false,
		"bucket": "legacy-bucket",
		"access_key": "legacy-ak",
		"r2_account_id": "acc"
	}`), 0o600))

	oldArgs := os.Args
	os.Args = []string{"mdimgup", "-c", path}
	defer func() { os.Args = oldArgs }()

	var c Config
	c.LoadDefaults()
	require.NoError(t, parseJson(&c))

	assert.Equal(t, 800, c.MaxWidth)
	assert.False(t, c.UseCache)
	assert.Equal(t, 4, c.ParallelUploads, "absent keys keep their defaults")
	assert.Equal(t, "legacy-bucket", c.Legacy.Bucket)
	assert.Equal(t, "legacy-ak", c.Legacy.AccessKey)
	assert.Equal(t, "acc", c.Legacy.R2AccountID)
}

func TestParseJson_NoFlagNoLoad(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"mdimgup", "upload", "post.md"}
	defer func() { os.Args = oldArgs }()

	var c Config
	c.LoadDefaults()
	require.NoError(t, parseJson(&c))

	assert.Equal(t, 1280, c.MaxWidth)
}

func TestParseFlags(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"mdimgup", "upload", "-d", "/data", "-w", "640", "-p", "2", "post.md"}
	defer func() { os.Args = oldArgs }()

	var c Config
	c.LoadDefaults()
	parseFlags(&c)

	assert.Equal(t, "/data", c.DataDir)
	assert.Equal(t, 640, c.MaxWidth)
	assert.Equal(t, 2, c.ParallelUploads)
}

func TestLegacyShapeDetection(t *testing.T) {
	var l Legacy
	assert.False(t, l.HasGeneric())
	assert.False(t, l.HasR2())

	l.Bucket = "b"
	assert.False(t, l.HasGeneric(), "bucket alone is not enough")
	l.AccessKey = "ak"
	assert.True(t, l.HasGeneric())

	var r Legacy
	r.R2AccountID = "acc"
	assert.False(t, r.HasR2())
	r.R2Bucket = "b"
	assert.True(t, r.HasR2())
}
