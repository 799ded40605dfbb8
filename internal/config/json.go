package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/leonwong282/mdimgup/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from zero values so the overlay only
// touches keys actually present in the file.
type JsonConfig struct {
	DataDir         *string `json:"data_dir"`
	MetadataDSN     *string `json:"metadata_dsn"`
	MaxWidth        *int    `json:"max_width"`
	ParallelUploads *int    `json:"parallel_uploads"`
	UseCache        *bool   `json:"use_cache"`
	HistoryLimit    *int    `json:"history_limit"`
	NamingPattern   *string `json:"naming_pattern"`

	// First-generation legacy shape.
	R2AccountID *string `json:"r2_account_id"`
	R2Bucket    *string `json:"r2_bucket"`
	R2AccessKey *string `json:"r2_access_key"`
	R2SecretKey *string `json:"r2_secret_key"`
	R2Domain    *string `json:"r2_domain"`

	// Second-generation legacy shape.
	Provider   *string `json:"storage_provider"`
	Bucket     *string `json:"bucket"`
	Region     *string `json:"region"`
	Endpoint   *string `json:"endpoint"`
	AccountID  *string `json:"account_id"`
	CDNDomain  *string `json:"cdn_domain"`
	AccessKey  *string `json:"access_key"`
	SecretKey  *string `json:"secret_key"`
	PathPrefix *string `json:"path_prefix"`
}

// parseJson overlays cfg with values loaded from the JSON file named by
// the -c/-config flag. When no flag is given nothing is loaded. A file
// that cannot be read or parsed aborts the load with the cause.
func parseJson(cfg *Config) error {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return nil
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", jsonConfigFile, err)
	}

	overlayString(&cfg.DataDir, jc.DataDir)
	overlayString(&cfg.MetadataDSN, jc.MetadataDSN)
	overlayInt(&cfg.MaxWidth, jc.MaxWidth)
	overlayInt(&cfg.ParallelUploads, jc.ParallelUploads)
	overlayBool(&cfg.UseCache, jc.UseCache)
	overlayInt(&cfg.HistoryLimit, jc.HistoryLimit)
	overlayString(&cfg.NamingPattern, jc.NamingPattern)

	overlayString(&cfg.Legacy.R2AccountID, jc.R2AccountID)
	overlayString(&cfg.Legacy.R2Bucket, jc.R2Bucket)
	overlayString(&cfg.Legacy.R2AccessKey, jc.R2AccessKey)
	overlayString(&cfg.Legacy.R2SecretKey, jc.R2SecretKey)
	overlayString(&cfg.Legacy.R2Domain, jc.R2Domain)

	overlayString(&cfg.Legacy.Provider, jc.Provider)
	overlayString(&cfg.Legacy.Bucket, jc.Bucket)
	overlayString(&cfg.Legacy.Region, jc.Region)
	overlayString(&cfg.Legacy.Endpoint, jc.Endpoint)
	overlayString(&cfg.Legacy.AccountID, jc.AccountID)
	overlayString(&cfg.Legacy.CDNDomain, jc.CDNDomain)
	overlayString(&cfg.Legacy.AccessKey, jc.AccessKey)
	overlayString(&cfg.Legacy.SecretKey, jc.SecretKey)
	overlayString(&cfg.Legacy.PathPrefix, jc.PathPrefix)

	return nil
}

func overlayString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func overlayInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func overlayBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
