package config

// Config holds runtime settings for the mdimgup CLI.
//
// Fields:
//   - DataDir: directory holding the metadata database and key material.
//   - MetadataDSN: DSN of the metadata store. Empty means a sqlite file
//     inside DataDir; a postgres:// DSN selects the pgx-backed store.
//   - MaxWidth / ParallelUploads / UseCache: global upload defaults,
//     overridable per profile.
//   - HistoryLimit: capacity bound of the upload history ledger.
//   - NamingPattern: default object naming pattern when a profile has none.
type Config struct {
	DataDir         string
	MetadataDSN     string
	MaxWidth        int
	ParallelUploads int
	UseCache        bool
	HistoryLimit    int
	NamingPattern   string

	Legacy Legacy
}

// Legacy holds the two mutually exclusive single-profile configuration
// shapes that predate named profiles. Neither is persisted as a normal
// profile; the profile resolver synthesizes a read-only pseudo-profile
// from whichever shape is present.
type Legacy struct {
	// First-generation shape with fixed R2 field names.
	R2AccountID string
	R2Bucket    string
	R2AccessKey string
	R2SecretKey string
	R2Domain    string

	// Second-generation generic shape.
	Provider   string
	Bucket     string
	Region     string
	Endpoint   string
	AccountID  string
	CDNDomain  string
	AccessKey  string
	SecretKey  string
	PathPrefix string
}

// HasGeneric reports whether the generic legacy shape is configured.
// Presence is detected by its required field set being non-empty.
func (l Legacy) HasGeneric() bool {
	return l.Bucket != "" && l.AccessKey != ""
}

// HasR2 reports whether the first-generation R2 shape is configured.
func (l Legacy) HasR2() bool {
	return l.R2AccountID != "" && l.R2Bucket != ""
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = ""
	c.MetadataDSN = ""
	c.MaxWidth = 1280
	c.ParallelUploads = 4
	c.UseCache = true
	c.HistoryLimit = 1000
	c.NamingPattern = "{timestamp}-{filename}{ext}"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if a -c/-config file is given) and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	parseFlags(cfg)
	return cfg, nil
}
