// Package uploader runs the upload pipeline: it discovers local image
// references in a markdown document, uploads each exactly once through
// a bounded-concurrency pool, rewrites the document text to the remote
// URLs, and records every substitution in the history ledger.
package uploader

import (
	"context"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/leonwong282/mdimgup/internal/history"
	"github.com/leonwong282/mdimgup/internal/imaging"
	"github.com/leonwong282/mdimgup/internal/logging"
	"github.com/leonwong282/mdimgup/internal/naming"
	"github.com/leonwong282/mdimgup/internal/profile"
	"github.com/leonwong282/mdimgup/internal/storage"
)

// ClientFactory constructs an object-storage client for a resolved
// profile. Undo-time deletes use the same factory so both flows follow
// the per-provider construction rule.
type ClientFactory func(ctx context.Context, p *profile.StorageProfile, creds profile.Credentials) (storage.ObjectStore, error)

// Defaults are the global upload settings applied when a profile has no
// override.
type Defaults struct {
	MaxWidth        int
	ParallelUploads int
	UseCache        bool
	NamingPattern   string
}

// Orchestrator coordinates the pipeline. It owns the fingerprint→URL
// cache and the naming renderer, so {counter} and dedup state live and
// die with it.
type Orchestrator struct {
	ledger    *history.Ledger
	resizer   imaging.Resizer
	newClient ClientFactory
	defaults  Defaults
	cache     *URLCache
	renderer  *naming.Renderer
	log       logging.Logger
}

func NewOrchestrator(ledger *history.Ledger, resizer imaging.Resizer, factory ClientFactory, defaults Defaults, log logging.Logger) *Orchestrator {
	if defaults.ParallelUploads <= 0 {
		defaults.ParallelUploads = 1
	}
	if defaults.NamingPattern == "" {
		defaults.NamingPattern = naming.DefaultPattern
	}
	return &Orchestrator{
		ledger:    ledger,
		resizer:   resizer,
		newClient: factory,
		defaults:  defaults,
		cache:     NewURLCache(),
		renderer:  naming.NewRenderer(),
		log:       log,
	}
}

// Request is one upload run over one document.
type Request struct {
	// DocumentURI identifies the document in history records.
	DocumentURI string
	// DocumentPath is the document's filesystem path; relative image
	// references resolve against its directory.
	DocumentPath string
	// Text is the document content to scan and rewrite.
	Text string

	Profile     *profile.StorageProfile
	Credentials profile.Credentials
}

// ItemError is a per-reference failure, isolated from sibling units.
type ItemError struct {
	Token string
	Err   error
}

// Summary reports a batch. Matched counts every discovered token;
// Replaced counts the tokens that actually resulted in a substitution
// (uploaded or served from cache) — the two may differ and both are
// exposed.
type Summary struct {
	Matched        int
	Replaced       int
	Uploaded       int
	Reused         int
	SkippedRemote  int
	SkippedMissing int
	Failed         int
	Errors         []ItemError
}

// Result carries the rewritten document text and the batch summary.
type Result struct {
	Text    string
	Summary Summary
}

type outcome int

const (
	outcomeFailed outcome = iota
	outcomeUploaded
	outcomeReused
	outcomeSkippedRemote
	outcomeSkippedMissing
)

// unitResult is what one pipeline unit hands back to the serial phase.
type unitResult struct {
	outcome outcome
	url     string
	err     error
}

// Upload runs the pipeline. Per-item failures never abort sibling
// units or the batch; they are collected into the summary. The shared
// document text is mutated only after every unit has finished, as one
// ordered batch of substitutions, so no unit ever works from a stale
// snapshot.
func (o *Orchestrator) Upload(ctx context.Context, req Request) (*Result, error) {
	tokens := scanImageTokens(req.Text)

	result := &Result{Text: req.Text}
	result.Summary.Matched = len(tokens)
	if len(tokens) == 0 {
		return result, nil
	}

	client, err := o.newClient(ctx, req.Profile, req.Credentials)
	if err != nil {
		return nil, fmt.Errorf("construct storage client: %w", err)
	}

	settings := o.settingsFor(req.Profile)
	docDir := filepath.Dir(req.DocumentPath)

	results := make([]unitResult, len(tokens))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(settings.ParallelUploads)

	for i, tok := range tokens {
		g.Go(func() error {
			results[i] = o.runUnit(gctx, client, req, settings, docDir, tok)
			return nil
		})
	}

	// The group never returns unit errors; Wait only surfaces context
	// cancellation. Substitutions already collected stay valid either
	// way.
	_ = g.Wait()

	text := req.Text
	for i, tok := range tokens {
		r := results[i]
		switch r.outcome {
		case outcomeUploaded:
			result.Summary.Uploaded++
		case outcomeReused:
			result.Summary.Reused++
		case outcomeSkippedRemote:
			result.Summary.SkippedRemote++
		case outcomeSkippedMissing:
			result.Summary.SkippedMissing++
		case outcomeFailed:
			result.Summary.Failed++
			result.Summary.Errors = append(result.Summary.Errors, ItemError{Token: tok.original, Err: r.err})
		}
		if r.url != "" {
			// Every occurrence of the original token is rewritten, not
			// just the matched one.
			text = strings.ReplaceAll(text, tok.original, r.url)
			result.Summary.Replaced++
		}
	}
	result.Text = text

	o.log.Info(ctx, "upload batch complete",
		"document", req.DocumentURI,
		"matched", result.Summary.Matched,
		"replaced", result.Summary.Replaced,
		"uploaded", result.Summary.Uploaded,
		"failed", result.Summary.Failed,
	)

	return result, nil
}

// runUnit processes one image reference. Every error is captured in the
// returned unitResult; nothing propagates to sibling units.
func (o *Orchestrator) runUnit(ctx context.Context, client storage.ObjectStore, req Request, settings Defaults, docDir string, tok imageToken) unitResult {
	if isRemote(tok.target) {
		return unitResult{outcome: outcomeSkippedRemote}
	}

	path := tok.target
	if !filepath.IsAbs(path) {
		path = filepath.Join(docDir, path)
	}
	if _, err := os.Stat(path); err != nil {
		// Missing file is a silent skip, not a failure.
		return unitResult{outcome: outcomeSkippedMissing}
	}

	if err := ctx.Err(); err != nil {
		return unitResult{outcome: outcomeFailed, err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return unitResult{outcome: outcomeFailed, err: fmt.Errorf("read %s: %w", path, err)}
	}

	hash := fingerprint(data)

	if settings.UseCache {
		if url, ok := o.cache.Get(hash); ok {
			return unitResult{outcome: outcomeReused, url: url}
		}
	}

	if err := ctx.Err(); err != nil {
		return unitResult{outcome: outcomeFailed, err: err}
	}

	upload := data
	ext := filepath.Ext(path)
	if !isAnimated(ext) {
		upload, err = o.clampWidth(data, settings.MaxWidth)
		if err != nil {
			return unitResult{outcome: outcomeFailed, err: fmt.Errorf("resize %s: %w", path, err)}
		}
	}

	pattern := settings.NamingPattern
	name := o.renderer.Render(pattern, naming.Context{
		OriginalPath: path,
		Hash:         hash,
		ProfileName:  req.Profile.Name,
	})
	key := joinKey(req.Profile.PathPrefix, name)

	if err := client.Put(ctx, req.Profile.Bucket, key, upload, contentTypeFor(ext)); err != nil {
		return unitResult{outcome: outcomeFailed, err: err}
	}

	url := strings.TrimRight(req.Profile.CDNDomain, "/") + "/" + key
	o.cache.Set(hash, url)

	if _, err := o.ledger.Add(ctx, history.UploadRecord{
		ProfileID:    req.Profile.ID,
		ProfileName:  req.Profile.Name,
		DocumentURI:  req.DocumentURI,
		OriginalPath: tok.original,
		UploadedURL:  url,
		UploadKey:    key,
		FileSize:     int64(len(upload)),
		FileHash:     hash,
	}); err != nil {
		// The object is uploaded and the substitution will land; a
		// history write failure must not fail the unit.
		o.log.Warn(ctx, "failed to record upload history", "key", key, "error", err)
	}

	return unitResult{outcome: outcomeUploaded, url: url}
}

func (o *Orchestrator) clampWidth(data []byte, maxWidth int) ([]byte, error) {
	if maxWidth <= 0 {
		return data, nil
	}
	meta, err := o.resizer.Metadata(data)
	if err != nil {
		return nil, err
	}
	if meta.Width <= maxWidth {
		return data, nil
	}
	return o.resizer.ResizeToWidth(data, maxWidth)
}

// settingsFor overlays per-profile overrides onto the global defaults.
func (o *Orchestrator) settingsFor(p *profile.StorageProfile) Defaults {
	s := o.defaults
	if p.MaxWidth != nil {
		s.MaxWidth = *p.MaxWidth
	}
	if p.ParallelUploads != nil && *p.ParallelUploads > 0 {
		s.ParallelUploads = *p.ParallelUploads
	}
	if p.UseCache != nil {
		s.UseCache = *p.UseCache
	}
	if p.NamingPattern != "" {
		s.NamingPattern = p.NamingPattern
	}
	return s
}

// fingerprint hashes the file content: hex MD5 over the standard-base64
// encoding of the bytes. The encoding is part of the contract — it must
// stay stable within a run because it keys the dedup cache.
func fingerprint(data []byte) string {
	sum := md5.Sum([]byte(base64.StdEncoding.EncodeToString(data)))
	return hex.EncodeToString(sum[:])
}

// isAnimated reports whether the extension denotes an animated format,
// which is exempted from resizing.
func isAnimated(ext string) bool {
	return strings.EqualFold(ext, ".gif")
}

func joinKey(prefix, name string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

func contentTypeFor(ext string) string {
	if ct := mime.TypeByExtension(strings.ToLower(ext)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
