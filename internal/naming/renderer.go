// Package naming renders object-key naming patterns. A pattern is a
// string with {variable} tokens; {hash:N} and {random:N} take a length
// suffix, all other variables ignore one.
package naming

import (
	"crypto/rand"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// DefaultPattern is used when a profile has no naming pattern.
const DefaultPattern = "{timestamp}-{filename}{ext}"

var (
	tokenRe = regexp.MustCompile(`\{([^}:]+)(?::(\d+))?\}`)

	// Tokens that make a rendered name unique between renders. Patterns
	// without at least one of these are rejected to prevent silent key
	// collisions.
	uniqueRe = regexp.MustCompile(`\{(timestamp|datetime|hash|counter|random)`)

	knownVars = map[string]bool{
		"timestamp": true, "date": true, "time": true, "datetime": true,
		"filename": true, "ext": true, "hash": true, "profile": true,
		"counter": true, "random": true,
	}
)

// Context carries the per-file inputs of a render.
type Context struct {
	// OriginalPath is the local path of the file being uploaded; it
	// feeds {filename} and {ext}.
	OriginalPath string
	// Hash is the content fingerprint feeding {hash}.
	Hash string
	// ProfileName feeds {profile}, sanitized to lowercase
	// alphanumeric-and-hyphen.
	ProfileName string
}

// Renderer renders naming patterns. The {counter} value is local to one
// Renderer instance: it starts at 1 and is never persisted.
type Renderer struct {
	counter atomic.Int64
}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render substitutes every recognized {variable} token in pattern.
// Unrecognized tokens are left untouched; Validate rejects them up
// front. Safe for concurrent use.
func (r *Renderer) Render(pattern string, ctx Context) string {
	basename := filepath.Base(ctx.OriginalPath)
	ext := filepath.Ext(basename)
	filename := strings.TrimSuffix(basename, ext)

	now := time.Now()
	date := now.Format("2006-01-02")
	clock := now.Format("15-04-05")

	// All {counter} occurrences within one render share a single value.
	var counterValue string

	return tokenRe.ReplaceAllStringFunc(pattern, func(token string) string {
		m := tokenRe.FindStringSubmatch(token)
		name, lengthArg := m[1], m[2]

		switch name {
		case "timestamp":
			return strconv.FormatInt(now.UnixMilli(), 10)
		case "date":
			return date
		case "time":
			return clock
		case "datetime":
			return date + "_" + clock
		case "filename":
			return filename
		case "ext":
			return ext
		case "profile":
			return sanitizeProfile(ctx.ProfileName)
		case "counter":
			if counterValue == "" {
				counterValue = fmt.Sprintf("%04d", r.counter.Add(1))
			}
			return counterValue
		case "hash":
			n := parseLength(lengthArg, 8)
			if n > len(ctx.Hash) {
				n = len(ctx.Hash)
			}
			return ctx.Hash[:n]
		case "random":
			return randomString(parseLength(lengthArg, 6))
		default:
			return token
		}
	})
}

// Validate checks a pattern: it must be non-empty, every token must use
// a recognized variable, and at least one uniqueness token must appear.
func Validate(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return fmt.Errorf("pattern cannot be empty")
	}

	for _, m := range tokenRe.FindAllStringSubmatch(pattern, -1) {
		if !knownVars[m[1]] {
			return fmt.Errorf("unknown variable: {%s}", m[1])
		}
	}

	if !uniqueRe.MatchString(pattern) {
		return fmt.Errorf("pattern must include at least one unique identifier (timestamp, datetime, hash, counter, or random)")
	}

	return nil
}

// Example renders pattern against fixed sample context, for display.
func (r *Renderer) Example(pattern string) string {
	return r.Render(pattern, Context{
		OriginalPath: "/path/to/image.png",
		Hash:         "a1b2c3d4e5f6a7b8",
		ProfileName:  "Production Blog",
	})
}

func sanitizeProfile(name string) string {
	lower := strings.ToLower(name)
	var b strings.Builder
	b.Grow(len(lower))
	for _, c := range lower {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteRune(c)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

func parseLength(arg string, def int) int {
	if arg == "" {
		return def
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

const randomAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomString(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = randomAlphabet[int(b[i])%len(randomAlphabet)]
	}
	return string(b)
}
