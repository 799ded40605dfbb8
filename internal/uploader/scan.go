package uploader

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	// imageTokenRe matches markdown image syntax and captures the raw
	// text between the parentheses verbatim.
	imageTokenRe = regexp.MustCompile(`!\[[^\]]*\]\(([^)]*)\)`)

	// titleRe splits a trailing quoted title (single or double quotes)
	// off the target.
	titleRe = regexp.MustCompile(`^(.*?)\s+(?:"[^"]*"|'[^']*')\s*$`)
)

// imageToken is one discovered markdown image reference.
type imageToken struct {
	// original is the verbatim inside of the parentheses, including any
	// angle brackets and title. Text substitution replaces exactly this
	// string so encoding and titles are never corrupted by the rewrite.
	original string

	// target is the URL portion: brackets and title stripped, percent
	// decoding applied. Used only for remote detection and filesystem
	// resolution.
	target string
}

// scanImageTokens discovers every image reference in the document text.
// Identical references yield one token each; deduplication is the
// pipeline's business.
func scanImageTokens(text string) []imageToken {
	matches := imageTokenRe.FindAllStringSubmatch(text, -1)
	tokens := make([]imageToken, 0, len(matches))
	for _, m := range matches {
		inside := m[1]
		tokens = append(tokens, imageToken{
			original: inside,
			target:   decodeTarget(stripTarget(inside)),
		})
	}
	return tokens
}

// stripTarget reduces the raw inside text to its URL portion: a single
// pair of surrounding angle brackets is removed if present, then a
// trailing quoted title.
func stripTarget(inside string) string {
	s := strings.TrimSpace(inside)

	if strings.HasPrefix(s, "<") {
		if end := strings.Index(s, ">"); end >= 0 {
			return s[1:end]
		}
	}

	if m := titleRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}

	return s
}

// decodeTarget undoes percent-encoding for filesystem resolution. On a
// malformed escape the raw string is kept.
func decodeTarget(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

// isRemote reports whether the decoded target already points at a
// remote http/https resource.
func isRemote(target string) bool {
	lower := strings.ToLower(target)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
