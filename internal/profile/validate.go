package profile

import (
	"strings"

	"github.com/leonwong282/mdimgup/internal/common"
)

const maxNameLength = 100

// Validate checks every field rule and returns a ValidationError
// carrying all violations at once; it never stops at the first.
// Name-collision checking needs the profile set and lives on the Store.
func Validate(p *StorageProfile) error {
	violations := fieldViolations(p)
	if len(violations) > 0 {
		return &common.ValidationError{Violations: violations}
	}
	return nil
}

func fieldViolations(p *StorageProfile) []string {
	var violations []string

	if strings.TrimSpace(p.Name) == "" {
		violations = append(violations, "profile name is required")
	} else if len(p.Name) > maxNameLength {
		violations = append(violations, "profile name must be at most 100 characters")
	}

	if p.Provider == "" {
		violations = append(violations, "storage provider is required")
	}

	if p.Bucket == "" {
		violations = append(violations, "bucket name is required")
	}

	if p.CDNDomain == "" {
		violations = append(violations, "CDN domain is required")
	}

	if p.Provider == ProviderR2 && p.AccountID == "" {
		violations = append(violations, "Cloudflare R2 requires account ID")
	}

	if p.Provider == ProviderS3Compatible && p.Endpoint == "" {
		violations = append(violations, "S3-compatible provider requires endpoint URL")
	}

	if p.Provider == ProviderAWS && p.Region == "" {
		violations = append(violations, "AWS S3 requires region")
	}

	return violations
}

// validateLocked runs field validation plus the name-collision check.
// excludeID skips the profile being updated so a rename to its own name
// is not a conflict. Caller holds s.mu.
func (s *Store) validateLocked(p *StorageProfile, excludeID string) error {
	violations := fieldViolations(p)

	if strings.TrimSpace(p.Name) != "" && s.hasNameLocked(p.Name, excludeID) {
		violations = append(violations, "profile name is already in use")
	}

	if len(violations) > 0 {
		return &common.ValidationError{Violations: violations}
	}
	return nil
}
