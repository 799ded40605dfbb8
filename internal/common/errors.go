// Package common defines shared sentinel errors used across the
// uploader, profile and history layers. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Profile store errors.
	ErrProfileNotFound    = errors.New("profile not found")
	ErrNameConflict       = errors.New("profile name already in use")
	ErrNoProfileResolved  = errors.New("no storage profile configured")
	ErrCredentialNotFound = errors.New("credentials not found")
	ErrImportFormat       = errors.New("invalid profile file format")

	// History / undo errors.
	ErrRecordNotFound = errors.New("history record not found")

	// ErrDocumentMismatch means the uploaded URL is no longer present in
	// the document text, so there is nothing to revert.
	ErrDocumentMismatch = errors.New("uploaded url not found in document")
)
