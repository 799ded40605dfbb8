package uploader

import (
	"context"
	"fmt"
	"strings"

	"github.com/leonwong282/mdimgup/internal/common"
	"github.com/leonwong282/mdimgup/internal/history"
	"github.com/leonwong282/mdimgup/internal/logging"
	"github.com/leonwong282/mdimgup/internal/profile"
)

// UndoMode selects how far an undo goes.
type UndoMode string

const (
	// UndoLinkOnly reverts the text substitution and nothing else; the
	// remote object is never touched.
	UndoLinkOnly UndoMode = "link-only"
	// UndoLinkAndDelete additionally deletes the remote object after a
	// successful revert.
	UndoLinkAndDelete UndoMode = "link-and-delete"
)

// UndoResult reports one undo attempt. DeleteErr carries a non-fatal
// remote-delete failure; the revert and record removal stand
// regardless.
type UndoResult struct {
	Text      string
	DeleteErr error
}

// Reverter executes the undo protocol against the history ledger.
type Reverter struct {
	ledger    *history.Ledger
	profiles  *profile.Store
	newClient ClientFactory
	log       logging.Logger
}

func NewReverter(ledger *history.Ledger, profiles *profile.Store, factory ClientFactory, log logging.Logger) *Reverter {
	return &Reverter{ledger: ledger, profiles: profiles, newClient: factory, log: log}
}

// Undo reverts one upload record against the live document text.
//
// When the uploaded URL is no longer present (the document was edited
// since the upload), the operation is a no-op: ErrDocumentMismatch is
// returned and the record is kept so the user can retry.
//
// On a successful revert the record is removed unconditionally; a
// failed remote delete is reported through UndoResult.DeleteErr, never
// as an error.
func (r *Reverter) Undo(ctx context.Context, rec history.UploadRecord, text string, mode UndoMode) (*UndoResult, error) {
	if !strings.Contains(text, rec.UploadedURL) {
		return nil, fmt.Errorf("%s: %w", rec.UploadedURL, common.ErrDocumentMismatch)
	}

	result := &UndoResult{
		Text: strings.ReplaceAll(text, rec.UploadedURL, rec.OriginalPath),
	}

	if mode == UndoLinkAndDelete {
		result.DeleteErr = r.deleteRemote(ctx, rec)
		if result.DeleteErr != nil {
			r.log.Warn(ctx, "reverted link, but failed to delete from storage",
				"key", rec.UploadKey, "error", result.DeleteErr)
		}
	}

	if err := r.ledger.Delete(ctx, rec.ID); err != nil {
		return result, fmt.Errorf("remove history record: %w", err)
	}

	return result, nil
}

// deleteRemote looks up the owning profile and its credentials at undo
// time — both may have changed or disappeared since the upload — and
// issues the remote delete.
func (r *Reverter) deleteRemote(ctx context.Context, rec history.UploadRecord) error {
	p, creds, err := r.profiles.GetWithCredentials(ctx, rec.ProfileID)
	if err != nil {
		return err
	}

	client, err := r.newClient(ctx, p, creds)
	if err != nil {
		return err
	}

	return client.Delete(ctx, p.Bucket, rec.UploadKey)
}
