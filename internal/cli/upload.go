package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leonwong282/mdimgup/internal/common"
	"github.com/leonwong282/mdimgup/internal/profile"
	"github.com/leonwong282/mdimgup/internal/uploader"
)

func (a *App) uploadCommand() *cobra.Command {
	var (
		profileRef string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "upload <file.md> [file.md...]",
		Short: "Upload local images referenced by markdown files and rewrite the links",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			p, creds, err := a.resolveProfile(ctx, profileRef)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Using profile: %s\n", p.Name)

			for _, arg := range args {
				if err := a.uploadDocument(ctx, p, creds, arg, dryRun); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profileRef, "profile", "", "profile id or name (default: the active profile)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the rewritten document instead of saving it")

	return cmd
}

func (a *App) uploadDocument(ctx context.Context, p *profile.StorageProfile, creds profile.Credentials, path string, dryRun bool) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	result, err := a.uploads.Upload(ctx, uploader.Request{
		DocumentURI:  "file://" + abs,
		DocumentPath: abs,
		Text:         string(data),
		Profile:      p,
		Credentials:  creds,
	})
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Fprint(a.out, result.Text)
	} else if result.Text != string(data) {
		if err := os.WriteFile(abs, []byte(result.Text), 0o644); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
	}

	a.printSummary(path, result.Summary)
	return nil
}

func (a *App) printSummary(path string, s uploader.Summary) {
	fmt.Fprintf(a.out, "%s: %d matched, %d replaced (%d uploaded, %d reused), %d remote, %d missing, %d failed\n",
		path, s.Matched, s.Replaced, s.Uploaded, s.Reused, s.SkippedRemote, s.SkippedMissing, s.Failed)
	for _, e := range s.Errors {
		fmt.Fprintf(a.out, "  %s: %v\n", e.Token, e.Err)
	}
}

// resolveProfile selects the upload target. An explicit ref (id or
// name) wins; otherwise the active-profile chain is walked with the
// current working directory as the workspace root.
func (a *App) resolveProfile(ctx context.Context, ref string) (*profile.StorageProfile, profile.Credentials, error) {
	if ref == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, profile.Credentials{}, err
		}
		p, err := a.profiles.Resolve(ctx, cwd)
		if err != nil {
			if errors.Is(err, common.ErrNoProfileResolved) {
				return nil, profile.Credentials{}, fmt.Errorf("no active profile; create one with 'mdimgup profile add' and select it with 'mdimgup profile use'")
			}
			return nil, profile.Credentials{}, err
		}
		creds, err := a.profiles.GetCredentials(ctx, p.ID)
		if err != nil {
			return nil, profile.Credentials{}, err
		}
		return p, creds, nil
	}

	p, err := a.findProfile(ctx, ref)
	if err != nil {
		return nil, profile.Credentials{}, err
	}
	creds, err := a.profiles.GetCredentials(ctx, p.ID)
	if err != nil {
		return nil, profile.Credentials{}, err
	}
	return p, creds, nil
}

// findProfile looks a profile up by id first, then by case-insensitive
// name.
func (a *App) findProfile(ctx context.Context, ref string) (*profile.StorageProfile, error) {
	p, err := a.profiles.Get(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, common.ErrProfileNotFound) {
		return nil, err
	}

	list, err := a.profiles.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, candidate := range list {
		if strings.EqualFold(candidate.Name, ref) {
			return candidate, nil
		}
	}
	return nil, fmt.Errorf("profile %q: %w", ref, common.ErrProfileNotFound)
}
