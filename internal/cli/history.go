package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/leonwong282/mdimgup/internal/history"
	"github.com/leonwong282/mdimgup/internal/uploader"
)

func (a *App) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and undo past uploads",
	}
	cmd.AddCommand(
		a.historyListCommand(),
		a.historyUndoCommand(),
		a.historyClearCommand(),
	)
	return cmd
}

func (a *App) historyListCommand() *cobra.Command {
	var f history.Filter
	var profileRef string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List upload records, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if profileRef != "" {
				p, err := a.findProfile(ctx, profileRef)
				if err != nil {
					return err
				}
				f.ProfileID = p.ID
			}

			records, err := a.ledger.Records(ctx, f)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tWHEN\tPROFILE\tORIGINAL\tURL")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					r.ID, r.Timestamp.Local().Format("2006-01-02 15:04"),
					r.ProfileName, r.OriginalPath, r.UploadedURL)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&profileRef, "profile", "", "only records of this profile")
	cmd.Flags().StringVar(&f.DocumentURI, "document", "", "only records of this document URI")
	cmd.Flags().IntVar(&f.Limit, "limit", 0, "maximum number of records")

	return cmd
}

func (a *App) historyUndoCommand() *cobra.Command {
	var deleteRemote bool

	cmd := &cobra.Command{
		Use:   "undo <record-id> <file.md>",
		Short: "Revert an uploaded link back to its original local reference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rec, err := a.ledger.Get(ctx, args[0])
			if err != nil {
				return err
			}

			abs, err := filepath.Abs(args[1])
			if err != nil {
				return fmt.Errorf("resolve %s: %w", args[1], err)
			}
			data, err := os.ReadFile(abs)
			if err != nil {
				return fmt.Errorf("read %s: %w", args[1], err)
			}

			mode := uploader.UndoLinkOnly
			if deleteRemote {
				mode = uploader.UndoLinkAndDelete
			}

			result, err := a.reverter.Undo(ctx, rec, string(data), mode)
			if err != nil {
				return err
			}

			if err := os.WriteFile(abs, []byte(result.Text), 0o644); err != nil {
				return fmt.Errorf("save %s: %w", args[1], err)
			}

			fmt.Fprintf(a.out, "Reverted %s in %s\n", rec.UploadedURL, args[1])
			if result.DeleteErr != nil {
				fmt.Fprintf(a.out, "Warning: link reverted, but deleting the uploaded object failed: %v\n", result.DeleteErr)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&deleteRemote, "delete", false, "also delete the uploaded object from storage")
	return cmd
}

func (a *App) historyClearCommand() *cobra.Command {
	var (
		profileRef string
		olderThan  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove upload records",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var (
				removed int
				err     error
			)
			switch {
			case profileRef != "":
				p, findErr := a.findProfile(ctx, profileRef)
				if findErr != nil {
					return findErr
				}
				removed, err = a.ledger.ClearByProfile(ctx, p.ID)
			case olderThan > 0:
				removed, err = a.ledger.ClearOlderThan(ctx, time.Now().Add(-olderThan))
			default:
				removed, err = a.ledger.Clear(ctx)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Removed %d record(s)\n", removed)
			return nil
		},
	}

	cmd.Flags().StringVar(&profileRef, "profile", "", "only records of this profile")
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "only records older than this duration, e.g. 720h")

	return cmd
}
