package cli

import (
	"github.com/spf13/cobra"
)

// rootCommand builds the command tree. The persistent flags mirror the
// ones the config loader reads from os.Args; they are registered here so
// cobra accepts them but their values come from the config layer.
func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "mdimgup",
		Short: "Upload local markdown image references to object storage",
		Long: `mdimgup scans markdown documents for local image references, uploads
the files to S3-compatible object storage, and rewrites the references
to CDN URLs. Uploads are recorded in a history ledger and can be
undone.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringP("config", "c", "", "path to a JSON config file")
	root.PersistentFlags().StringP("data-dir", "d", "", "data directory (default ~/.mdimgup)")
	root.PersistentFlags().StringP("dsn", "s", "", "metadata store DSN (default sqlite file in the data directory)")
	root.PersistentFlags().IntP("max-width", "w", 0, "resize images wider than this before upload")
	root.PersistentFlags().IntP("parallel", "p", 0, "concurrent uploads per document")

	root.AddCommand(
		a.uploadCommand(),
		a.profileCommand(),
		a.historyCommand(),
		a.namingCommand(),
	)

	return root
}
