package config

import (
	"flag"
	"os"

	"github.com/leonwong282/mdimgup/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-d string   data directory (database, key material)
//	-s string   metadata store DSN (sqlite path or postgres:// URL)
//	-w int      maximum image width before resize
//	-p int      number of parallel uploads
//
// The function filters os.Args to only the flags it owns, using
// flagx.FilterArgs, so the cobra command tree's own flags pass through
// untouched. The same names are registered as cobra shorthands so the
// arguments are accepted there as well.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-s", "-w", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.MetadataDSN, "s", cfg.MetadataDSN, "metadata store DSN")
	fs.IntVar(&cfg.MaxWidth, "w", cfg.MaxWidth, "maximum image width")
	fs.IntVar(&cfg.ParallelUploads, "p", cfg.ParallelUploads, "parallel uploads")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
