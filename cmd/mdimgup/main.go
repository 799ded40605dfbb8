package main

import (
	"context"
	"log"
	"os"

	"github.com/leonwong282/mdimgup/internal/buildinfo"
	"github.com/leonwong282/mdimgup/internal/cli"
	"github.com/leonwong282/mdimgup/internal/config"
)

func main() {
	// Stderr so piped command output (e.g. profile export) stays clean.
	buildinfo.Print(os.Stderr)

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}
}
