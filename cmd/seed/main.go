package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/okian/monitor/internal/fixtures"
	"github.com/okian/monitor/pkg/logger"
)

// Default configuration constants.
const (
	defaultTimeout     = 2 * time.Minute
	defaultSeedTimeout = 5 * time.Minute
)

func main() {
	var (
		outDir  = flag.String("out", "./public", "Directory to write the sample dataset to")
		baseURL = flag.String("url", "", "Base URL of a running monitor to refresh and verify")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose = flag.Bool("verbose", false, "Log every source status")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		fixtures.SeedHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultSeedTimeout)
	defer cancel()

	stats, err := fixtures.Seed(ctx, &fixtures.SeedConfig{
		OutDir:  *outDir,
		BaseURL: *baseURL,
		Timeout: *timeout,
		Verbose: *verbose,
	})
	if err != nil {
		os.Stderr.WriteString("seed failed: " + err.Error() + "\n")
		os.Exit(1)
	}
	fmt.Printf("resources: %d  sources: %d  failed: %d  items: %d  took: %s\n",
		stats.Resources, stats.Sources, stats.Failed, stats.Items, stats.Duration.Round(time.Millisecond))
}
