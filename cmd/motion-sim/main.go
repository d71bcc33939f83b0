package main

import (
	"context"
	"flag"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/okian/romp/internal/simulate"
	"github.com/okian/romp/pkg/logger"
)

// Default configuration constants.
const (
	defaultSampleRate = 100 * time.Millisecond
	defaultMaxRun     = 45 * time.Second
	defaultTimeout    = 10 * time.Second
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9090", "Base URL of the service")
		scenario   = flag.String("scenario", "shake", "Motion scenario: "+scenarioNames())
		sampleRate = flag.Duration("rate", defaultSampleRate, "Interval between streamed samples")
		maxRun     = flag.Duration("max-run", defaultMaxRun, "Give up after this long")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *maxRun+*timeout)
	defer cancel()

	config := &simulate.Config{
		BaseURL:    *baseURL,
		Scenario:   *scenario,
		SampleRate: *sampleRate,
		MaxRun:     *maxRun,
		Timeout:    *timeout,
		Verbose:    *verbose,
	}

	stats, err := simulate.Run(ctx, config)
	if err != nil {
		logger.Get().Error(ctx, "simulation failed", logger.Error(err))
		os.Exit(1)
	}
	if !stats.Completed {
		os.Exit(1)
	}
}

// scenarioNames lists the available scenarios for the usage text.
func scenarioNames() string {
	names := make([]string, 0, len(simulate.Scenarios))
	for name := range simulate.Scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
