package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/ranqr/internal/simulate"
)

// Default configuration constants.
const (
	defaultNumItems   = 20
	defaultNumVotes   = 1000
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultSeed       = 1
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		items   = flag.Int("items", defaultNumItems, "Number of items to seed the collection with")
		votes   = flag.Int("votes", defaultNumVotes, "Number of votes to cast")
		workers = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent voters")
		seed    = flag.Int64("seed", defaultSeed, "Seed for the simulated jury")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile = flag.String("log", "", "Log file for simulation output (default: simulation_TIMESTAMP.log)")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp()
		return
	}

	if err := simulate.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &simulate.Config{
		BaseURL:  *baseURL,
		NumItems: *items,
		NumVotes: *votes,
		Workers:  *workers,
		Seed:     *seed,
		Timeout:  *timeout,
		LogFile:  *logFile,
		Verbose:  *verbose,
	}

	if err := simulate.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		return
	}
}
