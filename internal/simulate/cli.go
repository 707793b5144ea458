package simulate

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/ranqr/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "simulation_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the simulation tool.
func ShowHelp() {
	os.Stdout.WriteString(`Ranqr Voting Simulator
======================

A concurrent tool for exercising a running ranqr instance: it seeds a
collection, casts votes through the matchup API, and verifies the
resulting ranking.

Usage:
  go run cmd/simulate/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -items int
        Number of items to seed the collection with (default 20)
  -votes int
        Number of votes to cast (default 1000)
  -workers int
        Number of concurrent voters (default CPU cores * 2)
  -seed int
        Seed for the simulated jury (default 1)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file for simulation output (default: simulation_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Simulate with default settings
  go run cmd/simulate/main.go

  # A bigger jury against a custom address
  go run cmd/simulate/main.go -votes 50000 -workers 16 -url http://localhost:8080
`)
}
