package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"access-log-analyzer/internal/config"
	"access-log-analyzer/internal/database"
	"access-log-analyzer/internal/fetcher"
	"access-log-analyzer/internal/parser"
)

// NewLoadCommand creates the 'load' subcommand for importing parsed
// records into SQLite.
// Usage: access-log-analyzer load [--file access.log | --url ...] [--db requests.db] [--append]
func NewLoadCommand() *cobra.Command {
	var logFile string
	var url string
	var dbFile string
	var appendMode bool
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load an access log into a SQLite database",
		Long: `Parse an access log and store the records in a SQLite database for
ad-hoc SQL analysis with the query command.

The log is read from a local file when --file is given, otherwise it is
downloaded from --url (defaulting to the public dataset). Lines that do
not match the access log grammar are skipped.

By default, loading replaces any existing data in the database.
Use the --append flag to add data without clearing it.

Example:
  access-log-analyzer load --file access.log --db requests.db
  access-log-analyzer load --url https://example.com/access.log --db requests.db --append`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoadCommand(cmd.Context(), logFile, url, dbFile, appendMode, timeout)
		},
	}

	cmd.Flags().StringVarP(&logFile, "file", "f", "", "Path to a local access log file")
	cmd.Flags().StringVar(&url, "url", config.DefaultDatasetURL, "URL of the raw access log (used when --file is not set)")
	cmd.Flags().StringVarP(&dbFile, "db", "d", config.DefaultDatabaseFile, config.DatabaseFileDescription)
	cmd.Flags().BoolVar(&appendMode, "append", false, "Append data to existing database (default: replace existing data)")
	cmd.Flags().DurationVar(&timeout, "timeout", config.DefaultFetchTimeout, "Timeout for the log download")

	return cmd
}

// runLoadCommand reads or downloads the log, parses it and stores the
// records in SQLite
func runLoadCommand(ctx context.Context, logFile, url, dbFile string, appendMode bool, timeout time.Duration) error {
	logger := newLogger()

	lines, err := readLogLines(ctx, logger, logFile, url, timeout)
	if err != nil {
		return err
	}

	records := parser.ParseLines(lines)
	if len(records) == 0 {
		return fmt.Errorf("no valid log records found")
	}
	logger.Info("parsed log records", "records", len(records))

	if _, err := os.Stat(dbFile); os.IsNotExist(err) && appendMode {
		logger.Warn("database file does not exist, a new one will be created", "db", dbFile)
	}

	db, err := database.Initialize(dbFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	count, err := database.InsertRecords(db, records, appendMode)
	if err != nil {
		return fmt.Errorf("failed to insert records: %w", err)
	}

	logger.Info("records loaded", "count", count, "db", dbFile, "append", appendMode)
	return nil
}

// readLogLines reads the raw log either from a local file or over HTTP
func readLogLines(ctx context.Context, logger *slog.Logger, logFile, url string, timeout time.Duration) ([]string, error) {
	if logFile != "" {
		logger.Info("reading log file", "file", logFile)
		if _, err := os.Stat(logFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("log file does not exist: %s", logFile)
		}
		data, err := os.ReadFile(logFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read log file %s: %w", logFile, err)
		}
		return strings.Split(string(data), "\n"), nil
	}

	logger.Info("downloading logs", "url", url)
	client := fetcher.New(timeout)
	lines, err := client.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch logs: %w", err)
	}
	return lines, nil
}
