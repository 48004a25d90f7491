// Package commands implements the CLI commands for the access log analyzer
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"access-log-analyzer/internal/charts"
	"access-log-analyzer/internal/config"
	"access-log-analyzer/internal/fetcher"
	"access-log-analyzer/internal/parser"
	"access-log-analyzer/internal/report"
)

// newLogger builds the progress logger shared by all commands
func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// NewAnalyzeCommand creates the 'analyze' subcommand running the full
// pipeline: fetch, parse, aggregate, report, charts.
// Usage: access-log-analyzer analyze [--url ...] [--out dir] [--top 10]
func NewAnalyzeCommand() *cobra.Command {
	var url, outDir string
	var topN int
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Download an access log and produce the full analysis",
		Long: `Download a web-server access log, parse it into structured records and
produce the analysis artifacts in the output directory:

  logs_processed.json              the full parsed-record array
  analysis_report.json             the summary report
  http_methods_distribution.png    method share pie chart
  status_codes_distribution.png    status code bar chart
  daily_requests_trend.png         per-day request line chart
  top_requested_paths.png          top requested paths bar chart

Running with no flags analyzes the default public dataset. Every setting
can also come from the environment (ACCESS_LOG_URL, ACCESS_LOG_OUT,
ACCESS_LOG_TOP, ACCESS_LOG_TIMEOUT).

Example:
  access-log-analyzer analyze
  access-log-analyzer analyze --url https://example.com/access.log --out ./reports`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.BindFlag(cmd.Flags(), "url")
			config.BindFlag(cmd.Flags(), "out")
			config.BindFlag(cmd.Flags(), "top")
			config.BindFlag(cmd.Flags(), "timeout")
			return runAnalyzeCommand(cmd.Context(), config.Load())
		},
	}

	cmd.Flags().StringVar(&url, "url", config.DefaultDatasetURL, "URL of the raw access log to download")
	cmd.Flags().StringVar(&outDir, "out", config.DefaultOutputDir, "Directory for the JSON and chart artifacts")
	cmd.Flags().IntVar(&topN, "top", config.DefaultTopPaths, "Number of paths in the top-paths breakdown")
	cmd.Flags().DurationVar(&timeout, "timeout", config.DefaultFetchTimeout, "Timeout for the log download")

	return cmd
}

// runAnalyzeCommand executes the pipeline end to end. The stages are
// strictly linear; any error before the chart stage aborts the run, while
// chart failures are logged and the report is still written.
func runAnalyzeCommand(ctx context.Context, settings config.Settings) error {
	logger := newLogger()

	logger.Info("downloading logs", "url", settings.DatasetURL)
	client := fetcher.New(settings.FetchTimeout)
	lines, err := client.Fetch(ctx, settings.DatasetURL)
	if err != nil {
		return fmt.Errorf("failed to fetch logs: %w", err)
	}

	logger.Info("analyzing logs", "lines", len(lines))
	records := parser.ParseLines(lines)
	logger.Info("processed log entries", "records", len(records))

	if err := os.MkdirAll(settings.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	recordsPath := filepath.Join(settings.OutputDir, config.RecordsFile)
	if err := report.WriteJSON(recordsPath, records); err != nil {
		return fmt.Errorf("failed to save records: %w", err)
	}
	logger.Info("records saved", "file", recordsPath)

	logger.Info("rendering charts")
	for _, renderErr := range charts.RenderAll(settings.OutputDir, records, settings.TopPaths) {
		// Best-effort: one failed chart must not stop the others or the report
		logger.Warn("chart rendering failed", "error", renderErr)
	}

	summaryReport := report.Build(records, settings.TopPaths)
	reportPath := filepath.Join(settings.OutputDir, config.ReportFile)
	if err := report.WriteJSON(reportPath, summaryReport); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	logger.Info("report generated", "file", reportPath)

	logger.Info("analysis completed",
		"total_requests", summaryReport.TotalRequests,
		"unique_clients", summaryReport.UniqueClients,
		"total_bytes", summaryReport.TotalBytesTransferred)
	return nil
}
