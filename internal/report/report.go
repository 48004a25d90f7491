// Package report assembles the analysis summary and persists the JSON
// outputs
package report

import (
	"encoding/json"
	"fmt"
	"os"

	"access-log-analyzer/internal/aggregator"
	"access-log-analyzer/internal/models"
)

// Report is the summary document written at the end of an analysis run.
// Field names are stable; the top-paths mapping serializes in
// descending-frequency order via the ordered CountMap codec.
type Report struct {
	TotalRequests          int              `json:"total_requests"`
	UniqueClients          int              `json:"unique_clients"`
	TotalBytesTransferred  int64            `json:"total_bytes_transferred"`
	AverageBytesPerRequest float64          `json:"average_bytes_per_request"`
	HTTPMethodsCount       *models.CountMap `json:"http_methods_count"`
	StatusCodesCount       map[int]int      `json:"status_codes_count"`
	Top10Paths             *models.CountMap `json:"top_10_paths"`
}

// Build assembles the full report from one aggregation pass over the
// record collection. There is no partial-report mode: every field is
// computed from the same record set.
func Build(records []models.LogRecord, topN int) Report {
	summary := aggregator.Summarize(records)
	return Report{
		TotalRequests:          summary.TotalRequests,
		UniqueClients:          summary.UniqueClients,
		TotalBytesTransferred:  summary.TotalBytes,
		AverageBytesPerRequest: summary.AverageBytes,
		HTTPMethodsCount:       aggregator.MethodCounts(records),
		StatusCodesCount:       aggregator.StatusCounts(records),
		Top10Paths:             aggregator.TopPaths(records, topN),
	}
}

// WriteJSON persists v as indented UTF-8 JSON at path. Used for both the
// record array and the summary report.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadRecords loads a previously persisted record array. The record
// schema round-trips losslessly, so a re-read collection aggregates to
// the same results as the original.
func ReadRecords(path string) ([]models.LogRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var records []models.LogRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return records, nil
}
