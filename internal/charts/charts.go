// Package charts renders the four analysis chart artifacts as PNG files
package charts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	gocharts "github.com/vicanso/go-charts/v2"

	"access-log-analyzer/internal/aggregator"
	"access-log-analyzer/internal/models"
)

// Fixed artifact filenames, written into the output directory
const (
	MethodsChartFile  = "http_methods_distribution.png"
	StatusChartFile   = "status_codes_distribution.png"
	TrendChartFile    = "daily_requests_trend.png"
	TopPathsChartFile = "top_requested_paths.png"
)

const (
	chartWidth  = 1000
	chartHeight = 600
)

// RenderAll writes the four chart artifacts into outDir. Rendering is
// best-effort and non-transactional: each failure is collected and
// returned, never aborting the remaining charts. Charts over empty
// aggregates are skipped rather than drawn blank.
func RenderAll(outDir string, records []models.LogRecord, topN int) []error {
	var errs []error

	if err := MethodPie(outDir, aggregator.MethodCounts(records)); err != nil {
		errs = append(errs, fmt.Errorf("method pie chart: %w", err))
	}
	if err := StatusBar(outDir, aggregator.StatusCounts(records)); err != nil {
		errs = append(errs, fmt.Errorf("status code bar chart: %w", err))
	}
	if err := DailyTrend(outDir, aggregator.DailyCounts(records)); err != nil {
		errs = append(errs, fmt.Errorf("daily trend chart: %w", err))
	}
	if err := TopPathsBar(outDir, aggregator.TopPaths(records, topN)); err != nil {
		errs = append(errs, fmt.Errorf("top paths chart: %w", err))
	}

	return errs
}

// MethodPie renders the HTTP method share as a pie chart
func MethodPie(outDir string, methods *models.CountMap) error {
	if methods.Len() == 0 {
		return nil
	}

	labels := methods.Keys()
	values := make([]float64, 0, len(labels))
	for _, label := range labels {
		values = append(values, float64(methods.Count(label)))
	}

	p, err := gocharts.PieRender(
		values,
		gocharts.PNGTypeOption(),
		gocharts.WidthOptionFunc(chartWidth),
		gocharts.HeightOptionFunc(chartHeight),
		gocharts.TitleTextOptionFunc("HTTP Method Distribution"),
		gocharts.LegendLabelsOptionFunc(labels),
	)
	if err != nil {
		return err
	}
	return writePNG(filepath.Join(outDir, MethodsChartFile), p)
}

// StatusBar renders the status code counts as a bar chart, codes in
// ascending numeric order
func StatusBar(outDir string, statuses map[int]int) error {
	if len(statuses) == 0 {
		return nil
	}

	codes := make([]int, 0, len(statuses))
	for code := range statuses {
		codes = append(codes, code)
	}
	sort.Ints(codes)

	labels := make([]string, 0, len(codes))
	values := make([]float64, 0, len(codes))
	for _, code := range codes {
		labels = append(labels, strconv.Itoa(code))
		values = append(values, float64(statuses[code]))
	}

	p, err := gocharts.BarRender(
		[][]float64{values},
		gocharts.PNGTypeOption(),
		gocharts.WidthOptionFunc(chartWidth),
		gocharts.HeightOptionFunc(chartHeight),
		gocharts.TitleTextOptionFunc("HTTP Status Code Distribution"),
		gocharts.XAxisDataOptionFunc(labels),
	)
	if err != nil {
		return err
	}
	return writePNG(filepath.Join(outDir, StatusChartFile), p)
}

// DailyTrend renders the per-day request counts as a line chart. The
// days arrive pre-sorted chronologically from the aggregator.
func DailyTrend(outDir string, days []aggregator.DayCount) error {
	if len(days) == 0 {
		return nil
	}

	labels := make([]string, 0, len(days))
	values := make([]float64, 0, len(days))
	for _, day := range days {
		labels = append(labels, day.Date)
		values = append(values, float64(day.Count))
	}

	p, err := gocharts.LineRender(
		[][]float64{values},
		gocharts.PNGTypeOption(),
		gocharts.WidthOptionFunc(chartWidth),
		gocharts.HeightOptionFunc(chartHeight),
		gocharts.TitleTextOptionFunc("Daily Requests"),
		gocharts.XAxisDataOptionFunc(labels),
	)
	if err != nil {
		return err
	}
	return writePNG(filepath.Join(outDir, TrendChartFile), p)
}

// TopPathsBar renders the most requested paths as a horizontal bar
// chart. The category axis lists bottom-to-top, so the order is reversed
// to put the most frequent path at the top.
func TopPathsBar(outDir string, paths *models.CountMap) error {
	if paths.Len() == 0 {
		return nil
	}

	keys := paths.Keys()
	labels := make([]string, 0, len(keys))
	values := make([]float64, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		labels = append(labels, keys[i])
		values = append(values, float64(paths.Count(keys[i])))
	}

	p, err := gocharts.HorizontalBarRender(
		[][]float64{values},
		gocharts.PNGTypeOption(),
		gocharts.WidthOptionFunc(chartWidth),
		gocharts.HeightOptionFunc(chartHeight),
		gocharts.TitleTextOptionFunc("Top Requested Paths"),
		gocharts.YAxisDataOptionFunc(labels),
	)
	if err != nil {
		return err
	}
	return writePNG(filepath.Join(outDir, TopPathsChartFile), p)
}

func writePNG(path string, p *gocharts.Painter) error {
	buf, err := p.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
