// Package aggregator computes frequency distributions and summary
// statistics over a parsed record collection. Every function here is a
// pure pass over the slice; nothing mutates the records.
package aggregator

import (
	"sort"

	"access-log-analyzer/internal/models"
)

// DefaultTopPaths is the number of paths reported when no explicit limit
// is given
const DefaultTopPaths = 10

// MethodCounts returns the frequency of each HTTP method, keyed in
// first-seen order
func MethodCounts(records []models.LogRecord) *models.CountMap {
	counts := models.NewCountMap()
	for _, r := range records {
		counts.Add(r.Method)
	}
	return counts
}

// StatusCounts returns the frequency of each status code. Ordering is not
// significant for the status breakdown, so a plain map suffices;
// encoding/json stringifies the integer keys in sorted order.
func StatusCounts(records []models.LogRecord) map[int]int {
	counts := make(map[int]int)
	for _, r := range records {
		counts[r.StatusCode]++
	}
	return counts
}

// DayCount is the request count for one calendar day
type DayCount struct {
	Date  string
	Count int
}

// DailyCounts groups records by normalized date and returns the counts
// sorted lexicographically ascending by date. For the YYYY-MM-DD format
// that is chronological order, which the trend chart depends on.
// Non-normalized dates (raw timestamps that failed to parse) group under
// their raw string like any other key.
func DailyCounts(records []models.LogRecord) []DayCount {
	counts := models.NewCountMap()
	for _, r := range records {
		counts.Add(r.Date)
	}

	days := make([]DayCount, 0, counts.Len())
	for _, date := range counts.Keys() {
		days = append(days, DayCount{Date: date, Count: counts.Count(date)})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

// TopPaths returns the n most requested paths as an ordered mapping,
// descending by count. Ties keep first-seen order: the stable sort runs
// over the counter's encounter order, so equal counts never reorder.
// n <= 0 falls back to DefaultTopPaths.
func TopPaths(records []models.LogRecord, n int) *models.CountMap {
	if n <= 0 {
		n = DefaultTopPaths
	}

	counts := models.NewCountMap()
	for _, r := range records {
		counts.Add(r.Path)
	}

	paths := counts.Keys()
	sort.SliceStable(paths, func(i, j int) bool {
		return counts.Count(paths[i]) > counts.Count(paths[j])
	})
	if n > len(paths) {
		n = len(paths)
	}

	top := models.NewCountMap()
	for _, path := range paths[:n] {
		top.Set(path, counts.Count(path))
	}
	return top
}

// Summary holds the scalar statistics of one analysis pass
type Summary struct {
	TotalRequests int
	UniqueClients int
	TotalBytes    int64
	AverageBytes  float64
}

// Summarize computes the summary statistics. The average is defined as
// exactly 0 for an empty record set; this is the one explicit
// division-by-zero guard in the system.
func Summarize(records []models.LogRecord) Summary {
	clients := make(map[string]struct{})
	var totalBytes int64
	for _, r := range records {
		clients[r.Client] = struct{}{}
		totalBytes += int64(r.BytesSent)
	}

	average := 0.0
	if len(records) > 0 {
		average = float64(totalBytes) / float64(len(records))
	}

	return Summary{
		TotalRequests: len(records),
		UniqueClients: len(clients),
		TotalBytes:    totalBytes,
		AverageBytes:  average,
	}
}
