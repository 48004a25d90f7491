// Package parser converts raw access log lines into structured records
package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"access-log-analyzer/internal/models"
)

// linePattern matches one combined-format access log line:
//
//	client - - [timestamp] "method path protocol" status bytes
//
// The client and quoted-request tokens are maximal non-whitespace runs, the
// timestamp is any run of non-] characters, the status is exactly three
// digits and the byte count is either digits or the "-" sentinel. The
// pattern is anchored at the start of the line only; trailing extra fields
// (referer, user agent) are tolerated.
var linePattern = regexp.MustCompile(`^(\S+) - - \[([^\]]+)\] "(\S+) (\S+) (\S+)" (\d{3}) (\d+|-)`)

const (
	// logTimeLayout is the access log timestamp format, e.g.
	// 10/Jul/1995:08:00:00 -0500
	logTimeLayout = "02/Jan/2006:15:04:05 -0700"

	// dateLayout is the normalized per-day date format
	dateLayout = "2006-01-02"
)

// ParseLine matches a single line against the access log grammar.
// It returns the parsed record and true on a match. Lines that do not
// conform to the grammar return false and are not an error: real logs
// contain malformed lines and the policy is to skip them.
func ParseLine(line string) (models.LogRecord, bool) {
	groups := linePattern.FindStringSubmatch(line)
	if groups == nil {
		return models.LogRecord{}, false
	}

	// The grammar guarantees exactly three digits, so this cannot fail
	statusCode, _ := strconv.Atoi(groups[6])

	bytesSent := 0
	if groups[7] != "-" {
		bytesSent, _ = strconv.Atoi(groups[7])
	}

	return models.LogRecord{
		Client:     groups[1],
		Date:       normalizeDate(groups[2]),
		Method:     groups[3],
		Path:       groups[4],
		Protocol:   groups[5],
		StatusCode: statusCode,
		BytesSent:  bytesSent,
	}, true
}

// ParseLines runs the batch parse over a full log. Blank lines and lines
// failing the grammar are skipped silently; the returned records keep the
// source line order of the matched lines. A log with zero matching lines
// yields an empty, non-nil slice so the persisted array is [] rather than
// null.
func ParseLines(lines []string) []models.LogRecord {
	records := []models.LogRecord{}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if record, ok := ParseLine(line); ok {
			records = append(records, record)
		}
	}
	return records
}

// normalizeDate reformats an access log timestamp to YYYY-MM-DD.
// A timestamp that does not parse is returned verbatim: the record is
// still accepted, just with a non-normalized date.
func normalizeDate(logTime string) string {
	t, err := time.Parse(logTimeLayout, logTime)
	if err != nil {
		return logTime
	}
	return t.Format(dateLayout)
}
