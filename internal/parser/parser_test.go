package parser

import (
	"testing"

	"access-log-analyzer/internal/models"
)

// TestParseLine tests single-line parsing against the access log grammar
func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    models.LogRecord
		wantOK  bool
	}{
		{
			name: "well-formed line",
			line: `127.0.0.1 - - [10/Jul/1995:08:00:00 -0500] "GET /index.html HTTP/1.0" 200 1024`,
			want: models.LogRecord{
				Client:     "127.0.0.1",
				Date:       "1995-07-10",
				Method:     "GET",
				Path:       "/index.html",
				Protocol:   "HTTP/1.0",
				StatusCode: 200,
				BytesSent:  1024,
			},
			wantOK: true,
		},
		{
			name: "sentinel byte count maps to zero",
			line: `93.180.71.3 - - [17/May/2015:08:05:32 +0000] "GET /downloads/product_1 HTTP/1.1" 304 -`,
			want: models.LogRecord{
				Client:     "93.180.71.3",
				Date:       "2015-05-17",
				Method:     "GET",
				Path:       "/downloads/product_1",
				Protocol:   "HTTP/1.1",
				StatusCode: 304,
				BytesSent:  0,
			},
			wantOK: true,
		},
		{
			name: "trailing fields are tolerated",
			line: `93.180.71.3 - - [17/May/2015:08:05:32 +0000] "GET /downloads/product_1 HTTP/1.1" 404 340 "-" "Debian APT-HTTP/1.3"`,
			want: models.LogRecord{
				Client:     "93.180.71.3",
				Date:       "2015-05-17",
				Method:     "GET",
				Path:       "/downloads/product_1",
				Protocol:   "HTTP/1.1",
				StatusCode: 404,
				BytesSent:  340,
			},
			wantOK: true,
		},
		{
			name: "unparseable timestamp retains raw string",
			line: `10.0.0.1 - - [not-a-timestamp] "POST /submit HTTP/1.1" 201 55`,
			want: models.LogRecord{
				Client:     "10.0.0.1",
				Date:       "not-a-timestamp",
				Method:     "POST",
				Path:       "/submit",
				Protocol:   "HTTP/1.1",
				StatusCode: 201,
				BytesSent:  55,
			},
			wantOK: true,
		},
		{
			name:   "missing request quotes",
			line:   `127.0.0.1 - - [10/Jul/1995:08:00:00 -0500] GET /index.html HTTP/1.0 200 1024`,
			wantOK: false,
		},
		{
			name:   "two-digit status code",
			line:   `127.0.0.1 - - [10/Jul/1995:08:00:00 -0500] "GET / HTTP/1.0" 20 1024`,
			wantOK: false,
		},
		{
			name:   "empty line",
			line:   "",
			wantOK: false,
		},
		{
			name:   "arbitrary garbage",
			line:   "this is not an access log line",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLine(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("ParseLine() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseLine() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestParseLines tests the lenient batch parse
func TestParseLines(t *testing.T) {
	tests := []struct {
		name        string
		lines       []string
		wantRecords int
	}{
		{
			name: "mixed valid and invalid lines",
			lines: []string{
				`127.0.0.1 - - [10/Jul/1995:08:00:00 -0500] "GET /a HTTP/1.0" 200 100`,
				"garbage line",
				`127.0.0.2 - - [10/Jul/1995:08:01:00 -0500] "GET /b HTTP/1.0" 404 -`,
			},
			wantRecords: 2,
		},
		{
			name: "blank and whitespace lines are skipped",
			lines: []string{
				"",
				"   ",
				`127.0.0.1 - - [10/Jul/1995:08:00:00 -0500] "GET /a HTTP/1.0" 200 100`,
				"",
			},
			wantRecords: 1,
		},
		{
			name:        "no matching lines yields empty collection",
			lines:       []string{"nope", "also nope", ""},
			wantRecords: 0,
		},
		{
			name:        "empty input",
			lines:       nil,
			wantRecords: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := ParseLines(tt.lines)
			if records == nil {
				t.Fatal("ParseLines() returned nil, want non-nil slice")
			}
			if len(records) != tt.wantRecords {
				t.Errorf("ParseLines() returned %d records, want %d", len(records), tt.wantRecords)
			}
		})
	}
}

// TestParseLinesPreservesOrder verifies insertion order = source line order
func TestParseLinesPreservesOrder(t *testing.T) {
	lines := []string{
		`h1 - - [10/Jul/1995:08:00:00 -0500] "GET /first HTTP/1.0" 200 1`,
		`h2 - - [10/Jul/1995:08:00:01 -0500] "GET /second HTTP/1.0" 200 2`,
		`h3 - - [10/Jul/1995:08:00:02 -0500] "GET /third HTTP/1.0" 200 3`,
	}

	records := ParseLines(lines)
	if len(records) != 3 {
		t.Fatalf("ParseLines() returned %d records, want 3", len(records))
	}
	for i, wantPath := range []string{"/first", "/second", "/third"} {
		if records[i].Path != wantPath {
			t.Errorf("records[%d].Path = %q, want %q", i, records[i].Path, wantPath)
		}
	}
}

// TestNormalizeDate tests timestamp normalization and its lenient fallback
func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name    string
		logTime string
		want    string
	}{
		{
			name:    "valid timestamp with negative offset",
			logTime: "10/Jul/1995:08:00:00 -0500",
			want:    "1995-07-10",
		},
		{
			name:    "valid timestamp with UTC offset",
			logTime: "17/May/2015:08:05:32 +0000",
			want:    "2015-05-17",
		},
		{
			name:    "invalid month abbreviation keeps raw value",
			logTime: "10/July/1995:08:00:00 -0500",
			want:    "10/July/1995:08:00:00 -0500",
		},
		{
			name:    "missing offset keeps raw value",
			logTime: "10/Jul/1995:08:00:00",
			want:    "10/Jul/1995:08:00:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeDate(tt.logTime); got != tt.want {
				t.Errorf("normalizeDate(%q) = %q, want %q", tt.logTime, got, tt.want)
			}
		})
	}
}
