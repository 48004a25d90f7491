package fetcher

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const sampleLog = `127.0.0.1 - - [10/Jul/1995:08:00:00 -0500] "GET /index.html HTTP/1.0" 200 1024
127.0.0.2 - - [10/Jul/1995:08:01:00 -0500] "GET /about.html HTTP/1.0" 404 -
`

// TestFetch tests the 200-or-fail download contract
func TestFetch(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantLines int
		wantErr   bool
	}{
		{
			name:      "successful download splits into lines",
			status:    http.StatusOK,
			body:      sampleLog,
			wantLines: 3, // two log lines plus the trailing empty line
			wantErr:   false,
		},
		{
			name:    "404 aborts before parsing",
			status:  http.StatusNotFound,
			body:    "not here",
			wantErr: true,
		},
		{
			name:    "500 aborts before parsing",
			status:  http.StatusInternalServerError,
			body:    "boom",
			wantErr: true,
		},
		{
			name:      "empty body",
			status:    http.StatusOK,
			body:      "",
			wantLines: 1,
			wantErr:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			lines, err := New(5*time.Second).Fetch(context.Background(), srv.URL)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Fetch() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(lines) != tt.wantLines {
				t.Errorf("Fetch() returned %d lines, want %d", len(lines), tt.wantLines)
			}
		})
	}
}

// TestFetchGzipBody verifies gzip-served logs are transparently unwrapped
func TestFetchGzipBody(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(sampleLog)); err != nil {
		t.Fatalf("gzip write error = %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close error = %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Served as an opaque binary object, the way .gz mirrors do
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	lines, err := New(5*time.Second).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("Fetch() returned %d lines, want 3", len(lines))
	}
	if lines[0] != `127.0.0.1 - - [10/Jul/1995:08:00:00 -0500] "GET /index.html HTTP/1.0" 200 1024` {
		t.Errorf("unexpected first line: %q", lines[0])
	}
}

// TestFetchInvalidURL verifies a descriptive error for an unreachable host
func TestFetchInvalidURL(t *testing.T) {
	_, err := New(time.Second).Fetch(context.Background(), "http://127.0.0.1:1/nope")
	if err == nil {
		t.Error("Fetch() error = nil, want connection error")
	}
}

// TestDecompressPassthrough verifies plain text is returned unchanged
func TestDecompressPassthrough(t *testing.T) {
	got, err := decompress([]byte(sampleLog))
	if err != nil {
		t.Fatalf("decompress() error = %v", err)
	}
	if got != sampleLog {
		t.Errorf("decompress() altered plain text body")
	}
}
