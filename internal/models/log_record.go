// Package models defines the data structures used throughout the application
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LogRecord represents a single parsed access log line
// Field names in JSON output are stable: both the persisted record array
// and the summary report are consumed by external tooling
type LogRecord struct {
	Client     string `json:"client"`      // Source host/IP token, opaque
	Date       string `json:"date"`        // YYYY-MM-DD when the timestamp parsed, raw original otherwise
	Method     string `json:"method"`      // HTTP verb token, unvalidated
	Path       string `json:"path"`        // Request target, unvalidated
	Protocol   string `json:"protocol"`    // Protocol/version token, e.g. HTTP/1.0
	StatusCode int    `json:"status_code"` // 3-digit numeric code
	BytesSent  int    `json:"bytes_sent"`  // 0 when the source field is the "-" sentinel
}

// String returns a human-readable representation of the record
func (r LogRecord) String() string {
	return fmt.Sprintf("%s [%s] \"%s %s %s\" %d %dB",
		r.Client, r.Date, r.Method, r.Path, r.Protocol, r.StatusCode, r.BytesSent)
}

// CountMap is a string-keyed frequency count that remembers insertion order.
// Go maps do not preserve order, but the report contract requires the
// top-paths mapping to serialize in descending-frequency order, so counts
// are kept alongside an ordered key slice and the JSON codec walks the keys.
type CountMap struct {
	keys   []string
	counts map[string]int
}

// NewCountMap creates an empty ordered frequency count
func NewCountMap() *CountMap {
	return &CountMap{counts: make(map[string]int)}
}

// Add increments the count for key, registering it on first sight
func (m *CountMap) Add(key string) {
	if _, seen := m.counts[key]; !seen {
		m.keys = append(m.keys, key)
	}
	m.counts[key]++
}

// Set assigns an absolute count for key, registering it on first sight
func (m *CountMap) Set(key string, count int) {
	if _, seen := m.counts[key]; !seen {
		m.keys = append(m.keys, key)
	}
	m.counts[key] = count
}

// Count returns the count for key, 0 if the key was never added
func (m *CountMap) Count(key string) int {
	return m.counts[key]
}

// Len returns the number of distinct keys
func (m *CountMap) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order. The slice is a copy and safe
// for the caller to reorder.
func (m *CountMap) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// MarshalJSON encodes the map as a JSON object whose members appear in
// insertion order
func (m *CountMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", m.counts[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving the member order found in
// the document, so a persisted report round-trips exactly
func (m *CountMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object for count map, got %v", tok)
	}

	m.keys = nil
	m.counts = make(map[string]int)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected string key in count map, got %v", keyTok)
		}

		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("invalid count for key %q: %w", key, err)
		}
		m.Set(key, count)
	}

	// Consume the closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
