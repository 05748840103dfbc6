// Package testlog captures structured log records in tests.
package testlog

import (
	"bytes"
	"encoding/json"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/jangala-dev/tinygo-dmaecho/internal/logging"
)

// Recorder is a concurrency-safe sink of JSON log lines.
type Recorder struct {
	mu    sync.Mutex
	lines [][]byte
}

// Write implements io.Writer. zerolog writes one record per call.
func (r *Recorder) Write(p []byte) (int, error) {
	line := bytes.TrimSpace(p)
	r.mu.Lock()
	r.lines = append(r.lines, append([]byte(nil), line...))
	r.mu.Unlock()
	return len(p), nil
}

// Records returns every record whose message is msg, oldest first.
func (r *Recorder) Records(msg string) []map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []map[string]any
	for _, line := range r.lines {
		var rec map[string]any
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		if rec[zerolog.MessageFieldName] == msg {
			out = append(out, rec)
		}
	}
	return out
}

// Field returns the string field key of every record with message msg.
func (r *Recorder) Field(msg, key string) []string {
	var out []string
	for _, rec := range r.Records(msg) {
		if v, ok := rec[key].(string); ok {
			out = append(out, v)
		}
	}
	return out
}

// Start configures test logging and returns a debug logger recording into
// the returned Recorder.
func Start(t *testing.T) (zerolog.Logger, *Recorder) {
	t.Helper()
	logging.ConfigureTests()
	rec := &Recorder{}
	log := zerolog.New(rec).Level(zerolog.DebugLevel).With().Str("test", t.Name()).Logger()
	return log, rec
}
