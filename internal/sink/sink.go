// Package sink persists extraction results as an append-only sequence.
package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/buildply/intake/internal/order"
)

// RecordSink accepts completed extraction results one at a time.
// Implementations are injected into the batch runner so processing
// never touches ambient file state directly.
type RecordSink interface {
	// Append persists one result. It must be durable before returning:
	// a crash after Append loses at most the next in-flight record.
	Append(ctx context.Context, res order.Result) error

	// Close releases underlying resources.
	Close() error
}

// File is a RecordSink writing JSON Lines to a file, one synced line
// per record.
type File struct {
	mu   sync.Mutex
	f    *os.File
	path string
}

// NewFile opens (or creates) an append-only JSON Lines sink at path.
func NewFile(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}
	return &File{f: f, path: path}, nil
}

// Path returns the sink's file path.
func (s *File) Path() string {
	return s.path
}

// Append writes one result as a JSON line and syncs it to disk.
func (s *File) Append(ctx context.Context, res order.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	line, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.f.Write(line); err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}
	if err := s.f.Sync(); err != nil {
		return fmt.Errorf("failed to sync output file: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (s *File) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}

// Verify interface
var _ RecordSink = (*File)(nil)

// Memory is a RecordSink collecting results in memory, for tests.
type Memory struct {
	mu      sync.Mutex
	records []order.Result

	// FailAfter makes Append fail after N records (0 = never).
	FailAfter int
}

// NewMemory creates an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{}
}

// Append stores one result.
func (s *Memory) Append(ctx context.Context, res order.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailAfter > 0 && len(s.records) >= s.FailAfter {
		return fmt.Errorf("memory sink configured to fail after %d records", s.FailAfter)
	}
	s.records = append(s.records, res)
	return nil
}

// Records returns a copy of the stored results.
func (s *Memory) Records() []order.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]order.Result, len(s.records))
	copy(out, s.records)
	return out
}

// Close is a no-op.
func (s *Memory) Close() error {
	return nil
}

// Verify interface
var _ RecordSink = (*Memory)(nil)
