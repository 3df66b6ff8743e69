// Package extract discovers and decodes per-order JSON documents from a
// source directory.
package extract

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/orderpipe/orderpipe/pkg/orderpipe"
)

// Extractor implements orderpipe.Extractor against a FileSystem.
type Extractor struct {
	fs     FileSystem
	logger orderpipe.Logger
}

// Compile-time interface compliance check
var _ orderpipe.Extractor = (*Extractor)(nil)

// New creates an Extractor.
//
// Panics if fs or logger is nil (programmer error).
func New(fsys FileSystem, logger orderpipe.Logger) *Extractor {
	if fsys == nil {
		panic("filesystem cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Extractor{fs: fsys, logger: logger}
}

// Extract reads every .json file directly inside sourcePath, in
// lexicographic name order. Subdirectories and other extensions are
// ignored. The first undecodable file aborts the extraction.
func (e *Extractor) Extract(sourcePath string) ([]orderpipe.RawRecord, error) {
	info, err := e.fs.Stat(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("cannot access source directory %s: %w", sourcePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source path %s is not a directory: %w", sourcePath, orderpipe.ErrInvalidConfig)
	}

	entries, err := e.fs.ReadDir(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("cannot read source directory %s: %w", sourcePath, err)
	}

	var records []orderpipe.RawRecord
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}

		record, err := e.readRecord(sourcePath, entry.Name())
		if err != nil {
			return nil, err
		}
		records = append(records, record)
		e.logger.Verbose("extracted %s", entry.Name())
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("directory %s: %w", sourcePath, orderpipe.ErrNoOrderFiles)
	}

	e.logger.Info("Extracted %d order files from %s", len(records), sourcePath)
	return records, nil
}

func (e *Extractor) readRecord(sourcePath, name string) (orderpipe.RawRecord, error) {
	content, err := e.fs.ReadFile(filepath.Join(sourcePath, name))
	if err != nil {
		return orderpipe.RawRecord{}, fmt.Errorf("reading %s: %w", name, err)
	}

	var decoded any
	if err := json.Unmarshal(content, &decoded); err != nil {
		return orderpipe.RawRecord{}, &orderpipe.MalformedRecordError{
			File:   name,
			Reason: fmt.Sprintf("invalid JSON: %v", err),
		}
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		return orderpipe.RawRecord{}, &orderpipe.MalformedRecordError{
			File:   name,
			Reason: fmt.Sprintf("document root must be a JSON object, got %T", decoded),
		}
	}

	return orderpipe.RawRecord{FileName: name, Data: obj}, nil
}
