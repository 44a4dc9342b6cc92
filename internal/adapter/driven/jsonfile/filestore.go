package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/ericfisherdev/workbook/internal/domain/model"
	"github.com/ericfisherdev/workbook/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.WorkBookFile = (*FileStore)(nil)

// LoadPolicy decides what happens to a record that fails conversion.
type LoadPolicy string

const (
	// PolicyAbort fails the whole load on the first bad record.
	PolicyAbort LoadPolicy = "abort"
	// PolicySkip logs and drops bad records, keeping the rest.
	PolicySkip LoadPolicy = "skip"
)

// FileStore reads and writes the internship list as a single JSON file.
type FileStore struct {
	path   string
	policy LoadPolicy
	logger *slog.Logger
}

// NewFileStore creates a FileStore for the file at path.
func NewFileStore(path string, policy LoadPolicy, logger *slog.Logger) *FileStore {
	return &FileStore{
		path:   path,
		policy: policy,
		logger: logger,
	}
}

// Load reads the file and converts every record. A missing file is an empty
// workbook. Invalid records are handled according to the store's LoadPolicy.
func (s *FileStore) Load(ctx context.Context) ([]model.Internship, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Info("data file not found, starting empty", "path", s.path)
			return []model.Internship{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	wb, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}

	if s.policy != PolicySkip {
		internships, err := wb.ToModel()
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", s.path, err)
		}
		return internships, nil
	}

	out := make([]model.Internship, 0, len(wb.Internships))
	for i, a := range wb.Internships {
		in, err := a.ToModel()
		if err != nil {
			s.logger.Warn("skipping invalid internship", "path", s.path, "index", i, "error", err)
			continue
		}
		if containsSame(out, in) {
			s.logger.Warn("skipping duplicate internship", "path", s.path, "index", i,
				"company", in.Company().String(), "role", in.Role().String())
			continue
		}
		out = append(out, in)
	}
	return out, nil
}

// Save writes internships to the file atomically, creating parent directories.
func (s *FileStore) Save(ctx context.Context, internships []model.Internship) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	data, err := json.MarshalIndent(NewAdaptedWorkBook(internships), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal workbook: %w", err)
	}

	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}

	s.logger.Debug("data file saved", "path", s.path, "count", len(internships))
	return nil
}

// Decode parses a workbook document without converting its records.
func Decode(r io.Reader) (AdaptedWorkBook, error) {
	var wb AdaptedWorkBook
	if err := json.NewDecoder(r).Decode(&wb); err != nil {
		return AdaptedWorkBook{}, err
	}
	return wb, nil
}
