package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/contracts-tracker/internal/common"
	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type FileResult struct {
	Path string
	Doc  entity.RawDocument
	Err  string
}

type DirStats struct {
	Scanned   uint32
	Matched   uint32
	Succeeded uint32
	Failed    uint32
}

// Reader turns plain-text contract files into RawDocuments.
type Reader struct {
	logger   *slog.Logger
	maxBytes int64
}

// NewReader returns a reader rejecting files above maxBytes; maxBytes <= 0 disables the check.
func NewReader(maxBytes int64, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger, maxBytes: maxBytes}
}

// ReadFile loads one text file. The filename hint is the base name of path.
func (r *Reader) ReadFile(path string) (entity.RawDocument, error) {
	st, err := os.Stat(path)
	if err != nil {
		return entity.RawDocument{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if st.IsDir() {
		return entity.RawDocument{}, fmt.Errorf("%s is a directory: %w", path, common.ErrInvalidInput)
	}
	if r.maxBytes > 0 && st.Size() > r.maxBytes {
		return entity.RawDocument{}, fmt.Errorf("%s has %d bytes, limit %d: %w", path, st.Size(), r.maxBytes, common.ErrInvalidInput)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return entity.RawDocument{}, fmt.Errorf("read %s: %w", path, err)
	}
	return entity.RawDocument{
		Text:     string(bytes.TrimPrefix(b, utf8BOM)),
		Filename: filepath.Base(path),
	}, nil
}

// ReadDirectory walks root, filters by includeExts (or defaults), skips hidden if requested,
// and reads each matching file. Returns per-file results in walk order + aggregate stats.
func (r *Reader) ReadDirectory(ctx context.Context, root string, includeExts []string, skipHidden bool) ([]FileResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}
	exts := extSet(includeExts)

	var results []FileResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			results = append(results, FileResult{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil // continue walking
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !allowed(path, exts) {
			return nil
		}
		stats.Matched++

		doc, err := r.ReadFile(path)
		if err != nil {
			r.logger.Warn("ingest.read.failed", "path", path, "err", err)
			results = append(results, FileResult{Path: path, Err: err.Error()})
			stats.Failed++
			return nil
		}
		results = append(results, FileResult{Path: path, Doc: doc})
		stats.Succeeded++
		return nil
	})
	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}

	r.logger.Info("ingest.directory.ok",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"failed", stats.Failed,
	)
	return results, stats, nil
}
