// Package store persists pipeline artifacts as Parquet files.
//
// Artifacts are written through a temp file and renamed into place, so a
// failed stage never leaves a partial artifact behind. Schemas derive from
// the struct tags on the contract types, and a save/load round trip
// preserves row count and per-column values exactly.
package store

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
)

// writeChunk bounds the row group handed to the writer per call.
const writeChunk = 8192

// WriteTable writes rows to path as snappy-compressed Parquet.
func WriteTable[T any](path string, rows []T, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*.parquet")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	writer := parquet.NewGenericWriter[T](tmp, parquet.Compression(&parquet.Snappy))

	for start := 0; start < len(rows); start += writeChunk {
		end := start + writeChunk
		if end > len(rows) {
			end = len(rows)
		}
		if _, err := writer.Write(rows[start:end]); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write rows %d-%d: %w", start, end, err)
		}
	}

	if err := writer.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move artifact into place: %w", err)
	}

	if info, err := os.Stat(path); err == nil {
		logger.Info("saved parquet artifact",
			slog.String("path", path),
			slog.Int("rows", len(rows)),
			slog.Int64("size_bytes", info.Size()))
	}

	return nil
}

// ReadTable reads every row of a Parquet artifact.
func ReadTable[T any](path string, logger *slog.Logger) ([]T, error) {
	if logger == nil {
		logger = slog.Default()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("artifact not found at %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat artifact: %w", err)
	}

	reader := parquet.NewGenericReader[T](file)
	defer reader.Close()

	rows := make([]T, 0, reader.NumRows())
	buf := make([]T, writeChunk)
	for {
		n, err := reader.Read(buf)
		rows = append(rows, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read artifact rows: %w", err)
		}
	}

	logger.Info("loaded parquet artifact",
		slog.String("path", path),
		slog.Int("rows", len(rows)),
		slog.Int64("size_bytes", info.Size()))

	return rows, nil
}

// Exists reports whether an artifact is present on disk.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
