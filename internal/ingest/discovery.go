package ingest

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fleetjobs/internal/errors"
)

// FileInfo describes a discovered CSV file on disk.
type FileInfo struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// FindCSVFiles lists the CSV files directly under dir, sorted by name for
// deterministic batch order.
func FindCSVFiles(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.NewStorageError("failed to read input directory", err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Name:    entry.Name(),
			Path:    filepath.Join(dir, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// LoadFiles reads discovered files into source files for ingestion. Read
// failures are attached to the source file rather than returned: the batch
// continues and the failed file surfaces as an error-marker summary.
func LoadFiles(logger *slog.Logger, files []FileInfo) []SourceFile {
	if logger == nil {
		logger = slog.Default()
	}

	sources := make([]SourceFile, 0, len(files))
	for _, fi := range files {
		data, err := os.ReadFile(fi.Path)
		if err != nil {
			logger.Warn("failed to read file, continuing with batch",
				slog.String("path", fi.Path),
				slog.String("error", err.Error()))
			sources = append(sources, SourceFile{Name: fi.Name, Err: err})
			continue
		}
		sources = append(sources, SourceFile{Name: fi.Name, Data: data})
	}
	return sources
}
