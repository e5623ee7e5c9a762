package extract

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/resume-parser/internal/common"
)

// Document is one discovered file with a recognized extension. Exactly one
// Document exists per discovered file: Text holds the extracted plain text on
// success, Err holds a human-readable description on failure. A failed
// extraction never aborts the batch.
type Document struct {
	Path   string
	Name   string // file stem, used as the resume owner's display name
	Format string // normalized extension: "docx" or "pdf"
	Text   string
	Err    string
}

// Stats aggregates a directory scan.
type Stats struct {
	Matched   uint32
	Succeeded uint32
	Failed    uint32
}

// ExtractFunc extracts plain text from one file.
type ExtractFunc func(path string) (string, error)

// Reader discovers candidate files in a set of directories and extracts text
// from each, dispatching on the file extension.
type Reader struct {
	logger   *slog.Logger
	registry map[string]ExtractFunc
}

func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{
		logger: logger,
		registry: map[string]ExtractFunc{
			"docx": ExtractDOCX,
			"pdf":  ExtractPDF,
		},
	}
}

// Register installs or replaces the extractor for an extension.
func (r *Reader) Register(ext string, fn ExtractFunc) {
	r.registry[NormalizeExt(ext)] = fn
}

// ReadAll scans dirs in order (non-recursive) and extracts text from every
// file whose extension is registered. Matching is case-insensitive; files with
// unrecognized extensions are ignored. Paths that are missing or not
// directories are skipped silently. Results are in scan order; callers must
// not depend on that order.
func (r *Reader) ReadAll(dirs []string) ([]Document, Stats) {
	var docs []Document
	var stats Stats

	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			r.logger.Warn("extract.scan.failed", "dir", dir, "error", err)
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ext := NormalizeExt(filepath.Ext(entry.Name()))
			fn, ok := r.registry[ext]
			if !ok {
				continue
			}
			stats.Matched++

			path := filepath.Join(dir, entry.Name())
			doc := Document{Path: path, Name: Stem(entry.Name()), Format: ext}

			r.logger.Info("extract.read.start", "path", path)
			text, err := fn(path)
			if err != nil {
				doc.Err = common.NewRecovered("EXTRACT_FAILED", "failed to extract text from "+path, err).Error()
				stats.Failed++
				r.logger.Error("extract.read.failed", "path", path, "error", err)
			} else {
				doc.Text = text
				stats.Succeeded++
				r.logger.Info("extract.read.ok", "path", path, "bytes", len(text))
			}
			docs = append(docs, doc)
		}
	}
	return docs, stats
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Stem returns the file name without its extension.
func Stem(name string) string {
	return strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
}
