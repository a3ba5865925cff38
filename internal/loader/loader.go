// Package loader extracts page-level text from documents on disk.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"docqa/internal/domain"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrNoDocuments       = errors.New("no extractable documents found")
)

// Extractor returns the text of each page of a file, in page order.
// Entries may be blank; the loader drops them.
type Extractor interface {
	Extract(path string) ([]string, error)
}

// Loader turns files into page Documents using an extractor per extension.
type Loader struct {
	extractors map[string]Extractor
	logger     *zap.Logger
}

type Option func(*Loader)

// WithExtractor registers (or replaces) the extractor for an extension such as ".md".
func WithExtractor(ext string, e Extractor) Option {
	return func(l *Loader) { l.extractors[strings.ToLower(ext)] = e }
}

func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// New creates a loader that understands PDF and plain text files.
func New(opts ...Option) *Loader {
	l := &Loader{
		extractors: map[string]Extractor{
			".pdf": PDFExtractor{},
			".txt": TextExtractor{},
		},
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Supports reports whether the file name has a registered extension.
func (l *Loader) Supports(name string) bool {
	_, ok := l.extractors[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Extensions lists the registered extensions in sorted order.
func (l *Loader) Extensions() []string {
	out := make([]string, 0, len(l.extractors))
	for ext := range l.extractors {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// LoadFile extracts every non-blank page of one file.
func (l *Loader) LoadFile(path string) ([]domain.Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	ex, ok := l.extractors[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	pages, err := ex.Extract(path)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", filepath.Base(path), err)
	}
	var docs []domain.Document
	for i, text := range pages {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		docs = append(docs, domain.Document{
			Text: text,
			Metadata: domain.DocumentMetadata{
				DocumentName: filepath.Base(path),
				Source:       path,
				Page:         i + 1,
			},
		})
	}
	return docs, nil
}

// LoadFolder loads every supported file directly inside dir, in name order.
// It returns ErrNoDocuments when nothing could be extracted.
func (l *Loader) LoadFolder(dir string) ([]domain.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var docs []domain.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !l.Supports(entry.Name()) {
			l.logger.Debug("skipping unsupported file", zap.String("file", entry.Name()))
			continue
		}
		fileDocs, err := l.LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		l.logger.Debug("loaded document",
			zap.String("file", entry.Name()),
			zap.Int("pages", len(fileDocs)),
		)
		docs = append(docs, fileDocs...)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoDocuments, dir)
	}
	return docs, nil
}
