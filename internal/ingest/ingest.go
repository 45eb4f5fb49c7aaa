package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/contentloop/contentloop/internal/audit"
	"github.com/contentloop/contentloop/internal/progress"
	"github.com/contentloop/contentloop/internal/vectordb"
)

// DefaultMaxFileSize is the maximum file size to ingest (1 MB).
const DefaultMaxFileSize int64 = 1 << 20

// wholeDocThreshold is the size under which a markdown file is stored as a
// single knowledge entry instead of per-heading sections.
const wholeDocThreshold = 1500

// defaultExcludes are directory names skipped during traversal.
var defaultExcludes = []string{
	".git",
	"node_modules",
	"vendor",
	"__pycache__",
	"dist",
	"build",
	".venv",
	".idea",
	".vscode",
	".DS_Store",
}

// Options controls one ingestion run.
type Options struct {
	Dir         string   // root directory to walk
	Category    string   // fixed category; empty derives from the top-level directory
	Include     []string // glob patterns, ** supported; empty includes all markdown/text
	Exclude     []string // glob patterns, ** supported
	MaxFileSize int64    // 0 uses DefaultMaxFileSize
}

// Result summarizes an ingestion run.
type Result struct {
	FilesScanned  int      `json:"files_scanned"`
	FilesIngested int      `json:"files_ingested"`
	Entries       int      `json:"entries"`
	Skipped       []string `json:"skipped,omitempty"`
}

// Ingester loads markdown and plain-text documents into the knowledge base.
type Ingester struct {
	store    vectordb.Store
	auditor  *audit.Store // optional; nil disables ledger writes
	reporter progress.Reporter
}

// New creates an Ingester. auditor may be nil; reporter may be nil for silence.
func New(store vectordb.Store, auditor *audit.Store, reporter progress.Reporter) *Ingester {
	if reporter == nil {
		reporter = progress.SilentReporter{}
	}
	return &Ingester{store: store, auditor: auditor, reporter: reporter}
}

// Run walks opts.Dir and inserts every matching document into knowledge_base.
// Large markdown files are split per heading; small files and plain text are
// stored whole. Unreadable files are skipped and reported, never fatal.
func (ing *Ingester) Run(ctx context.Context, opts Options) (*Result, error) {
	root, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolving ingest root: %w", err)
	}

	files, err := collectFiles(root, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{FilesScanned: len(files)}
	ing.reporter.Start(len(files))

	for i, relPath := range files {
		ing.reporter.Update(i+1, relPath)

		entries, err := ing.ingestFile(ctx, root, relPath, opts.Category)
		if err != nil {
			log.Printf("skipping %s: %v", relPath, err)
			result.Skipped = append(result.Skipped, relPath)
			continue
		}
		result.FilesIngested++
		result.Entries += entries
	}

	ing.reporter.Finish()

	if ing.auditor != nil {
		err := ing.auditor.Log(ctx, audit.Entry{
			Action:     audit.ActionIngest,
			Collection: string(vectordb.KnowledgeBase),
			Subject:    root,
			Detail:     fmt.Sprintf("%d entries from %d files", result.Entries, result.FilesIngested),
		})
		if err != nil {
			log.Printf("audit log failed for ingest of %s: %v", root, err)
		}
	}

	return result, nil
}

// ingestFile stores one file's content and returns the number of knowledge
// entries created.
func (ing *Ingester) ingestFile(ctx context.Context, root, relPath, category string) (int, error) {
	source, err := os.ReadFile(filepath.Join(root, relPath))
	if err != nil {
		return 0, err
	}

	if category == "" {
		category = categoryFor(relPath)
	}
	meta := vectordb.Metadata{Source: relPath}

	if !isMarkdown(relPath) || len(source) <= wholeDocThreshold {
		text := strings.TrimSpace(string(source))
		if isMarkdown(relPath) {
			text = PlainText(source)
		}
		if text == "" {
			return 0, nil
		}
		if _, err := ing.store.AddKnowledge(ctx, category, text, meta); err != nil {
			return 0, err
		}
		return 1, nil
	}

	sections := SplitSections(source)
	if len(sections) == 0 {
		return 0, nil
	}

	entries := 0
	for _, section := range sections {
		text := section.Text
		if section.Title != "" {
			text = section.Title + "\n\n" + text
		}

		sectionMeta := meta
		if section.Title != "" {
			sectionMeta.Extra = map[string]string{"section": section.Title}
		}
		if _, err := ing.store.AddKnowledge(ctx, category, text, sectionMeta); err != nil {
			return entries, err
		}
		entries++
	}
	return entries, nil
}

// collectFiles walks root and returns the relative paths that pass filtering,
// in traversal order.
func collectFiles(root string, opts Options) ([]string, error) {
	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}

		if d.IsDir() {
			for _, excl := range defaultExcludes {
				if strings.EqualFold(d.Name(), excl) {
					return filepath.SkipDir
				}
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if len(opts.Include) > 0 {
			if !matchesAny(relPath, opts.Include) {
				return nil
			}
		} else if !isMarkdown(relPath) && !strings.HasSuffix(relPath, ".txt") {
			return nil
		}
		if matchesAny(relPath, opts.Exclude) {
			return nil
		}

		if info, err := d.Info(); err != nil || info.Size() > maxSize {
			return nil
		}

		files = append(files, relPath)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return files, nil
}

// matchesAny checks relPath against glob patterns, matching the full
// relative path first and the bare filename second.
func matchesAny(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if matched, err := doublestar.PathMatch(pattern, relPath); err == nil && matched {
			return true
		}
		if matched, err := doublestar.PathMatch(pattern, filepath.Base(relPath)); err == nil && matched {
			return true
		}
	}
	return false
}

// categoryFor derives a knowledge category from the first path element,
// falling back to "general" for files at the root.
func categoryFor(relPath string) string {
	dir := filepath.ToSlash(filepath.Dir(relPath))
	if dir == "." || dir == "/" {
		return "general"
	}
	return strings.Split(dir, "/")[0]
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
