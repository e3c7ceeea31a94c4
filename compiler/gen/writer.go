package gen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/adminkit/internal/logger"
)

// Writer generates templates in parallel and persists them under the
// configured target directory, one file per (table, context) pair.
type Writer struct {
	gen     *Generator
	outDir  string
	depth   int
	workers int

	// Metrics for performance monitoring
	mu      sync.Mutex
	metrics *WriterMetrics
}

// WriterMetrics tracks generation output.
type WriterMetrics struct {
	FilesGenerated int
	TotalBytes     int64
}

// NewWriter creates a writer using the target, depth and workers of the
// generator's configuration.
func NewWriter(g *Generator) *Writer {
	return &Writer{
		gen:     g,
		outDir:  g.cfg.Target,
		depth:   g.cfg.Depth,
		workers: g.cfg.Workers,
		metrics: &WriterMetrics{},
	}
}

// Metrics returns the generation metrics.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return *w.metrics
}

// Path returns the predictable output location of a template. File names
// are lower case, so tables differing only in case share a path.
func (w *Writer) Path(table string, c Context) string {
	return filepath.Join(w.outDir, strings.ToLower(table)+"."+string(c)+".mustache")
}

// Write generates the template of one table and context and persists it.
// It returns the generated text. Nothing is written if generation fails.
func (w *Writer) Write(ctx context.Context, table string, c Context) (string, error) {
	text, err := w.gen.Generate(table, c, w.depth)
	if err != nil {
		return "", err
	}
	if err := w.persist(table, w.Path(table, c), text); err != nil {
		return "", err
	}
	logger.FromContext(ctx).WithFields(logrus.Fields{
		"table":   table,
		"context": c,
		"path":    w.Path(table, c),
		"bytes":   len(text),
	}).Debug("template written")
	return text, nil
}

// WriteAll generates every table of the schema in every context. Nothing is
// written when two tables would share a path.
func (w *Writer) WriteAll(ctx context.Context) error {
	paths := make(map[string]string)
	for _, table := range w.gen.Schema().Names() {
		path := w.Path(table, ContextSection)
		if other, ok := paths[path]; ok {
			return NewGenerationError(table, path, fmt.Sprintf("output path collides with table %s", other), nil)
		}
		paths[path] = table
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(w.workers, 1))
	for _, table := range w.gen.Schema().Names() {
		for _, c := range Contexts {
			table, c := table, c
			eg.Go(func() error {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
					_, err := w.Write(ctx, table, c)
					return err
				}
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	m := w.Metrics()
	logger.FromContext(ctx).WithField("files", m.FilesGenerated).Info("templates generated")
	return nil
}

// persist writes through a temporary file so readers never observe a
// partially written template.
func (w *Writer) persist(table, path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return NewGenerationError(table, path, "create output directory", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".adminkit-*")
	if err != nil {
		return NewGenerationError(table, path, "create temporary file", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return NewGenerationError(table, path, "write template", err)
	}
	if err := tmp.Close(); err != nil {
		return NewGenerationError(table, path, "write template", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return NewGenerationError(table, path, "write template", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return NewGenerationError(table, path, fmt.Sprintf("rename %s", filepath.Base(tmp.Name())), err)
	}

	w.mu.Lock()
	w.metrics.FilesGenerated++
	w.metrics.TotalBytes += int64(len(text))
	w.mu.Unlock()
	return nil
}
