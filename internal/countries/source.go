package countries

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/hightemp/countrypick/internal/logging"
)

// Source delivers the full country list once per activation.
//
// The returned channel yields exactly one list and is then closed, or it is
// closed without a value when loading fails or ctx is cancelled first.
// Failures are logged, not returned: callers degrade to an empty list.
type Source interface {
	Load(ctx context.Context) <-chan []Country
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc func(ctx context.Context) ([]Country, error)

// Load runs fn in the background and delivers its result.
func (fn SourceFunc) Load(ctx context.Context) <-chan []Country {
	return deliver(ctx, "func", fn)
}

func deliver(ctx context.Context, name string, fetch func(ctx context.Context) ([]Country, error)) <-chan []Country {
	ch := make(chan []Country)
	go func() {
		defer close(ch)

		list, err := fetch(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logging.Warn("country list unavailable",
					zap.String("source", name),
					zap.Error(err),
				)
			}
			return
		}
		if ctx.Err() != nil {
			return
		}
		logging.Debug("country list loaded",
			zap.String("source", name),
			zap.Int("count", len(list)),
		)

		select {
		case ch <- list:
		case <-ctx.Done():
		}
	}()
	return ch
}

// StaticSource serves an in-memory list.
type StaticSource struct {
	list []Country
}

// NewStaticSource creates a source over a copy of list.
func NewStaticSource(list []Country) *StaticSource {
	cp := make([]Country, len(list))
	copy(cp, list)
	return &StaticSource{list: cp}
}

// EmbeddedSource serves the embedded ISO-3166 dataset.
func EmbeddedSource() *StaticSource {
	return &StaticSource{list: All()}
}

// Load delivers the list.
func (s *StaticSource) Load(ctx context.Context) <-chan []Country {
	return deliver(ctx, "static", func(context.Context) ([]Country, error) {
		cp := make([]Country, len(s.list))
		copy(cp, s.list)
		return cp, nil
	})
}

// FileSource reads a CSV, JSON or YAML country list from disk.
type FileSource struct {
	path   string
	format Format
}

// NewFileSource creates a file source; the format follows the extension.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path, format: FormatFromPath(path)}
}

// Read loads and parses the file synchronously.
func (s *FileSource) Read() ([]Country, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read countries file: %w", err)
	}
	list, err := ParseList(data, s.format)
	if err != nil {
		return nil, fmt.Errorf("parse countries file %s: %w", s.path, err)
	}
	return list, nil
}

// Load delivers the file contents.
func (s *FileSource) Load(ctx context.Context) <-chan []Country {
	return deliver(ctx, "file", func(context.Context) ([]Country, error) {
		return s.Read()
	})
}
