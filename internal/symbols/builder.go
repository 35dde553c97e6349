package symbols

import (
	"context"
	"errors"
	"os"

	"github.com/mvp-joe/symseek/internal/logger"
)

// FileLister enumerates the source files to index, in discovery order.
type FileLister interface {
	Discover() ([]string, error)
}

// Store caches extracted records across runs, keyed by file path and
// modification time. A nil Store disables caching.
type Store interface {
	Lookup(path string, mtime int64) ([]Record, bool, error)
	Save(path string, mtime int64, records []Record) error
}

// Progress receives build notifications. Implementations render progress
// bars or stay silent.
type Progress interface {
	OnDiscoveryComplete(fileCount int)
	OnFileProcessed(path string)
}

// noProgress is the default Progress when none is configured.
type noProgress struct{}

func (noProgress) OnDiscoveryComplete(int) {}
func (noProgress) OnFileProcessed(string)  {}

// Builder assembles the symbol index from discovered files.
type Builder struct {
	extractor *Extractor
	lister    FileLister
	store     Store
	progress  Progress

	// strict turns per-file I/O and parse failures into fatal build
	// errors instead of skip-with-warning.
	strict bool
}

// NewBuilder creates a builder over the given file lister.
func NewBuilder(lister FileLister) *Builder {
	return &Builder{
		extractor: NewExtractor(),
		lister:    lister,
		progress:  noProgress{},
	}
}

// WithStore enables the cross-run record cache.
func (b *Builder) WithStore(store Store) *Builder {
	b.store = store
	return b
}

// WithProgress sets the progress reporter.
func (b *Builder) WithProgress(p Progress) *Builder {
	if p != nil {
		b.progress = p
	}
	return b
}

// WithStrict makes any per-file failure abort the whole build.
func (b *Builder) WithStrict(strict bool) *Builder {
	b.strict = strict
	return b
}

// Build discovers files and extracts every record, in discovery order.
// The returned index is immutable for the rest of the session.
func (b *Builder) Build(ctx context.Context) (*Index, error) {
	files, err := b.lister.Discover()
	if err != nil {
		return nil, err
	}
	b.progress.OnDiscoveryComplete(len(files))

	var records []Record
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fileRecords, err := b.extractFile(file)
		if err != nil {
			if b.strict {
				return nil, err
			}
			logger.Warn("skipping %s: %v", file, err)
			continue
		}

		records = append(records, fileRecords...)
		b.progress.OnFileProcessed(file)
	}

	return NewIndex(records), nil
}

// extractFile returns the records for one file, consulting the store
// before parsing. Cache failures degrade to a plain parse.
func (b *Builder) extractFile(path string) ([]Record, error) {
	var mtime int64
	if b.store != nil {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		mtime = info.ModTime().Unix()

		cached, ok, err := b.store.Lookup(path, mtime)
		if err != nil {
			logger.Debug("cache lookup for %s failed: %v", path, err)
		} else if ok {
			logger.Debug("cache hit: %s (%d records)", path, len(cached))
			return cached, nil
		}
	}

	records, err := b.extractor.ExtractFile(path)
	if err != nil {
		return nil, err
	}

	if b.store != nil {
		if err := b.store.Save(path, mtime, records); err != nil {
			logger.Debug("cache save for %s failed: %v", path, err)
		}
	}
	return records, nil
}

// IsParseError reports whether err came from an unparseable file.
func IsParseError(err error) bool {
	return errors.Is(err, ErrParse)
}
