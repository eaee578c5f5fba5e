package lang

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/smscr/lang/ast"
	"github.com/ardnew/smscr/lang/parser"
)

var (
	// documents maps a source key to the *entry parsed from that source.
	documents sync.Map

	// files maps a file path to the source key it was last parsed from.
	files sync.Map
)

// entry is a cached parse result. Trees are read-only after parsing, so one
// entry is shared by every caller that parses identical source.
type entry struct {
	once sync.Once
	doc  *ast.Document
	err  error
}

// sourceKey returns the cache key of source.
func sourceKey(source string) string {
	return strconv.FormatUint(xxh3.HashString(source), 36)
}

func parseCached(ctx context.Context, c config, source string) (*ast.Document, error) {
	key := sourceKey(source)

	value, hit := documents.LoadOrStore(key, new(entry))
	e := value.(*entry)

	c.log.TraceContext(ctx, "cache lookup",
		slog.String("key", key),
		slog.Bool("hit", hit),
		slog.Int("source_bytes", len(source)),
	)

	e.once.Do(func() {
		e.doc, e.err = parser.Parse(ctx, source, parser.WithLogger(c.log))
	})

	return e.doc, e.err
}

// remember records that path was last parsed from source.
func remember(path, source string) {
	files.Store(path, sourceKey(source))
}

// Invalidate drops the document cached for the file at path. It reports
// whether anything was cached for it.
func Invalidate(path string) bool {
	key, ok := files.LoadAndDelete(path)
	if !ok {
		return false
	}

	documents.Delete(key)

	return true
}

// Forget drops the document cached for source.
func Forget(source string) { documents.Delete(sourceKey(source)) }

// Cached reports whether a document parsed from source is in the cache.
func Cached(source string) bool {
	_, ok := documents.Load(sourceKey(source))

	return ok
}

// ClearCache removes every cached document.
func ClearCache() {
	documents.Clear()
	files.Clear()
}
