package cmd

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type outputKey struct{}

// WithOutput returns a new context.Context whose commands write their
// results to w instead of os.Stdout.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// Source is a named script input. Path is empty for stdin.
type Source struct {
	Path string
	io.Reader
}

// Name returns the path of s, or "-" for stdin.
func (s Source) Name() string {
	if s.Path == "" {
		return stdinSource
	}

	return s.Path
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// Sources yields a [Source] for each unique path in paths, in order. Paths
// naming the same file, through symlinks or different relative forms, are
// yielded once. Every occurrence of "-" is replaced with a single stdin
// source placed last. Files that cannot be opened are yielded with the open
// error. Each file is closed once the consumer moves past it.
func Sources(paths []string) iter.Seq2[Source, error] {
	return func(yield func(Source, error) bool) {
		var (
			keys     = make(map[fileKey]struct{})
			resolved = make(map[string]struct{})
			hasStdin bool
		)

		stdinInfo, _ := os.Stdin.Stat()
		stdinKey, stdinOK := makeFileKey(stdinInfo)

		for _, path := range paths {
			if path == stdinSource {
				hasStdin = true

				continue
			}

			file, err := openSource(path)
			if err != nil {
				if !yield(Source{Path: path}, err) {
					return
				}

				continue
			}

			key, keyed := fileKeyOf(file)

			switch _, dup := keys[key]; {
			case keyed && stdinOK && key == stdinKey:
				hasStdin = true
			case keyed && dup:
			case !keyed && has(resolved, file.Name()):
			default:
				keys[key] = struct{}{}
				resolved[file.Name()] = struct{}{}

				ok := yield(Source{Path: file.Name(), Reader: file}, nil)
				file.Close()

				if !ok {
					return
				}

				continue
			}

			file.Close()
		}

		if hasStdin {
			yield(Source{Reader: os.Stdin}, nil)
		}
	}
}

func has(m map[string]struct{}, k string) bool {
	_, ok := m[k]

	return ok
}

// openSource opens the file at path after resolving it to an absolute path
// without symlinks.
func openSource(path string) (*os.File, error) {
	abs, err := filepath.Abs(path)
	if err == nil {
		abs, err = filepath.EvalSymlinks(abs)
	}

	var file *os.File
	if err == nil {
		file, err = os.Open(abs)
	}

	if err != nil {
		return nil, ErrOpenSource.Wrap(err).With(slog.String("path", path))
	}

	return file, nil
}

func fileKeyOf(file *os.File) (fileKey, bool) {
	info, err := file.Stat()
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
