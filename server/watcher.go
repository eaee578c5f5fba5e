package server

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/smscr/lang"
	"github.com/ardnew/smscr/log"
	"github.com/ardnew/smscr/pkg"
)

// ErrWatch is returned when the document root cannot be watched.
var ErrWatch = pkg.NewError("watch document root")

// ScriptExt is the extension of files executed as scripts.
const ScriptExt = pkg.ScriptExt

// watcher evicts cached scripts from the parse cache when their files
// change. New directories below the root are watched as they appear.
type watcher struct {
	fs  *fsnotify.Watcher
	log log.Logger

	// evicted, if set, receives the path of every evicted script.
	evicted func(path string)
}

func newWatcher(root string, l log.Logger) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ErrWatch.Wrap(err)
	}

	w := &watcher{fs: fw, log: l}

	if err := w.addRecursive(root); err != nil {
		fw.Close()

		return nil, err
	}

	return w, nil
}

func (w *watcher) addRecursive(root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return w.fs.Add(path)
		}

		return nil
	})
	if err != nil {
		return ErrWatch.Wrap(err).With(slog.String("root", root))
	}

	return nil
}

// run processes events until ctx is done, then closes the watcher.
func (w *watcher) run(ctx context.Context) {
	defer w.fs.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}

			w.handle(ev)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}

			w.log.WarnContext(ctx, "watch error", slog.Any("error", err))
		}
	}
}

func (w *watcher) handle(ev fsnotify.Event) {
	if ev.Has(fsnotify.Create) {
		if err := w.addRecursive(ev.Name); err == nil {
			w.log.Trace("watching", slog.String("path", ev.Name))
		}
	}

	if !strings.EqualFold(filepath.Ext(ev.Name), ScriptExt) {
		return
	}

	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) &&
		!ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Create) {
		return
	}

	if lang.Invalidate(ev.Name) {
		w.log.Debug("script evicted",
			slog.String("path", ev.Name),
			slog.String("op", ev.Op.String()),
		)
	}

	if w.evicted != nil {
		w.evicted(ev.Name)
	}
}
