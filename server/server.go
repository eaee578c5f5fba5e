// Package server serves a document root over HTTP. Files with the
// [ScriptExt] extension are parsed and executed as scripts, workers are
// served under [WorkerPrefix], and every other file is sent verbatim with
// the content type configured for its extension.
//
// Each client is tracked by a session cookie. The session holds the
// persistent parameters visible to scripts and expires after the configured
// idle timeout.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ardnew/smscr/lang"
	"github.com/ardnew/smscr/lang/exec"
	"github.com/ardnew/smscr/log"
	"github.com/ardnew/smscr/pkg"
	"github.com/ardnew/smscr/profile"
	"github.com/ardnew/smscr/rctx"
)

// DebugPrefix is the path prefix of the runtime profiling endpoints, served
// only in binaries built with the pprof tag.
const DebugPrefix = "/debug/pprof/"

// Errors returned while starting a server.
var (
	ErrDocumentRoot = pkg.NewError("invalid document root")
	ErrListen       = pkg.NewError("listen")
)

// Server is an [http.Handler] serving a document root.
type Server struct {
	cfg      Config
	root     string
	log      log.Logger
	registry *exec.Registry
	workers  map[string]Worker
	sessions *sessions
	debug    http.Handler
}

// Option configures a [Server].
type Option = pkg.Option[*Server]

// WithLogger sets the logger for requests and script faults.
func WithLogger(l log.Logger) Option {
	return func(s *Server) *Server {
		s.log = l

		return s
	}
}

// WithRegistry sets the native function registry available to scripts.
func WithRegistry(r *exec.Registry) Option {
	return func(s *Server) *Server {
		s.registry = r

		return s
	}
}

// WithWorker serves w at [WorkerPrefix] followed by name, replacing any
// builtin worker of the same name.
func WithWorker(name string, w Worker) Option {
	return func(s *Server) *Server {
		s.workers[name] = w

		return s
	}
}

// New returns a Server for cfg. The document root must be an existing
// directory.
func New(cfg Config, opts ...Option) (*Server, error) {
	root, err := filepath.Abs(cfg.DocumentRoot)
	if err != nil {
		return nil, ErrDocumentRoot.Wrap(err).With(slog.String("path", cfg.DocumentRoot))
	}

	if root, err = filepath.EvalSymlinks(root); err != nil {
		return nil, ErrDocumentRoot.Wrap(err).With(slog.String("path", cfg.DocumentRoot))
	}

	if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
		return nil, ErrDocumentRoot.With(slog.String("path", root))
	}

	if cfg.SessionTimeout <= 0 {
		cfg.SessionTimeout = DefaultSessionTimeout
	}

	s := &Server{
		cfg:      cfg,
		root:     root,
		workers:  make(map[string]Worker, len(builtinWorkers)),
		sessions: newSessions(cfg.Timeout()),
		debug:    profile.Handler(),
	}

	for name, w := range builtinWorkers {
		s.workers[name] = w
	}

	s = pkg.Apply(s, opts...)
	if s.registry == nil {
		s.registry = exec.NewRegistry()
	}

	return s, nil
}

// Root returns the absolute document root.
func (s *Server) Root() string { return s.root }

// ListenAndServe serves on the configured address until ctx is done, then
// shuts down gracefully. If the configuration enables watching, cached
// scripts are evicted when their files change.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return ErrListen.Wrap(err).With(slog.String("addr", s.cfg.Addr()))
	}

	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.cfg.Watch {
		w, err := newWatcher(s.root, s.log)
		if err != nil {
			ln.Close()

			return err
		}

		go w.run(ctx)
	}

	hs := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()

		shutdown, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()

		hs.Shutdown(shutdown) //nolint:errcheck
	}()

	s.log.InfoContext(ctx, "serving",
		slog.String("addr", ln.Addr().String()),
		slog.Any("config", s.cfg),
	)

	if err := hs.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return ErrListen.Wrap(err)
	}

	return nil
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rw := &response{ResponseWriter: w}

	l := s.log.With(slog.String("request", uuid.NewString()))
	r = r.WithContext(log.NewContext(r.Context(), l))

	s.serve(rw, r)

	l.InfoContext(r.Context(), "request",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", rw.status()),
		slog.Int64("bytes", rw.bytes),
		slog.Duration("elapsed", time.Since(start)),
	)
}

func (s *Server) serve(w *response, r *http.Request) {
	if s.debug != nil && strings.HasPrefix(r.URL.Path, DebugPrefix) {
		s.debug.ServeHTTP(w, r)

		return
	}

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		s.fail(w, http.StatusMethodNotAllowed)

		return
	}

	var sid string
	if c, err := r.Cookie(SessionCookie); err == nil {
		sid = c.Value
	}

	sess, created := s.sessions.acquire(sid)

	opts := []rctx.Option{
		rctx.WithParameters(query(r)),
		rctx.WithPersistent(sess.params),
	}

	if created {
		opts = append(opts, rctx.WithCookies(rctx.Cookie{
			Name:     SessionCookie,
			Value:    sess.id,
			Path:     "/",
			HTTPOnly: true,
		}))
	}

	if name, ok := strings.CutPrefix(r.URL.Path, WorkerPrefix); ok {
		s.work(w, r, name, rctx.New(w, opts...))

		return
	}

	file, code := s.resolve(r.URL.Path)
	if code != http.StatusOK {
		s.fail(w, code)

		return
	}

	rc := rctx.New(w, opts...)
	ext := filepath.Ext(file)

	if err := rc.SetMimeType(s.cfg.MimeType(ext)); err != nil {
		s.fail(w, http.StatusInternalServerError)

		return
	}

	if strings.EqualFold(ext, ScriptExt) {
		s.script(w, r, file, rc)

		return
	}

	s.static(w, r, file, rc)
}

// resolve maps a URL path to a regular file below the document root. A
// directory resolves to its index script or index page.
func (s *Server) resolve(urlPath string) (string, int) {
	for seg := range strings.SplitSeq(urlPath, "/") {
		if seg == ".." {
			return "", http.StatusForbidden
		}
	}

	file := filepath.Join(s.root, filepath.FromSlash(path.Clean("/"+urlPath)))

	target, err := filepath.EvalSymlinks(file)
	if err != nil {
		return "", http.StatusNotFound
	}

	if !within(s.root, target) {
		return "", http.StatusForbidden
	}

	fi, err := os.Stat(target)
	if err != nil {
		return "", http.StatusNotFound
	}

	if fi.IsDir() {
		for _, index := range []string{"index" + ScriptExt, "index.html"} {
			if fi, err := os.Stat(filepath.Join(target, index)); err == nil && fi.Mode().IsRegular() {
				return filepath.Join(target, index), http.StatusOK
			}
		}

		return "", http.StatusNotFound
	}

	if !fi.Mode().IsRegular() {
		return "", http.StatusNotFound
	}

	return target, http.StatusOK
}

func within(root, file string) bool {
	rel, err := filepath.Rel(root, file)

	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (s *Server) script(w *response, r *http.Request, file string, rc *rctx.Context) {
	ctx := r.Context()
	l := log.FromContext(ctx)
	opts := []lang.Option{lang.WithLogger(l), lang.WithRegistry(s.registry)}

	doc, err := lang.ParseFile(ctx, file, opts...)
	if err != nil {
		l.ErrorContext(ctx, "script rejected", slog.String("path", file), slog.Any("error", err))
		s.fail(w, http.StatusInternalServerError)

		return
	}

	if err := lang.Execute(ctx, doc, rc, opts...); err != nil {
		l.ErrorContext(ctx, "script failed", slog.String("path", file), slog.Any("error", err))

		if !rc.HeaderSent() {
			s.fail(w, http.StatusInternalServerError)
		}

		return
	}

	if err := rc.Flush(); err != nil {
		l.WarnContext(ctx, "flush failed", slog.String("path", file), slog.Any("error", err))
	}
}

func (s *Server) static(w *response, r *http.Request, file string, rc *rctx.Context) {
	ctx := r.Context()
	l := log.FromContext(ctx)

	f, err := os.Open(file)
	if err != nil {
		s.fail(w, http.StatusNotFound)

		return
	}
	defer f.Close()

	if _, err := io.Copy(rc, f); err != nil {
		l.WarnContext(ctx, "copy failed", slog.String("path", file), slog.Any("error", err))

		return
	}

	if err := rc.Flush(); err != nil {
		l.WarnContext(ctx, "flush failed", slog.String("path", file), slog.Any("error", err))
	}
}

func (s *Server) work(w *response, r *http.Request, name string, rc *rctx.Context) {
	ctx := r.Context()
	l := log.FromContext(ctx)

	wk, ok := s.workers[name]
	if !ok {
		s.fail(w, http.StatusNotFound)

		return
	}

	if err := wk.Serve(ctx, rc); err != nil {
		l.ErrorContext(ctx, "worker failed", slog.String("worker", name), slog.Any("error", err))

		if !rc.HeaderSent() {
			s.fail(w, http.StatusInternalServerError)
		}

		return
	}

	if err := rc.Flush(); err != nil {
		l.WarnContext(ctx, "flush failed", slog.String("worker", name), slog.Any("error", err))
	}
}

func (s *Server) fail(w http.ResponseWriter, code int) {
	http.Error(w, http.StatusText(code), code)
}

func query(r *http.Request) map[string]string {
	q := r.URL.Query()
	m := make(map[string]string, len(q))

	for k, v := range q {
		if len(v) > 0 {
			m[k] = v[0]
		}
	}

	return m
}

// response records the status and size of a response.
type response struct {
	http.ResponseWriter

	code  int
	bytes int64
}

func (w *response) WriteHeader(code int) {
	if w.code == 0 {
		w.code = code
	}

	w.ResponseWriter.WriteHeader(code)
}

func (w *response) Write(p []byte) (int, error) {
	if w.code == 0 {
		w.code = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(p)
	w.bytes += int64(n)

	return n, err
}

// Flush implements [http.Flusher].
func (w *response) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap supports [http.ResponseController].
func (w *response) Unwrap() http.ResponseWriter { return w.ResponseWriter }

func (w *response) status() int {
	if w.code == 0 {
		return http.StatusOK
	}

	return w.code
}
