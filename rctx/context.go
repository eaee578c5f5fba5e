package rctx

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/ardnew/smscr/pkg"
)

// Errors returned by a [Context].
var (
	ErrHeaderSent = pkg.NewError("header already sent")
	ErrEncoding   = pkg.NewError("unsupported encoding")
	ErrWrite      = pkg.NewError("write failed")
)

// Header defaults.
const (
	DefaultEncoding   = "UTF-8"
	DefaultStatusCode = http.StatusOK
	DefaultStatusText = "OK"
	DefaultMimeType   = "text/html"
)

// Context is the output side of a single request: a writer preceded by a
// lazily emitted header, and the request, persistent, and temporary
// parameter stores visible to scripts. It implements exec.Sink.
//
// The header is emitted on the first write or [Context.Flush]. If the writer
// is an [http.ResponseWriter] the header is applied through it. Otherwise, in
// raw header mode, an HTTP/1.1 header block is written ahead of the body.
type Context struct {
	mu sync.Mutex

	w   io.Writer
	raw bool

	encoding   string
	encoder    *encoding.Encoder
	statusCode int
	statusText string
	mimeType   string
	cookies    []Cookie
	headerSent bool

	params     *Params
	persistent *Params
	temporary  *Params
}

// Option configures a [Context].
type Option = pkg.Option[*Context]

// WithParameters sets the read-only request parameters. The map is copied.
func WithParameters(m map[string]string) Option {
	return func(c *Context) *Context {
		c.params = NewParams(m)

		return c
	}
}

// WithPersistent sets the persistent parameter store. The store is shared,
// not copied, so it can outlive the request.
func WithPersistent(p *Params) Option {
	return func(c *Context) *Context {
		if p != nil {
			c.persistent = p
		}

		return c
	}
}

// WithCookies adds output cookies.
func WithCookies(cookies ...Cookie) Option {
	return func(c *Context) *Context {
		c.cookies = append(c.cookies, cookies...)

		return c
	}
}

// WithRawHeader controls whether a header block is written to a writer that
// is not an [http.ResponseWriter].
func WithRawHeader(enable bool) Option {
	return func(c *Context) *Context {
		c.raw = enable

		return c
	}
}

// New returns a Context writing to w.
func New(w io.Writer, opts ...Option) *Context {
	if w == nil {
		w = io.Discard
	}

	return pkg.Apply(&Context{
		w:          w,
		encoding:   DefaultEncoding,
		statusCode: DefaultStatusCode,
		statusText: DefaultStatusText,
		mimeType:   DefaultMimeType,
		params:     new(Params),
		persistent: new(Params),
		temporary:  new(Params),
	}, opts...)
}

// SetEncoding sets the character encoding of text written with
// [Context.WriteString]. The name is resolved with the WHATWG encoding
// labels, for example "utf-8", "iso-8859-2", or "windows-1250".
func (c *Context) SetEncoding(name string) error {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return ErrEncoding.Wrap(err).With(slog.String("encoding", name))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.headerSent {
		return ErrHeaderSent.With(slog.String("field", "encoding"))
	}

	c.encoding = name
	c.encoder = nil

	if canonical, _ := htmlindex.Name(enc); canonical != "utf-8" {
		c.encoder = enc.NewEncoder()
	}

	return nil
}

// SetStatusCode sets the response status code.
func (c *Context) SetStatusCode(code int) error {
	return c.set("status_code", func() { c.statusCode = code })
}

// SetStatusText sets the reason phrase of the raw status line.
func (c *Context) SetStatusText(text string) error {
	return c.set("status_text", func() { c.statusText = text })
}

// SetMimeType sets the response content type. An empty mime type is ignored.
func (c *Context) SetMimeType(mime string) error {
	if mime == "" {
		return nil
	}

	return c.set("mime_type", func() { c.mimeType = mime })
}

// AddCookie adds an output cookie.
func (c *Context) AddCookie(cookie Cookie) error {
	return c.set("cookie", func() { c.cookies = append(c.cookies, cookie) })
}

func (c *Context) set(field string, fn func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.headerSent {
		return ErrHeaderSent.With(slog.String("field", field))
	}

	fn()

	return nil
}

// StatusCode returns the response status code.
func (c *Context) StatusCode() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.statusCode
}

// MimeType returns the response content type.
func (c *Context) MimeType() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.mimeType
}

// HeaderSent reports whether the header has been emitted.
func (c *Context) HeaderSent() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.headerSent
}

// Write writes p to the body, emitting the header first if needed.
func (c *Context) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.header(); err != nil {
		return 0, err
	}

	n, err := c.w.Write(p)
	if err != nil {
		return n, ErrWrite.Wrap(err)
	}

	return n, nil
}

// WriteString writes s to the body in the configured encoding, emitting the
// header first if needed. It returns len(s) on success.
func (c *Context) WriteString(s string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.header(); err != nil {
		return 0, err
	}

	data := []byte(s)

	if c.encoder != nil {
		var err error
		if data, err = c.encoder.Bytes(data); err != nil {
			return 0, ErrEncoding.Wrap(err).With(slog.String("encoding", c.encoding))
		}
	}

	if _, err := c.w.Write(data); err != nil {
		return 0, ErrWrite.Wrap(err)
	}

	return len(s), nil
}

// Flush emits the header if it has not been emitted and flushes the writer
// if it supports flushing.
func (c *Context) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.header(); err != nil {
		return err
	}

	if f, ok := c.w.(http.Flusher); ok {
		f.Flush()
	}

	return nil
}

// contentType returns the Content-Type value, with a charset for text types.
func (c *Context) contentType() string {
	if strings.HasPrefix(c.mimeType, "text/") {
		return c.mimeType + "; charset=" + c.encoding
	}

	return c.mimeType
}

// header emits the header once. The caller holds c.mu.
func (c *Context) header() error {
	if c.headerSent {
		return nil
	}

	c.headerSent = true

	if rw, ok := c.w.(http.ResponseWriter); ok {
		rw.Header().Set("Content-Type", c.contentType())

		for _, cookie := range c.cookies {
			http.SetCookie(rw, cookie.HTTP())
		}

		rw.WriteHeader(c.statusCode)

		return nil
	}

	if !c.raw {
		return nil
	}

	var b strings.Builder

	b.WriteString("HTTP/1.1 " + strconv.Itoa(c.statusCode) + " " + c.statusText + "\r\n")
	b.WriteString("Content-Type: " + c.contentType() + "\r\n")

	for _, cookie := range c.cookies {
		b.WriteString("Set-Cookie: " + cookie.String() + "\r\n")
	}

	b.WriteString("\r\n")

	data, err := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()).String(b.String())
	if err != nil {
		return ErrEncoding.Wrap(err).With(slog.String("encoding", "ISO-8859-1"))
	}

	if _, err := io.WriteString(c.w, data); err != nil {
		return ErrWrite.Wrap(err)
	}

	return nil
}

// Parameter returns a request parameter.
func (c *Context) Parameter(name string) (string, bool) { return c.params.Get(name) }

// ParameterNames returns the request parameter names in sorted order.
func (c *Context) ParameterNames() []string { return c.params.Names() }

// PersistentParameter returns a persistent parameter.
func (c *Context) PersistentParameter(name string) (string, bool) {
	return c.persistent.Get(name)
}

// SetPersistentParameter stores a persistent parameter.
func (c *Context) SetPersistentParameter(name, value string) { c.persistent.Set(name, value) }

// RemovePersistentParameter removes a persistent parameter.
func (c *Context) RemovePersistentParameter(name string) { c.persistent.Delete(name) }

// PersistentParameterNames returns the persistent parameter names in sorted
// order.
func (c *Context) PersistentParameterNames() []string { return c.persistent.Names() }

// TemporaryParameter returns a temporary parameter.
func (c *Context) TemporaryParameter(name string) (string, bool) {
	return c.temporary.Get(name)
}

// SetTemporaryParameter stores a temporary parameter.
func (c *Context) SetTemporaryParameter(name, value string) { c.temporary.Set(name, value) }

// RemoveTemporaryParameter removes a temporary parameter.
func (c *Context) RemoveTemporaryParameter(name string) { c.temporary.Delete(name) }

// TemporaryParameterNames returns the temporary parameter names in sorted
// order.
func (c *Context) TemporaryParameterNames() []string { return c.temporary.Names() }
