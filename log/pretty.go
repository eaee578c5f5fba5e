package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// prettyBase holds the state shared by both pretty handlers.
type prettyBase struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	groups []string
}

func (b prettyBase) enabled(level slog.Level) bool {
	floor := slog.LevelInfo
	if b.opts.Level != nil {
		floor = b.opts.Level.Level()
	}

	return level >= floor
}

// builtins returns the time, level, source, and message attributes of r after
// passing them through ReplaceAttr. Attributes replaced with an empty key are
// dropped.
func (b prettyBase) builtins(r slog.Record) []slog.Attr {
	attrs := make([]slog.Attr, 0, 4)

	if !r.Time.IsZero() {
		attrs = append(attrs, slog.Time(slog.TimeKey, r.Time))
	}

	attrs = append(attrs, slog.Any(slog.LevelKey, r.Level))

	if b.opts.AddSource {
		if src := r.Source(); src != nil {
			attrs = append(attrs, slog.String(
				slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line),
			))
		}
	}

	attrs = append(attrs, slog.String(slog.MessageKey, r.Message))

	if b.opts.ReplaceAttr == nil {
		return attrs
	}

	out := attrs[:0]

	for _, a := range attrs {
		if a = b.opts.ReplaceAttr(nil, a); a.Key != "" {
			out = append(out, a)
		}
	}

	return out
}

// custom returns the attributes bound with WithAttrs followed by the record's
// own attributes, with group names prefixed to their keys.
func (b prettyBase) custom(r slog.Record) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(b.attrs)+r.NumAttrs())
	attrs = append(attrs, b.attrs...)

	prefix := strings.Join(b.groups, ".")

	r.Attrs(func(a slog.Attr) bool {
		if prefix != "" {
			a.Key = prefix + "." + a.Key
		}

		attrs = append(attrs, a)

		return true
	})

	return attrs
}

func (b prettyBase) withAttrs(attrs []slog.Attr) prettyBase {
	prefix := strings.Join(b.groups, ".")

	bound := make([]slog.Attr, 0, len(b.attrs)+len(attrs))
	bound = append(bound, b.attrs...)

	for _, a := range attrs {
		if prefix != "" {
			a.Key = prefix + "." + a.Key
		}

		bound = append(bound, a)
	}

	b.attrs = bound

	return b
}

func (b prettyBase) withGroup(name string) prettyBase {
	if name != "" {
		b.groups = append(b.groups[:len(b.groups):len(b.groups)], name)
	}

	return b
}

func (b prettyBase) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := b.w.Write(buf.Bytes())

	return err
}

// prettyTextHandler implements a colorized text handler for log messages.
type prettyTextHandler struct{ prettyBase }

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{prettyBase{opts: *opts, mu: &sync.Mutex{}, w: w}}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for _, a := range h.builtins(r) {
		h.writeAttr(buf, a)
	}

	for _, a := range h.custom(r) {
		h.writeAttr(buf, a)
	}

	return h.write(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			if a.Key != "" {
				ga.Key = a.Key + "." + ga.Key
			}

			h.writeAttr(buf, ga)
		}

		return
	}

	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	// Write key in gray
	buf.WriteString(colorGray)
	buf.WriteString(a.Key)
	buf.WriteString(colorReset)
	buf.WriteByte('=')

	writeValue(buf, a.Key, a.Value)
}

// prettyJSONHandler implements a pretty-printed JSON handler for log messages.
type prettyJSONHandler struct{ prettyBase }

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{prettyBase{opts: *opts, mu: &sync.Mutex{}, w: w}}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	buf.WriteString("{\n")

	first := true

	for _, a := range h.builtins(r) {
		h.writeField(buf, a, 1, &first)
	}

	for _, a := range h.custom(r) {
		h.writeField(buf, a, 1, &first)
	}

	buf.WriteString("\n}")

	return h.write(buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}

func (h *prettyJSONHandler) writeField(
	buf *bytes.Buffer,
	a slog.Attr,
	depth int,
	first *bool,
) {
	a.Value = a.Value.Resolve()

	if !*first {
		buf.WriteString(",\n")
	}

	*first = false
	indent := strings.Repeat("  ", depth)

	buf.WriteString(indent)
	// Key in gray
	buf.WriteString(colorGray)
	buf.WriteString(a.Key)
	buf.WriteString(colorReset)
	buf.WriteString(": ")

	if a.Value.Kind() != slog.KindGroup {
		writeValue(buf, a.Key, a.Value)

		return
	}

	buf.WriteString("{\n")

	inner := true
	for _, ga := range a.Value.Group() {
		h.writeField(buf, ga, depth+1, &inner)
	}

	buf.WriteString("\n" + indent + "}")
}

// writeValue writes v colorized by kind. String values are written without
// quotes.
func writeValue(buf *bytes.Buffer, key string, v slog.Value) {
	color, text := colorCyan, v.String()

	switch v.Kind() {
	case slog.KindString:
		if key == slog.LevelKey {
			color = levelColor(ParseLevel(text))
		}

	case slog.KindInt64:
		color, text = colorYellow, strconv.FormatInt(v.Int64(), 10)

	case slog.KindUint64:
		color, text = colorYellow, strconv.FormatUint(v.Uint64(), 10)

	case slog.KindFloat64:
		color, text = colorYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64)

	case slog.KindBool:
		color = colorRed
		if v.Bool() {
			color = colorGreen
		}

	case slog.KindDuration:
		color = colorMagenta

	case slog.KindTime:
		color = colorBlue

	case slog.KindAny:
		if level, ok := v.Any().(slog.Level); ok {
			color = levelColor(Level(level))
			text = strings.ToUpper(Level(level).String())
		}
	}

	buf.WriteString(color)
	buf.WriteString(text)
	buf.WriteString(colorReset)
}

func levelColor(level Level) string {
	switch {
	case level >= LevelError:
		return colorRed
	case level >= LevelWarn:
		return colorYellow
	case level >= LevelInfo:
		return colorGreen
	default:
		return colorBlue
	}
}
