package server

import (
	"log/slog"
	"maps"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/smscr/pkg"
)

// Config defaults.
const (
	DefaultAddress        = "127.0.0.1"
	DefaultPort           = 5721
	DefaultDocumentRoot   = "."
	DefaultSessionTimeout = 600
	DefaultMimeType       = "application/octet-stream"
)

// ErrConfig is returned when a configuration file cannot be loaded.
var ErrConfig = pkg.NewError("invalid server configuration")

// Config describes a server.
type Config struct {
	Address      string `yaml:"address"`
	Port         int    `yaml:"port"`
	DocumentRoot string `yaml:"document_root"`
	// SessionTimeout is the idle lifetime of a session in seconds.
	SessionTimeout int `yaml:"session_timeout"`
	// Mime maps file extensions, without the dot, to content types.
	Mime map[string]string `yaml:"mime"`
	// Watch enables invalidation of cached scripts when they change on disk.
	Watch bool `yaml:"watch"`
}

var defaultMime = map[string]string{
	"html":  "text/html",
	"htm":   "text/html",
	"smscr": "text/html",
	"txt":   "text/plain",
	"css":   "text/css",
	"js":    "text/javascript",
	"json":  "application/json",
	"xml":   "application/xml",
	"png":   "image/png",
	"gif":   "image/gif",
	"jpg":   "image/jpeg",
	"jpeg":  "image/jpeg",
	"svg":   "image/svg+xml",
	"ico":   "image/x-icon",
	"pdf":   "application/pdf",
}

// DefaultConfig returns the configuration used when nothing is specified.
func DefaultConfig() Config {
	return Config{
		Address:        DefaultAddress,
		Port:           DefaultPort,
		DocumentRoot:   DefaultDocumentRoot,
		SessionTimeout: DefaultSessionTimeout,
		Mime:           maps.Clone(defaultMime),
	}
}

// LoadConfig reads a YAML configuration file. Fields missing from the file
// keep their defaults, and mime entries are merged into the default map.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, ErrConfig.Wrap(err).With(slog.String("path", path))
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Config{}, ErrConfig.Wrap(err).With(slog.String("path", path))
	}

	return DefaultConfig().Merge(file), nil
}

// Merge returns c overridden by the non-zero fields of o. Mime entries of o
// are added to those of c.
func (c Config) Merge(o Config) Config {
	if o.Address != "" {
		c.Address = o.Address
	}

	if o.Port != 0 {
		c.Port = o.Port
	}

	if o.DocumentRoot != "" {
		c.DocumentRoot = o.DocumentRoot
	}

	if o.SessionTimeout != 0 {
		c.SessionTimeout = o.SessionTimeout
	}

	c.Mime = maps.Clone(c.Mime)
	if c.Mime == nil {
		c.Mime = make(map[string]string, len(o.Mime))
	}

	for ext, mime := range o.Mime {
		c.Mime[strings.ToLower(strings.TrimPrefix(ext, "."))] = mime
	}

	c.Watch = c.Watch || o.Watch

	return c
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return c.Address + ":" + strconv.Itoa(c.Port)
}

// Timeout returns the session timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.SessionTimeout) * time.Second
}

// MimeType returns the content type of files with extension ext.
func (c Config) MimeType(ext string) string {
	if mime, ok := c.Mime[strings.ToLower(strings.TrimPrefix(ext, "."))]; ok {
		return mime
	}

	return DefaultMimeType
}

// LogValue implements slog.LogValuer.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", c.Addr()),
		slog.String("document_root", c.DocumentRoot),
		slog.Int("session_timeout", c.SessionTimeout),
		slog.Int("mime_types", len(c.Mime)),
		slog.Bool("watch", c.Watch),
	)
}
