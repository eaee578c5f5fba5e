package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "127.0.0.1:5721", cfg.Addr())
	assert.Equal(t, 10*time.Minute, cfg.Timeout())
	assert.Equal(t, "text/html", cfg.MimeType("smscr"))
	assert.Equal(t, "image/png", cfg.MimeType(".PNG"))
	assert.Equal(t, DefaultMimeType, cfg.MimeType("xyz"))
	assert.Equal(t, DefaultMimeType, cfg.MimeType(""))

	cfg.Mime["css"] = "changed"
	assert.Equal(t, "text/css", DefaultConfig().MimeType("css"), "defaults are not shared")
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
address: 0.0.0.0
port: 8080
document_root: /srv/www
session_timeout: 60
watch: true
mime:
  md: text/markdown
  .WASM: application/wasm
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, "/srv/www", cfg.DocumentRoot)
	assert.Equal(t, time.Minute, cfg.Timeout())
	assert.True(t, cfg.Watch)
	assert.Equal(t, "text/markdown", cfg.MimeType("md"))
	assert.Equal(t, "application/wasm", cfg.MimeType("wasm"))
	assert.Equal(t, "text/html", cfg.MimeType("html"), "defaults are kept")
}

func TestLoadConfig_Partial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9000\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultAddress+":9000", cfg.Addr())
	assert.Equal(t, DefaultDocumentRoot, cfg.DocumentRoot)
	assert.Equal(t, DefaultSessionTimeout, cfg.SessionTimeout)
	assert.False(t, cfg.Watch)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, ErrConfig)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [1, 2\n"), 0o644))

	_, err = LoadConfig(path)
	require.ErrorIs(t, err, ErrConfig)
}

func TestConfig_Merge(t *testing.T) {
	base := DefaultConfig()

	got := base.Merge(Config{Port: 8000, Mime: map[string]string{"md": "text/markdown"}})

	assert.Equal(t, 8000, got.Port)
	assert.Equal(t, DefaultAddress, got.Address)
	assert.Equal(t, "text/markdown", got.MimeType("md"))
	assert.Equal(t, DefaultMimeType, base.MimeType("md"), "the receiver is not modified")
}
