package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardnew/smscr/log"
	"github.com/ardnew/smscr/server"
)

// Serve runs the HTTP server. Flags override the values read from the
// server configuration file, which override the defaults.
type Serve struct {
	Config  string `help:"Server configuration file (YAML)." placeholder:"FILE" short:"c" type:"existingfile"`
	Address string `help:"Listen address."                   short:"a"`
	Port    int    `help:"Listen port."                      short:"p"`
	Timeout int    `help:"Session idle timeout in seconds."`
	Watch   bool   `help:"Evict cached scripts when their files change." short:"w"`

	Root string `arg:"" help:"Document root." name:"root" optional:"" type:"existingdir"`
}

// config returns the server configuration selected by s.
func (s *Serve) config() (server.Config, error) {
	cfg := server.DefaultConfig()

	if s.Config != "" {
		var err error
		if cfg, err = server.LoadConfig(s.Config); err != nil {
			return server.Config{}, err
		}
	}

	return cfg.Merge(server.Config{
		Address:        s.Address,
		Port:           s.Port,
		DocumentRoot:   s.Root,
		SessionTimeout: s.Timeout,
		Watch:          s.Watch,
	}), nil
}

// Run executes the serve command until interrupted.
func (s *Serve) Run(ctx context.Context) error {
	cfg, err := s.config()
	if err != nil {
		return ErrServe.Wrap(err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(cfg, server.WithLogger(log.Default()))
	if err != nil {
		return ErrServe.Wrap(err)
	}

	if err := srv.ListenAndServe(ctx); err != nil {
		return ErrServe.Wrap(err).With(slog.String("addr", cfg.Addr()))
	}

	log.InfoContext(ctx, "server stopped")

	return nil
}
