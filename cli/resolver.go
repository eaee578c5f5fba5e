package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/smscr/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads flag values from
// a YAML configuration file.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// Top-level keys name global flags. A key naming a command holds a mapping
// of that command's flags:
//
//	log-level: debug
//	log_pretty: false
//	serve:
//	  port: 8080
//	  watch: true
//
// Flag names may be written with hyphens or underscores. Sequences become
// comma-separated values. Command-line flags override config file values.
// A file that is not valid YAML is ignored.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return config{}, nil
		}

		var m map[string]any
		if err := yaml.Unmarshal(data, &m); err != nil {
			log.WarnContext(ctx, "ignoring configuration file", slog.Any("error", err))

			return config{}, nil
		}

		return config(m), nil
	}
}

// config implements [kong.Resolver] for YAML configuration maps.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver]. Flags of a command are looked up in
// that command's section first, then at the top level.
func (r config) Resolve(
	_ *kong.Context,
	parent *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if parent != nil && parent.Command != nil {
		if section, ok := r[parent.Command.Name].(map[string]any); ok {
			if value, ok := config(section).lookup(flag.Name); ok {
				return value, nil
			}
		}
	}

	if value, ok := r.lookup(flag.Name); ok {
		return value, nil
	}

	return nil, nil
}

func (r config) lookup(name string) (any, bool) {
	for _, key := range []string{name, strings.ReplaceAll(name, "-", "_")} {
		if value, ok := r[key]; ok {
			if _, section := value.(map[string]any); section {
				continue
			}

			return scalar(value), true
		}
	}

	return nil, false
}

// scalar converts a decoded YAML value to a form kong can decode. Kong
// parses numbers from strings, and lists from comma-separated strings.
func scalar(value any) any {
	switch v := value.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		part := make([]string, len(v))
		for i, e := range v {
			switch s := scalar(e).(type) {
			case string:
				part[i] = s
			case bool:
				part[i] = strconv.FormatBool(s)
			}
		}

		return strings.Join(part, ",")
	default:
		return v
	}
}
