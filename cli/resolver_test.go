package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

type resolverCLI struct {
	LogLevel string   `default:"info" name:"log-level"`
	Pretty   bool     `name:"pretty"`
	Tags     []string `name:"tags"`

	Serve struct {
		Port  int  `name:"port"`
		Watch bool `name:"watch"`
	} `cmd:""`

	Other struct {
		Port int `name:"port"`
	} `cmd:""`
}

func parseWithConfig(t *testing.T, yaml string, args ...string) *resolverCLI {
	t.Helper()

	loader := resolve(context.Background())

	r, err := loader(strings.NewReader(yaml))
	if err != nil {
		t.Fatal(err)
	}

	var cli resolverCLI

	parser, err := kong.New(&cli, kong.Resolvers(r), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse(args); err != nil {
		t.Fatal(err)
	}

	return &cli
}

func TestResolve_GlobalFlags(t *testing.T) {
	cli := parseWithConfig(t, "log_level: debug\npretty: true\ntags: [a, b]\n", "other")

	if cli.LogLevel != "debug" {
		t.Errorf("log-level = %q, want debug", cli.LogLevel)
	}

	if !cli.Pretty {
		t.Error("pretty = false, want true")
	}

	if len(cli.Tags) != 2 || cli.Tags[0] != "a" || cli.Tags[1] != "b" {
		t.Errorf("tags = %v, want [a b]", cli.Tags)
	}
}

func TestResolve_CommandSection(t *testing.T) {
	config := "port: 1\nserve:\n  port: 8080\n  watch: true\n"

	cli := parseWithConfig(t, config, "serve")
	if cli.Serve.Port != 8080 || !cli.Serve.Watch {
		t.Errorf("serve = %+v, want port 8080 with watch", cli.Serve)
	}

	cli = parseWithConfig(t, config, "other")
	if cli.Other.Port != 1 {
		t.Errorf("other port = %d, want top-level 1", cli.Other.Port)
	}
}

func TestResolve_FlagsOverrideConfig(t *testing.T) {
	cli := parseWithConfig(t, "log-level: debug\n", "--log-level=warn", "other")

	if cli.LogLevel != "warn" {
		t.Errorf("log-level = %q, want warn", cli.LogLevel)
	}
}

func TestResolve_InvalidYAMLIgnored(t *testing.T) {
	cli := parseWithConfig(t, "log-level: [unclosed\n", "other")

	if cli.LogLevel != "info" {
		t.Errorf("log-level = %q, want default info", cli.LogLevel)
	}
}

func TestScalar(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{int64(-3), "-3"},
		{uint64(7), "7"},
		{1.5, "1.5"},
		{true, true},
		{"s", "s"},
		{[]any{"a", int64(2), false}, "a,2,false"},
	}

	for _, tt := range tests {
		if got := scalar(tt.in); got != tt.want {
			t.Errorf("scalar(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogScan(t *testing.T) {
	var f logConfig

	f.scan([]string{"render", "--log-level", "debug", "--no-log-pretty", "--log-caller=true", "x.smscr"})

	if f.Level != "debug" {
		t.Errorf("level = %q, want debug", f.Level)
	}

	if f.Pretty {
		t.Error("pretty = true, want false")
	}

	if !f.Caller {
		t.Error("caller = false, want true")
	}
}

func TestFlagBool(t *testing.T) {
	tests := []struct {
		value            string
		assigned, negate bool
		want, ok         bool
	}{
		{"", false, false, true, true},
		{"", false, true, false, true},
		{"false", true, false, false, true},
		{"false", true, true, true, true},
		{"maybe", true, false, false, false},
	}

	for _, tt := range tests {
		got, ok := flagBool(tt.value, tt.assigned, tt.negate)
		if got != tt.want || ok != tt.ok {
			t.Errorf("flagBool(%q, %v, %v) = %v, %v; want %v, %v",
				tt.value, tt.assigned, tt.negate, got, ok, tt.want, tt.ok)
		}
	}
}
