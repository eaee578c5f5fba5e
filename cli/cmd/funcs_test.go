package cmd

import (
	"context"
	"strings"
	"testing"
)

func TestFuncs(t *testing.T) {
	var out strings.Builder

	if err := (Funcs{}).Run(WithOutput(context.Background(), &out)); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")

	for _, want := range []string{"@sin", "@decfmt", "@dup", "@swap", "@paramGet", "@tparamDel"} {
		found := false

		for _, line := range lines {
			if line == want {
				found = true
			}
		}

		if !found {
			t.Errorf("missing %s in %v", want, lines)
		}
	}

	for i := 1; i < len(lines); i++ {
		if lines[i-1] > lines[i] {
			t.Errorf("not sorted: %q before %q", lines[i-1], lines[i])
		}
	}
}
