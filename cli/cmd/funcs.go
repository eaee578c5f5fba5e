package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/smscr/lang/exec"
)

// Funcs lists the native functions available to scripts.
type Funcs struct{}

// Run executes the funcs command.
func (Funcs) Run(ctx context.Context) error {
	out := outputFrom(ctx)

	for _, name := range exec.NewRegistry().Names() {
		if _, err := fmt.Fprintln(out, "@"+name); err != nil {
			return err
		}
	}

	return nil
}
