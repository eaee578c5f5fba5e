package cmd

import "github.com/ardnew/smscr/pkg"

// Errors returned by commands.
var (
	ErrOpenSource  = pkg.ErrOpenSource
	ErrYAMLMarshal = pkg.NewError("marshal YAML")
	ErrWriteConfig = pkg.NewError("write configuration file")
	ErrFileExists  = pkg.NewError("file exists (use --force to overwrite)")
	ErrRender      = pkg.NewError("render script")
	ErrFormat      = pkg.NewError("format script")
	ErrServe       = pkg.NewError("serve")
)
