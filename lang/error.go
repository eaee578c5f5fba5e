package lang

import "github.com/ardnew/smscr/pkg"

// Errors raised by the facade itself. Lexical, parse, and evaluation faults
// are returned unchanged from the lexer, parser, and exec packages.
var (
	ErrReadInput = pkg.ErrReadInput
	ErrOpenFile  = pkg.ErrOpenSource
	ErrNilSink   = pkg.NewError("nil sink")
)
