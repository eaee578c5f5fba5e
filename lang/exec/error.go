package exec

import "github.com/ardnew/smscr/pkg"

// Evaluation errors. Any of them aborts the execution that raised it.
var (
	ErrEmptyStack        = pkg.NewError("no value for variable")
	ErrStackUnderflow    = pkg.NewError("evaluation stack underflow")
	ErrUnknownFunction   = pkg.NewError("unknown function")
	ErrDuplicateFunction = pkg.NewError("function already registered")
	ErrFunction          = pkg.NewError("function failed")
	ErrCoercion          = pkg.NewError("operand is not a number")
	ErrInvalidOperator   = pkg.NewError("invalid operator")
	ErrDecimalPattern    = pkg.NewError("invalid decimal pattern")
	ErrWrite             = pkg.NewError("write failed")
)
