// Package lang parses and executes SmartScript documents.
//
// A document is free text interspersed with tags delimited by "{$" and "$}".
// An echo tag evaluates a postfix expression and writes what is left on the
// evaluation stack:
//
//	{$= "n" 0 @paramGet 2 * $}
//
// A FOR tag repeats the nodes up to the matching END tag while the loop
// variable does not exceed the end value:
//
//	{$ FOR i 1 10 1 $}{$= i $} {$END$}
//
// Parsing is done by package [github.com/ardnew/smscr/lang/parser] and
// execution by package [github.com/ardnew/smscr/lang/exec]. This package
// adds a content-addressed cache of parsed documents so that identical
// sources are parsed once, and convenience functions that combine the two
// steps.
//
// # Caching
//
// [Parse], [ParseReader], and [ParseFile] share parsed trees through a
// process-wide cache keyed by the xxh3 hash of the source text. A tree is
// never modified after parsing, so concurrent executions of a cached tree
// are safe as long as each uses its own sink. Parse failures are cached like
// successes. [Invalidate] drops the tree remembered for a file, [Forget] the
// tree for a source string, and [ClearCache] everything.
package lang
