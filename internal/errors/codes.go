package errors

// Error codes for the eggo engine.
//
// Error code ranges:
// E0001-E0099: lookup / not-found errors
// E0100-E0199: type-system errors
// E0200-E0299: declaration errors (sorts, functions, globals)
// E0300-E0399: check failures
// E0400-E0499: primitive dispatch errors
// E0500-E0599: extraction errors
// E0600-E0699: user panics
// E0700-E0799: parse errors
// E0800-E0899: fatal configuration errors (programmer errors, abort the run)

const (
	// E0001: a variable, global, function, or primitive couldn't be resolved.
	CodeNotFound = "E0001"

	// E0101: a type-checking inconsistency (undefined sort, mismatch, ...).
	CodeType = "E0101"

	// E0201: a sort name was already declared.
	CodeSortAlreadyBound = "E0201"
	// E0202: a function name was already declared.
	CodeFunctionAlreadyBound = "E0202"
	// E0203: a global was already defined.
	CodeGlobalAlreadyBound = "E0203"

	// E0301: a Check command's assertion did not hold.
	CodeCheckFailed = "E0301"

	// E0401: zero or more than one primitive implementation matched.
	CodePrimitiveAmbiguity = "E0401"

	// E0501: no term could be extracted for a class.
	CodeUnextractable = "E0501"

	// E0601: a user-level Panic action fired.
	CodeUserPanic = "E0601"

	// E0701: the surface syntax failed to parse.
	CodeParse = "E0701"

	// E0801: a declaration or rule-apply step hit a condition the spec
	// treats as a programmer error: corrupted function output, an invalid
	// merge declaration, or a missing default for a non-sort output.
	CodeFatalConfig = "E0801"
)
