// Package errors implements the error kinds of spec.md §7 and a small
// coloured Reporter, adapted from the teacher's internal/errors package
// (CompilerError + ErrorReporter). The CLI and REPL do not use the Reporter;
// they print each error as a plain "Error: ..." status line.
package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"eggo/internal/ast"
)

// Kind is one of the error kinds enumerated in spec.md §7.
type Kind string

const (
	Parse                Kind = "parse"
	NotFound              Kind = "not_found"
	TypeError             Kind = "type"
	CheckFailed           Kind = "check_failed"
	SortAlreadyBound      Kind = "sort_already_bound"
	FunctionAlreadyBound  Kind = "function_already_bound"
	GlobalAlreadyBound    Kind = "global_already_bound"
	PrimitiveAmbiguity    Kind = "primitive_ambiguity"
	Unextractable         Kind = "unextractable"
	UserPanic             Kind = "user_panic"
	FatalConfig           Kind = "fatal_config"
)

// EggoError is a structured engine error: every error carries a message
// referencing the offending symbol or expression, unchanged across
// saturation rounds (spec.md §7).
type EggoError struct {
	Kind    Kind
	Code    string
	Message string
	Pos     *ast.Position
	Notes   []string
}

func (e *EggoError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return e.Message
}

func newErr(kind Kind, code string, pos *ast.Position, format string, args ...any) *EggoError {
	return &EggoError{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...), Pos: pos}
}

func NotFoundf(pos *ast.Position, format string, args ...any) *EggoError {
	return newErr(NotFound, CodeNotFound, pos, format, args...)
}

func Typef(pos *ast.Position, format string, args ...any) *EggoError {
	return newErr(TypeError, CodeType, pos, format, args...)
}

func SortAlreadyBoundf(pos *ast.Position, format string, args ...any) *EggoError {
	return newErr(SortAlreadyBound, CodeSortAlreadyBound, pos, format, args...)
}

func FunctionAlreadyBoundf(pos *ast.Position, format string, args ...any) *EggoError {
	return newErr(FunctionAlreadyBound, CodeFunctionAlreadyBound, pos, format, args...)
}

func GlobalAlreadyBoundf(pos *ast.Position, format string, args ...any) *EggoError {
	return newErr(GlobalAlreadyBound, CodeGlobalAlreadyBound, pos, format, args...)
}

func CheckFailedf(pos *ast.Position, format string, args ...any) *EggoError {
	return newErr(CheckFailed, CodeCheckFailed, pos, format, args...)
}

func PrimitiveAmbiguityf(pos *ast.Position, format string, args ...any) *EggoError {
	return newErr(PrimitiveAmbiguity, CodePrimitiveAmbiguity, pos, format, args...)
}

func Unextractablef(pos *ast.Position, format string, args ...any) *EggoError {
	return newErr(Unextractable, CodeUnextractable, pos, format, args...)
}

func UserPanicf(pos *ast.Position, format string, args ...any) *EggoError {
	return newErr(UserPanic, CodeUserPanic, pos, format, args...)
}

func Parsef(pos *ast.Position, format string, args ...any) *EggoError {
	return newErr(Parse, CodeParse, pos, format, args...)
}

// FatalConfigf builds one of the three "programmer error" conditions
// spec.md §7 says terminate the whole program rather than just the
// offending command.
func FatalConfigf(pos *ast.Position, format string, args ...any) *EggoError {
	return newErr(FatalConfig, CodeFatalConfig, pos, format, args...)
}

// IsFatal reports whether err should abort the entire program rather than
// just the command that produced it (spec.md §7).
func IsFatal(err error) bool {
	ee, ok := err.(*EggoError)
	return ok && ee.Kind == FatalConfig
}

// Reporter renders EggoErrors the way the teacher's ErrorReporter renders
// CompilerError: a coloured "error[code]: message" header, and a location
// line when a Position is attached.
type Reporter struct {
	colorEnabled bool
}

func NewReporter(colorEnabled bool) *Reporter {
	return &Reporter{colorEnabled: colorEnabled}
}

func (r *Reporter) Format(err *EggoError) string {
	var b strings.Builder

	red := color.New(color.FgRed, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	if !r.colorEnabled {
		red = func(a ...any) string { return fmt.Sprint(a...) }
		dim = func(a ...any) string { return fmt.Sprint(a...) }
	}

	if err.Code != "" {
		fmt.Fprintf(&b, "%s: %s\n", red(fmt.Sprintf("error[%s]", err.Code)), err.Message)
	} else {
		fmt.Fprintf(&b, "%s: %s\n", red("error"), err.Message)
	}

	if err.Pos != nil {
		fmt.Fprintf(&b, "  %s %s\n", dim("-->"), err.Pos.String())
	}

	for _, n := range err.Notes {
		fmt.Fprintf(&b, "  %s %s\n", dim("note:"), n)
	}

	return b.String()
}
