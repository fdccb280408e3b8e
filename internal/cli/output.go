package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/aleksaelezovic/cottas/pkg/cottas"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operation failed (parse, engine or i/o error)
	ExitCommandError = 2 // Bad invocation (usage, unsupported format, invalid index, bad config)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// operationError maps a cottas error kind onto an exit code.
func operationError(message string, err error) error {
	switch {
	case errors.Is(err, cottas.ErrUnsupportedFormat), errors.Is(err, cottas.ErrInvalidIndex):
		return WrapExitError(ExitCommandError, message, err)
	default:
		return WrapExitError(ExitFailure, message, err)
	}
}

// OutputFormatter writes command results as text, JSON or YAML.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Diagnostic output, kept off Writer so structured output stays clean
	Verbose   bool
}

// Emit writes data in the configured format. Text output is produced by
// text, or by printing data when text is nil.
func (f *OutputFormatter) Emit(data any, text func(w io.Writer) error) error {
	switch f.Format {
	case "json":
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case "yaml":
		enc := yaml.NewEncoder(f.Writer)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	}

	if text != nil {
		return text(f.Writer)
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Result prints the outcome of a file-producing operation.
func (f *OutputFormatter) Result(r cottas.Result) error {
	return f.Emit(r, func(w io.Writer) error {
		if !r.Written {
			_, err := fmt.Fprintln(w, "skipped: nothing written")
			return err
		}
		shape := "triples"
		if r.Quad {
			shape = "quads"
		}
		if r.Index == "" {
			_, err := fmt.Fprintf(w, "%s: %d %s\n", r.Output, r.Rows, shape)
			return err
		}
		_, err := fmt.Fprintf(w, "%s: %d %s (index %s)\n", r.Output, r.Rows, shape, r.Index)
		return err
	})
}

// VerboseLog outputs a message only if verbose mode is enabled.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
