package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Process exit statuses.
const (
	ExitSuccess      = 0 // command ran and found what was asked
	ExitFailure      = 1 // no path, unknown name, or the metadata has issues
	ExitCommandError = 2 // unreadable metadata, bad arguments, store failure
)

// Error codes reported by the commands. Metadata loading and graph
// construction carry their own codes (metadata.ErrCode*, graph.Code*), which
// are reported unchanged.
const (
	ErrCodeGeneric     = "E001" // unclassified
	ErrCodeNotFound    = "E005" // unknown coordinate system or parameter path
	ErrCodeBadArgument = "E007" // malformed argument or flag value
	ErrCodeNoPath      = "E301" // systems exist but are not connected
	ErrCodeMaterialize = "E302" // route found but its matrices could not be built
	ErrCodeStore       = "E303" // parameter store failure
)

// ExitError carries the exit status a failed command should end with.
type ExitError struct {
	Status  int    // ExitFailure or ExitCommandError
	Code    string // error code already reported to the user, if any
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError returns an ExitError with no cause.
func NewExitError(status int, message string) *ExitError {
	return &ExitError{Status: status, Message: message}
}

// WrapExitError returns an ExitError caused by err.
func WrapExitError(status int, message string, err error) *ExitError {
	return &ExitError{Status: status, Message: message, Err: err}
}

// GetExitCode maps a command error to a process exit status. Errors that
// are not ExitErrors (cobra's own argument errors) are failures.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Status
	}
	return ExitFailure
}

// OutputFormatter writes command results as text or as a JSON CLIResponse.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // verbose notes; falls back to Writer
	Verbose   bool
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// CLIResponse is the JSON envelope of every command.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError describes why a command failed.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (f *OutputFormatter) isJSON() bool { return f.Format == "json" }

// emit writes resp as one JSON document. Indented output is reserved for
// reports a person is expected to read, like validation issues.
func (f *OutputFormatter) emit(resp CLIResponse, indent bool) error {
	enc := json.NewEncoder(f.Writer)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(resp)
}

// Success writes data. Text output relies on data implementing fmt.Stringer.
func (f *OutputFormatter) Success(data any) error {
	if f.isJSON() {
		return f.emit(CLIResponse{Status: "ok", Data: data}, false)
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error writes a coded error. Details only reach text output in verbose mode.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.isJSON() {
		return f.emit(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		}, false)
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail writes a coded error and returns the ExitError for it.
func (f *OutputFormatter) Fail(status int, code, message string, details any) error {
	_ = f.Error(code, message, details)
	return &ExitError{Status: status, Code: code, Message: message}
}

// Report writes a failed result that still carries data, such as a
// validation summary next to its first issue.
func (f *OutputFormatter) Report(data any, code, message string) error {
	return f.emit(CLIResponse{
		Status: "error",
		Data:   data,
		Error:  &CLIError{Code: code, Message: message},
	}, true)
}

// VerboseLog writes a note to ErrWriter in verbose mode, keeping JSON on
// Writer intact.
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
