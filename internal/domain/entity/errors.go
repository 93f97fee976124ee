package entity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInputNotFound aborts a run before any processing starts.
var ErrInputNotFound = errors.New("input file not found")

// DecodeError reports a GIF that could not be read or decoded. It is fatal
// to the strategy that hit it, not to the run.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports a GIF artifact that could not be written.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// ToolError reports the external optimizer missing from the execution path
// or exiting non-zero. Stderr is kept for the error text only; tool output
// is never parsed for data.
type ToolError struct {
	Tool   string
	Err    error
	Stderr string
}

func (e *ToolError) Error() string {
	if s := strings.TrimSpace(e.Stderr); s != "" {
		return fmt.Sprintf("%s: %v: %s", e.Tool, e.Err, s)
	}
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }
