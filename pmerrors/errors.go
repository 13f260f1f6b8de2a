package pmerrors

import "fmt"

// InputTooLargeError is returned when the incoming HTML exceeds the
// configured byte ceiling before any parsing is attempted.
type InputTooLargeError struct {
	Bytes int
	Limit int
}

func (e *InputTooLargeError) Error() string {
	return fmt.Sprintf("pagemap: input too large: %d bytes (limit %d)", e.Bytes, e.Limit)
}

// MalformedHTMLError wraps an unrecoverable parse failure.
type MalformedHTMLError struct {
	Cause error
}

func (e *MalformedHTMLError) Error() string {
	return fmt.Sprintf("pagemap: malformed html: %v", e.Cause)
}

func (e *MalformedHTMLError) Unwrap() error { return e.Cause }

// ResourceExhaustedError covers every resource ceiling the core enforces
// past the initial size guard.
type ResourceExhaustedError struct {
	Reason string // html_size | dom_nodes | text_output | image_output
}

func (e *ResourceExhaustedError) Error() string {
	return fmt.Sprintf("pagemap: resource exhausted: %s", e.Reason)
}

// PipelineTimeoutError is returned when a pipeline pass exceeds its
// per-call deadline at a stage boundary.
type PipelineTimeoutError struct {
	Stage string
}

func (e *PipelineTimeoutError) Error() string {
	return fmt.Sprintf("pagemap: pipeline timeout at stage %s", e.Stage)
}
