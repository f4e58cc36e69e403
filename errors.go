package framegraph

import (
	"errors"
	"fmt"
)

// Sentinel errors: plain errors.New values for conditions a caller
// might reasonably check with errors.Is.
var (
	// ErrForeignHandle is returned when a handle captured from one
	// FrameGraph (or a prior frame, before Reset) is used against
	// another — a handle-from-an-unrelated-graph setup misuse.
	ErrForeignHandle = errors.New("framegraph: handle does not belong to this graph/frame")

	// ErrAlreadyBuilt is returned by PassNodeBuilder methods called
	// after Build has finalized the pass.
	ErrAlreadyBuilt = errors.New("framegraph: pass node builder already built")

	// ErrNotOwner is returned when a pass attempts to Write a handle it
	// did not itself Create or previously Read.
	ErrNotOwner = errors.New("framegraph: pass does not own this resource node")

	// ErrSelfRead is returned when a pass attempts to Read a node it
	// just wrote in the same Build — a forbidden DAG self-loop.
	ErrSelfRead = errors.New("framegraph: cannot read a node written earlier in the same pass")

	// ErrResourceNotFound is returned by PassNodeBuilder.SetClearValue
	// for a handle this pass has not attached.
	ErrResourceNotFound = errors.New("framegraph: resource not present in this device pass's table")
)

// ValidationError reports a setup-misuse error with enough context to
// locate the offending pass-author call.
type ValidationError struct {
	Pass    string // debug name of the pass node, if known
	Op      string // the PassNodeBuilder operation that failed
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Pass != "" {
		return fmt.Sprintf("framegraph: pass %q: %s: %s", e.Pass, e.Op, e.Message)
	}
	return fmt.Sprintf("framegraph: %s: %s", e.Op, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func newValidationError(pass, op, message string, cause error) *ValidationError {
	return &ValidationError{Pass: pass, Op: op, Message: message, Cause: cause}
}

// CreatorError wraps the error returned by a ResourceCreator, surfaced
// from Execute when resource creation fails mid-frame.
type CreatorError struct {
	Name string
	Desc AnyResourceDescriptor
	Err  error
}

func (e *CreatorError) Error() string {
	return fmt.Sprintf("framegraph: creating resource %q (%s): %v", e.Name, e.Desc.Kind, e.Err)
}

func (e *CreatorError) Unwrap() error {
	return e.Err
}
