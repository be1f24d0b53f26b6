package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrInvalidOperation  = errors.New("invalid operation")
	ErrDanglingReference = errors.New("dangling parent reference")
)

// RejectReason explains why a structural operation was refused.
type RejectReason string

const (
	// ReasonSelfMove is returned when a node is dropped onto itself
	ReasonSelfMove RejectReason = "self_move"
	// ReasonCycle is returned when a node is dropped into its own subtree
	ReasonCycle RejectReason = "cycle"
)

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a referenced node does not exist in the store
	NotFoundError struct {
		Message string
		NodeID  string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// InvalidOperationError indicates a structurally impossible request (self-move, cycle)
	InvalidOperationError struct {
		Message string
		Reason  RejectReason
	}

	// DanglingReferenceError indicates a node whose parent does not resolve.
	// Only reported by invariant checks; the forest builder treats such nodes as roots.
	DanglingReferenceError struct {
		NodeID   string
		ParentID string
	}
)

// NewNotFound builds a NotFoundError for the given node id
func NewNotFound(nodeID string) *NotFoundError {
	return &NotFoundError{
		Message: fmt.Sprintf("node %s not found", nodeID),
		NodeID:  nodeID,
	}
}

// Error implementations
func (e *NotFoundError) Error() string         { return e.Message }
func (e *ValidationError) Error() string       { return e.Message }
func (e *InvalidOperationError) Error() string { return e.Message }
func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("node %s references missing parent %s", e.NodeID, e.ParentID)
}

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int          { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int        { return http.StatusBadRequest }
func (e *InvalidOperationError) StatusCode() int  { return http.StatusUnprocessableEntity }
func (e *DanglingReferenceError) StatusCode() int { return http.StatusInternalServerError }

// Is allows errors.Is() to match the typed errors against their sentinels
func (e *NotFoundError) Is(target error) bool          { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool        { return target == ErrValidation }
func (e *InvalidOperationError) Is(target error) bool  { return target == ErrInvalidOperation }
func (e *DanglingReferenceError) Is(target error) bool { return target == ErrDanglingReference }
