// Package apperrors defines the error kinds the inventory core returns.
// Handlers map each kind to an HTTP status; repositories and services wrap
// them with %w so errors.As keeps working through the layers.
package apperrors

import "fmt"

// NotFoundError: the referenced resource does not exist or is inactive.
type NotFoundError struct {
	Resource string
	ID       any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

func NewNotFoundError(resource string, id any) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError: malformed input, missing required field, invalid
// quantity or location mismatch.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// InsufficientStockError: requested quantity exceeds available stock at
// the resolved location.
type InsufficientStockError struct {
	ItemName  string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d",
		e.ItemName, e.Available, e.Requested)
}

func NewInsufficientStockError(itemName string, available, requested int) *InsufficientStockError {
	return &InsufficientStockError{ItemName: itemName, Available: available, Requested: requested}
}

// InvalidTransitionError: the action is not legal from the current status.
type InvalidTransitionError struct {
	Action string
	Status string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("action %q is not allowed from status %q", e.Action, e.Status)
}

func NewInvalidTransitionError(action, status string) *InvalidTransitionError {
	return &InvalidTransitionError{Action: action, Status: status}
}

// DuplicateError: serial-number or reference-number collision.
type DuplicateError struct {
	Message string
}

func (e *DuplicateError) Error() string { return e.Message }

func NewDuplicateError(format string, args ...any) *DuplicateError {
	return &DuplicateError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError: an optimistic version check failed because a concurrent
// writer got there first. The action was rolled back and may be retried.
type ConflictError struct {
	Resource string
	ID       any
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %v was modified concurrently, retry the action", e.Resource, e.ID)
}

func NewConflictError(resource string, id any) *ConflictError {
	return &ConflictError{Resource: resource, ID: id}
}

// ForbiddenError: the actor's role is not allowed to perform the action.
type ForbiddenError struct {
	Action string
	Role   string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("role %q is not allowed to perform %q", e.Role, e.Action)
}

func NewForbiddenError(action, role string) *ForbiddenError {
	return &ForbiddenError{Action: action, Role: role}
}
