// Package domain contains custom error types for the application.
package domain

import (
	"errors"
	"fmt"
)

// Base errors
var (
	ErrPlanNotFound      = errors.New("plan not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrSourceUnavailable = errors.New("plan source unavailable")
	ErrUnknownSource     = errors.New("unknown data source")
)

// PlanSourceError represents errors when fetching plan data from an upstream
type PlanSourceError struct {
	Source    DataSource
	Operation string
	Err       error
}

func (e *PlanSourceError) Error() string {
	return fmt.Sprintf("plan source error [source=%s, operation=%s]: %v",
		e.Source, e.Operation, e.Err)
}

func (e *PlanSourceError) Unwrap() error {
	return e.Err
}

// NewPlanSourceError creates a new PlanSourceError
func NewPlanSourceError(source DataSource, operation string, err error) *PlanSourceError {
	return &PlanSourceError{
		Source:    source,
		Operation: operation,
		Err:       err,
	}
}

// ValidationError represents a startup dataset validation failure
type ValidationError struct {
	PlanID  string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.PlanID == "" {
		return fmt.Sprintf("validation error [field=%s]: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error [plan=%s, field=%s]: %s", e.PlanID, e.Field, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(planID, field, message string) *ValidationError {
	return &ValidationError{
		PlanID:  planID,
		Field:   field,
		Message: message,
	}
}
