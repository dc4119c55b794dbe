package catalog

import (
	"fmt"
	"strings"
)

// Problem describes one rejected field.
type Problem struct {
	Field   string `json:"field" example:"endDate"`
	Message string `json:"message" example:"must not be before startDate"`
}

// ValidationError represents user-facing validation issues.
type ValidationError struct {
	Problems []Problem
}

func (e ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Field+" "+p.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, format string, args ...interface{}) error {
	return ValidationError{Problems: []Problem{{Field: field, Message: fmt.Sprintf(format, args...)}}}
}

// ConflictError reports a write that would violate a uniqueness rule.
type ConflictError struct {
	msg string
}

func (e ConflictError) Error() string {
	return e.msg
}

// NewConflictError creates a new conflict error.
func NewConflictError(format string, args ...interface{}) error {
	return ConflictError{msg: fmt.Sprintf(format, args...)}
}

type problems []Problem

func (p *problems) add(field, message string) {
	*p = append(*p, Problem{Field: field, Message: message})
}

func (p *problems) require(field, value string) {
	if strings.TrimSpace(value) == "" {
		p.add(field, "is required")
	}
}

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return ValidationError{Problems: p}
}
