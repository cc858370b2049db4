// Package domain holds the error taxonomy shared by the portal packages.
package domain

import (
	"errors"
	"fmt"
)

// Error types for domain-specific errors
type ErrorType string

const (
	ErrorTypeNotReady   ErrorType = "not_ready"
	ErrorTypeLoad       ErrorType = "load"
	ErrorTypeUpstream   ErrorType = "upstream"
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeBusy       ErrorType = "busy"
	ErrorTypeValidation ErrorType = "validation"
)

// DomainError represents a domain-specific error with context.
// Status carries the vendor HTTP status for upstream errors and is zero otherwise.
type DomainError struct {
	Type    ErrorType
	Message string
	Status  int
	Err     error
}

func (e *DomainError) Error() string {
	msg := e.Message
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, msg, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, msg)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewError creates a new domain error
func NewError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotReadyError(message string) *DomainError {
	return NewError(ErrorTypeNotReady, message, nil)
}

func LoadError(message string, err error) *DomainError {
	return NewError(ErrorTypeLoad, message, err)
}

func UpstreamError(status int, message string, err error) *DomainError {
	e := NewError(ErrorTypeUpstream, message, err)
	e.Status = status
	return e
}

func TimeoutError(message string, err error) *DomainError {
	return NewError(ErrorTypeTimeout, message, err)
}

func ConfigError(message string, err error) *DomainError {
	return NewError(ErrorTypeConfig, message, err)
}

func BusyError() *DomainError {
	return NewError(ErrorTypeBusy, "request already in flight", nil)
}

func ValidationError(message string, err error) *DomainError {
	return NewError(ErrorTypeValidation, message, err)
}

// IsType reports whether any error in err's chain is a DomainError of the given type.
func IsType(err error, errType ErrorType) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Type == errType
	}
	return false
}

// TypeOf returns the type of the first DomainError in err's chain, or "" if none.
func TypeOf(err error) ErrorType {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Type
	}
	return ""
}
