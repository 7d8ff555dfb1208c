package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Causes.
var (
	ErrNotFound     = errors.New("not found")
	ErrPermission   = errors.New("permission denied")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal server error")
	ErrUnauthorized = errors.New("unauthorized")
)

// Operation kinds reported by the data-access layer.
var (
	ErrRemoteWrite       = errors.New("remote write failed")
	ErrRemoteRead        = errors.New("remote read failed")
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrSessionResolution = errors.New("session resolution failed")
)

type AppError struct {
	BaseError error
	Message   string
	Details   string
	Err       error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (Details: %s, Cause: %v)", e.BaseError.Error(), e.Message, e.Details, e.Err)
	}
	return fmt.Sprintf("%s: %s (Details: %s)", e.BaseError.Error(), e.Message, e.Details)
}

// Unwrap exposes both the base error and the cause, so errors.Is matches
// the operation kind (ErrRemoteWrite) as well as the underlying reason (ErrNotFound).
func (e *AppError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.BaseError}
	}
	return []error{e.BaseError, e.Err}
}

func NewAppError(base error, msg, details string, err error) *AppError {
	return &AppError{BaseError: base, Message: msg, Details: details, Err: err}
}

func NewNotFound(resource, identifier string) *AppError {
	msg := fmt.Sprintf("%s not found", resource)
	details := fmt.Sprintf("%s with identifier '%s' was not found", resource, identifier)
	return NewAppError(ErrNotFound, msg, details, nil)
}

func NewInvalidInput(details string, err error) *AppError {
	return NewAppError(ErrInvalidInput, "Invalid input provided", details, err)
}

func NewConflict(resource, field, value string) *AppError {
	msg := fmt.Sprintf("%s conflict", resource)
	details := fmt.Sprintf("%s with %s '%s' already exists", resource, field, value)
	return NewAppError(ErrConflict, msg, details, nil)
}

func NewInternal(details string, err error) *AppError {
	return NewAppError(ErrInternal, "An internal server error occurred", details, err)
}

func NewUnauthorized(details string, err error) *AppError {
	return NewAppError(ErrUnauthorized, "Invalid credentials", details, err)
}

func NewPermissionDenied(details string) *AppError {
	return NewAppError(ErrPermission, "Permission denied", details, nil)
}

func NewRemoteWrite(details string, err error) *AppError {
	return NewAppError(ErrRemoteWrite, "The store rejected the write", details, err)
}

func NewRemoteRead(details string, err error) *AppError {
	return NewAppError(ErrRemoteRead, "The store query failed", details, err)
}

func NewNotAuthenticated(details string) *AppError {
	return NewAppError(ErrNotAuthenticated, "Sign in required", details, nil)
}

func NewSessionResolution(err error) *AppError {
	return NewAppError(ErrSessionResolution, "Could not resolve session", "session treated as signed out", err)
}

// WrapRemoteWrite classifies err as a rejected write unless it already carries
// an operation kind. Context cancellation passes through untouched.
func WrapRemoteWrite(details string, err error) error {
	if err == nil || isClassified(err) {
		return err
	}
	return NewRemoteWrite(details, err)
}

// WrapRemoteRead is the read-side counterpart of WrapRemoteWrite.
func WrapRemoteRead(details string, err error) error {
	if err == nil || isClassified(err) {
		return err
	}
	return NewRemoteRead(details, err)
}

func isClassified(err error) bool {
	return errors.Is(err, ErrRemoteWrite) ||
		errors.Is(err, ErrRemoteRead) ||
		errors.Is(err, ErrNotAuthenticated) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotAuthenticated), errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrRemoteWrite), errors.Is(err, ErrRemoteRead):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (e *AppError) ToJSON() gin.H {
	return gin.H{
		"error":   e.BaseError.Error(),
		"message": e.Message,
	}
}
