package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrEmailRequired      = errors.New("users must have an email address")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("unable to authenticate with provided credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("you do not have permission to perform this action")
	ErrInvalidImage       = errors.New("invalid image")
)

// ValidationError reports rejected input, keyed by request field
type ValidationError struct {
	Message string
	Fields  map[string]string
	// Err is an optional sentinel the error also matches
	Err error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

func (e *ValidationError) Unwrap() error { return e.Err }

// fieldErrors collects per-field problems while validating one request
type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, exists := f[field]; !exists {
		f[field] = msg
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Message: "validation failed", Fields: f}
}

func invalidImage(msg string) error {
	return &ValidationError{
		Message: ErrInvalidImage.Error(),
		Fields:  map[string]string{"image": msg},
		Err:     ErrInvalidImage,
	}
}
