// Package errors provides coded domain errors for the preview renderer.
//
// The codes mirror the failure classes of the render pipeline: configuration
// malformation is absorbed, asset failures fall back, overlay failures become
// warnings, image failures become failed results, and only a run with no
// input at all fails outright.
//
// Usage:
//
//	// In the pipeline - return typed errors
//	if len(images) == 0 {
//	    return errors.Run("no input images found")
//	}
//
//	// In callers - classify with errors.Is
//	if errors.Is(err, errors.ErrImage) {
//	    result.Error = err.Error()
//	}
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
	New    = errors.New
)

// Code represents a machine-readable failure class.
type Code string

// Failure classes used throughout the renderer.
const (
	// CodeConfig marks configuration malformation. Parsers treat the broken
	// section as absent, so this code appears in logs, never in results.
	CodeConfig Code = "CONFIG"
	// CodeAsset marks a missing or unloadable font or overlay image asset.
	CodeAsset Code = "ASSET"
	// CodeOverlay marks a single-overlay draw failure, recorded as a warning.
	CodeOverlay Code = "OVERLAY"
	// CodeImage marks a per-image failure (decode, resize, encode); the image
	// gets a failed result record and the batch continues.
	CodeImage Code = "IMAGE"
	// CodeRun marks a run-level failure; the only one is an empty input set.
	CodeRun Code = "RUN"
)

// Error is a domain error with a code, message, and optional cause.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, cause: err}
}

// Sentinel errors for use with errors.Is().
var (
	ErrConfig  = &Error{Code: CodeConfig, Message: "configuration malformed"}
	ErrAsset   = &Error{Code: CodeAsset, Message: "asset unavailable"}
	ErrOverlay = &Error{Code: CodeOverlay, Message: "overlay failed"}
	ErrImage   = &Error{Code: CodeImage, Message: "image failed"}
	ErrRun     = &Error{Code: CodeRun, Message: "run failed"}
)

// Config creates a configuration error.
func Config(msg string) *Error {
	return &Error{Code: CodeConfig, Message: msg}
}

// Configf creates a configuration error with a formatted message.
func Configf(format string, args ...any) *Error {
	return &Error{Code: CodeConfig, Message: fmt.Sprintf(format, args...)}
}

// Asset creates an asset resolution error.
func Asset(msg string) *Error {
	return &Error{Code: CodeAsset, Message: msg}
}

// Assetf creates an asset resolution error with a formatted message.
func Assetf(format string, args ...any) *Error {
	return &Error{Code: CodeAsset, Message: fmt.Sprintf(format, args...)}
}

// Overlay creates a single-overlay error.
func Overlay(msg string) *Error {
	return &Error{Code: CodeOverlay, Message: msg}
}

// Overlayf creates a single-overlay error with a formatted message.
func Overlayf(format string, args ...any) *Error {
	return &Error{Code: CodeOverlay, Message: fmt.Sprintf(format, args...)}
}

// Image creates a per-image error.
func Image(msg string) *Error {
	return &Error{Code: CodeImage, Message: msg}
}

// Imagef creates a per-image error with a formatted message.
func Imagef(format string, args ...any) *Error {
	return &Error{Code: CodeImage, Message: fmt.Sprintf(format, args...)}
}

// Run creates a run-level error.
func Run(msg string) *Error {
	return &Error{Code: CodeRun, Message: msg}
}

// Runf creates a run-level error with a formatted message.
func Runf(format string, args ...any) *Error {
	return &Error{Code: CodeRun, Message: fmt.Sprintf(format, args...)}
}
