package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure for the HTTP layer. Only the kind is
// stable API; the wrapped detail is for logs.
type ErrorKind string

const (
	// ErrKindValidation marks a client-caused rejection raised before any
	// remote call is attempted.
	ErrKindValidation ErrorKind = "validation_error"
	// ErrKindStorage marks a remote folder or file write failure. It aborts
	// the whole upload.
	ErrKindStorage ErrorKind = "storage_error"
	// ErrKindNotification marks a notification send failure. It is logged
	// only and never surfaced to the caller.
	ErrKindNotification ErrorKind = "notification_error"
)

// UploadError carries an ErrorKind alongside the underlying cause.
type UploadError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *UploadError) Unwrap() error { return e.Err }

// NewValidationError reports a client-caused rejection.
func NewValidationError(format string, args ...any) error {
	return &UploadError{Kind: ErrKindValidation, Msg: fmt.Sprintf(format, args...)}
}

// NewStorageError wraps a failed remote storage operation.
func NewStorageError(op string, err error) error {
	return &UploadError{Kind: ErrKindStorage, Msg: op, Err: err}
}

// NewNotificationError wraps a failed notification send.
func NewNotificationError(err error) error {
	return &UploadError{Kind: ErrKindNotification, Msg: "send notification", Err: err}
}

// Kind extracts the ErrorKind from err; unclassified errors count as
// storage failures, matching the fatal default.
func Kind(err error) ErrorKind {
	var ue *UploadError
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return ErrKindStorage
}
