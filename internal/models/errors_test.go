package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"validation", NewValidationError("too many files"), ErrKindValidation},
		{"storage", NewStorageError("create folder", cause), ErrKindStorage},
		{"notification", NewNotificationError(cause), ErrKindNotification},
		{"wrapped storage", fmt.Errorf("upload: %w", NewStorageError("write", cause)), ErrKindStorage},
		{"plain error defaults to storage", cause, ErrKindStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}

func TestUploadError_Unwrap(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := NewStorageError("write Foto_1_1.jpg", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "write Foto_1_1.jpg")
	assert.Contains(t, err.Error(), "quota exceeded")
}
