package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melih/fotokutu/internal/intake"
	"github.com/melih/fotokutu/internal/models"
)

type stubUploader struct {
	calls  int
	result *models.UploadResult
	err    error
}

func (s *stubUploader) Upload(ctx context.Context, photos []models.FilePart, audio *models.FilePart) (*models.UploadResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func multipartRequest(t *testing.T, photoCount int) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for i := 0; i < photoCount; i++ {
		part, err := writer.CreateFormFile(intake.PhotoField, fmt.Sprintf("p%d.jpg", i+1))
		require.NoError(t, err)
		_, err = part.Write([]byte{0xff, 0xd8})
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadHandler_Success(t *testing.T) {
	stub := &stubUploader{
		result: &models.UploadResult{
			Success: true,
			Message: "2 dosya başarıyla yüklendi!",
			Files: []models.StoredFile{
				{Type: "photo", Name: "Foto_1_1.jpg", ID: "f1", Link: "https://x/1"},
				{Type: "photo", Name: "Foto_2_1.jpg", ID: "f2", Link: "https://x/2"},
			},
			FolderLink: "https://x/folder",
		},
	}
	handler := NewUploadHandler(stub, intake.DefaultLimits(), true)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, multipartRequest(t, 2))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result models.UploadResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Len(t, result.Files, 2)
	assert.Equal(t, "https://x/folder", result.FolderLink)
}

func TestUploadHandler_ValidationRejectsBeforeUpload(t *testing.T) {
	stub := &stubUploader{}
	handler := NewUploadHandler(stub, intake.Limits{MaxFiles: 10, MaxFileBytes: 1024, MaxAudioCount: 1}, true)

	// 11 photo parts exceed the total file cap
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, multipartRequest(t, 11))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// No remote call was attempted
	assert.Equal(t, 0, stub.calls)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestUploadHandler_StorageFailure(t *testing.T) {
	stub := &stubUploader{err: models.NewStorageError("write Foto_1_1.jpg", errors.New("quota exceeded"))}
	handler := NewUploadHandler(stub, intake.DefaultLimits(), true)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, multipartRequest(t, 1))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "quota exceeded")
}

func TestUploadHandler_RedactedErrorDetail(t *testing.T) {
	stub := &stubUploader{err: models.NewStorageError("write Foto_1_1.jpg", errors.New("secret internal detail"))}
	handler := NewUploadHandler(stub, intake.DefaultLimits(), false)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, multipartRequest(t, 1))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(models.ErrKindStorage), resp.Error)
	assert.NotContains(t, rec.Body.String(), "secret internal detail")
}

func TestInfo(t *testing.T) {
	rec := httptest.NewRecorder()
	Info(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message   string            `json:"message"`
		Version   string            `json:"version"`
		Endpoints map[string]string `json:"endpoints"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, Version, resp.Version)
	assert.NotEmpty(t, resp.Message)
	assert.Contains(t, resp.Endpoints, "upload")
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "OK", resp.Status)
	assert.NotEmpty(t, resp.Timestamp)
}
