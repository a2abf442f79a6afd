package intake

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/melih/fotokutu/internal/models"
)

const (
	// PhotoField and AudioField are the multipart form field names.
	PhotoField = "photos"
	AudioField = "audio"
)

// Limits bounds one upload request. Violations are rejected before any
// remote call is made.
type Limits struct {
	MaxFiles      int   // total across both fields
	MaxFileBytes  int64 // per-file ceiling
	MaxAudioCount int
}

// DefaultLimits matches the public contract: 10 files total, 10 MiB each,
// one audio clip.
func DefaultLimits() Limits {
	return Limits{
		MaxFiles:      10,
		MaxFileBytes:  10 * 1024 * 1024,
		MaxAudioCount: 1,
	}
}

// Parse validates the multipart payload and returns the photo parts in
// submission order plus at most one audio part. It reads nothing beyond
// the request and performs no remote or filesystem writes.
func Parse(r *http.Request, limits Limits) ([]models.FilePart, *models.FilePart, error) {
	// Cap in-memory buffering at one file's worth; larger parts spill to
	// temp files managed by net/http.
	if err := r.ParseMultipartForm(limits.MaxFileBytes); err != nil {
		return nil, nil, models.NewValidationError("geçersiz form verisi: %v", err)
	}

	form := r.MultipartForm
	if form == nil {
		return nil, nil, models.NewValidationError("form verisi bulunamadı")
	}

	photoHeaders := form.File[PhotoField]
	audioHeaders := form.File[AudioField]

	if len(audioHeaders) > limits.MaxAudioCount {
		return nil, nil, models.NewValidationError(
			"en fazla %d ses kaydı yüklenebilir, %d gönderildi", limits.MaxAudioCount, len(audioHeaders))
	}

	total := len(photoHeaders) + len(audioHeaders)
	if total > limits.MaxFiles {
		return nil, nil, models.NewValidationError(
			"en fazla %d dosya yüklenebilir, %d gönderildi", limits.MaxFiles, total)
	}

	photos := make([]models.FilePart, 0, len(photoHeaders))
	for i, h := range photoHeaders {
		part, err := readPart(h, limits.MaxFileBytes, models.KindPhoto)
		if err != nil {
			return nil, nil, fmt.Errorf("photo %d: %w", i+1, err)
		}
		photos = append(photos, *part)
	}

	var audio *models.FilePart
	if len(audioHeaders) == 1 {
		part, err := readPart(audioHeaders[0], limits.MaxFileBytes, models.KindAudio)
		if err != nil {
			return nil, nil, err
		}
		audio = part
	}

	return photos, audio, nil
}

// readPart loads one part fully into memory, enforcing the size ceiling
// both on the declared size and the bytes actually read.
func readPart(h *multipart.FileHeader, maxBytes int64, kind models.FileKind) (*models.FilePart, error) {
	if h.Size > maxBytes {
		return nil, models.NewValidationError(
			"%s boyutu sınırı aşıyor (%d > %d bayt)", h.Filename, h.Size, maxBytes)
	}

	f, err := h.Open()
	if err != nil {
		return nil, models.NewValidationError("%s açılamadı: %v", h.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, models.NewValidationError("%s okunamadı: %v", h.Filename, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, models.NewValidationError(
			"%s boyutu sınırı aşıyor (%d bayt üstü)", h.Filename, maxBytes)
	}

	contentType := h.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &models.FilePart{
		Data:        data,
		ContentType: contentType,
		Kind:        kind,
	}, nil
}
