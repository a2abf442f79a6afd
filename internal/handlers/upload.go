package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/melih/fotokutu/internal/intake"
	"github.com/melih/fotokutu/internal/models"
)

var tracer = otel.Tracer("fotokutu-handlers")

// Uploader is the orchestration capability the handler consumes.
type Uploader interface {
	Upload(ctx context.Context, photos []models.FilePart, audio *models.FilePart) (*models.UploadResult, error)
}

// UploadHandler handles POST /upload requests
type UploadHandler struct {
	uploader          Uploader
	limits            intake.Limits
	exposeErrorDetail bool
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploader Uploader, limits intake.Limits, exposeErrorDetail bool) *UploadHandler {
	return &UploadHandler{
		uploader:          uploader,
		limits:            limits,
		exposeErrorDetail: exposeErrorDetail,
	}
}

// errorResponse is the failure body for /upload.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// ServeHTTP handles POST /upload (multipart/form-data)
func (uh *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ctx, span := tracer.Start(ctx, "upload_request",
		trace.WithSpanKind(trace.SpanKindServer),
	)
	defer span.End()

	// Validation happens before any remote call
	photos, audio, err := intake.Parse(r, uh.limits)
	if err != nil {
		span.RecordError(err)
		uh.writeError(w, err)
		return
	}

	span.SetAttributes(
		attribute.Int("photo_count", len(photos)),
		attribute.Bool("has_audio", audio != nil),
	)

	result, err := uh.uploader.Upload(ctx, photos, audio)
	if err != nil {
		span.RecordError(err)
		uh.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Error().Err(err).Msg("failed to encode upload response")
	}
}

// writeError maps the error kind to a status code. The underlying detail is
// always logged; it reaches the client only when detail exposure is on.
func (uh *UploadHandler) writeError(w http.ResponseWriter, err error) {
	kind := models.Kind(err)

	status := http.StatusInternalServerError
	message := "Yükleme başarısız oldu"
	if kind == models.ErrKindValidation {
		status = http.StatusBadRequest
		message = "Geçersiz yükleme isteği"
	}

	log.Error().Err(err).Str("kind", string(kind)).Int("status", status).Msg("upload request failed")

	detail := string(kind)
	if uh.exposeErrorDetail {
		detail = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorResponse{
		Success: false,
		Message: message,
		Error:   detail,
	}); err != nil {
		log.Error().Err(err).Msg("failed to encode error response")
	}
}
