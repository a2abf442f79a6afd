package uploader

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/melih/fotokutu/internal/models"
)

var tracer = otel.Tracer("fotokutu-uploader")

// Storage is the remote storage capability the orchestrator consumes.
// FindFolder reports a missing folder as (nil, nil).
type Storage interface {
	FindFolder(ctx context.Context, name string) (*models.Folder, error)
	CreateFolder(ctx context.Context, name string) (*models.Folder, error)
	WriteFile(ctx context.Context, folder *models.Folder, name, contentType string, data []byte) (id, link string, err error)
	FolderLink(folder *models.Folder) string
}

// FolderCache caches resolved day folders. A miss is (nil, nil).
type FolderCache interface {
	GetFolder(ctx context.Context, name string) (*models.Folder, error)
	SetFolder(ctx context.Context, name string, folder *models.Folder) error
}

// Notifier delivers the upload summary to the configured recipient.
type Notifier interface {
	SendUploadSummary(ctx context.Context, folderName string, files []models.StoredFile) error
}

// Uploader turns validated file parts into remote files plus a best-effort
// notification. All collaborators are injected; there is no ambient state.
type Uploader struct {
	storage       Storage
	cache         FolderCache // nil when the cache is disabled
	notifier      Notifier
	folderPrefix  string
	remoteTimeout time.Duration
	now           func() time.Time
}

// Option customizes an Uploader.
type Option func(*Uploader)

// WithFolderCache enables the day-folder resolution cache.
func WithFolderCache(cache FolderCache) Option {
	return func(u *Uploader) { u.cache = cache }
}

// WithRemoteTimeout bounds each outbound remote call. Zero disables the bound.
func WithRemoteTimeout(d time.Duration) Option {
	return func(u *Uploader) { u.remoteTimeout = d }
}

// WithClock substitutes the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(u *Uploader) { u.now = now }
}

// New creates an upload orchestrator
func New(storage Storage, notifier Notifier, folderPrefix string, opts ...Option) *Uploader {
	u := &Uploader{
		storage:      storage,
		notifier:     notifier,
		folderPrefix: folderPrefix,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// FolderName derives the day folder's name: date-only, so every upload on
// the same calendar day lands in the same folder.
func FolderName(prefix string, t time.Time) string {
	return prefix + "_" + t.Format("2006-01-02")
}

// Upload writes each part into the day folder in submission order, photos
// first, then triggers the summary notification. Any storage failure aborts
// immediately; files already written stay where they are. The notification
// is best-effort and never affects the result.
func (u *Uploader) Upload(ctx context.Context, photos []models.FilePart, audio *models.FilePart) (*models.UploadResult, error) {
	ctx, span := tracer.Start(ctx, "upload",
		trace.WithAttributes(
			attribute.Int("photo_count", len(photos)),
			attribute.Bool("has_audio", audio != nil),
		),
	)
	defer span.End()

	start := u.now()
	folderName := FolderName(u.folderPrefix, start)
	span.SetAttributes(attribute.String("folder_name", folderName))

	// Step 1: resolve the day folder
	folder, err := u.resolveFolder(ctx, folderName)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	// Step 2: write files sequentially, in submission order
	uploadedAt := start.UnixMilli()
	files := make([]models.StoredFile, 0, len(photos)+1)

	for i, photo := range photos {
		name := fmt.Sprintf("Foto_%d_%d.jpg", i+1, uploadedAt)
		record, err := u.writeFile(ctx, folder, name, &photo)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		files = append(files, *record)
	}

	if audio != nil {
		name := fmt.Sprintf("Ses_%d.wav", uploadedAt)
		record, err := u.writeFile(ctx, folder, name, audio)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		files = append(files, *record)
	}

	// Step 3: best-effort notification; failure is logged, never surfaced
	u.notify(ctx, folderName, files)

	span.SetAttributes(attribute.Int("files_uploaded", len(files)))

	return &models.UploadResult{
		Success:    true,
		Message:    fmt.Sprintf("%d dosya başarıyla yüklendi!", len(files)),
		Files:      files,
		FolderLink: u.storage.FolderLink(folder),
	}, nil
}

// resolveFolder finds the day folder or creates it on first use. The cache
// is consulted first when enabled; cache failures degrade to a provider
// lookup. Lookup-then-create is knowingly non-atomic (see DESIGN.md).
func (u *Uploader) resolveFolder(ctx context.Context, name string) (*models.Folder, error) {
	ctx, span := tracer.Start(ctx, "resolve_folder",
		trace.WithAttributes(
			attribute.String("folder_name", name),
		),
	)
	defer span.End()

	if u.cache != nil {
		folder, err := u.cache.GetFolder(ctx, name)
		if err != nil {
			log.Warn().Err(err).Str("folder", name).Msg("folder cache lookup failed")
		} else if folder != nil {
			span.SetAttributes(attribute.String("resolved_via", "cache"))
			return folder, nil
		}
	}

	callCtx, cancel := u.remoteContext(ctx)
	folder, err := u.storage.FindFolder(callCtx, name)
	cancel()
	if err != nil {
		return nil, models.NewStorageError("find folder", err)
	}

	if folder == nil {
		callCtx, cancel := u.remoteContext(ctx)
		folder, err = u.storage.CreateFolder(callCtx, name)
		cancel()
		if err != nil {
			return nil, models.NewStorageError("create folder", err)
		}
		log.Info().Str("folder", name).Str("folder_id", folder.ID).Msg("day folder created")
		span.SetAttributes(attribute.String("resolved_via", "create"))
	} else {
		span.SetAttributes(attribute.String("resolved_via", "lookup"))
	}

	if u.cache != nil {
		if err := u.cache.SetFolder(ctx, name, folder); err != nil {
			log.Warn().Err(err).Str("folder", name).Msg("folder cache update failed")
		}
	}

	span.SetAttributes(attribute.String("folder_id", folder.ID))
	return folder, nil
}

func (u *Uploader) writeFile(ctx context.Context, folder *models.Folder, name string, part *models.FilePart) (*models.StoredFile, error) {
	callCtx, cancel := u.remoteContext(ctx)
	defer cancel()

	id, link, err := u.storage.WriteFile(callCtx, folder, name, part.ContentType, part.Data)
	if err != nil {
		return nil, models.NewStorageError(fmt.Sprintf("write %s", name), err)
	}

	return &models.StoredFile{
		Type: string(part.Kind),
		Name: name,
		ID:   id,
		Link: link,
	}, nil
}

func (u *Uploader) notify(ctx context.Context, folderName string, files []models.StoredFile) {
	callCtx, cancel := u.remoteContext(ctx)
	defer cancel()

	if err := u.notifier.SendUploadSummary(callCtx, folderName, files); err != nil {
		log.Error().Err(err).Str("folder", folderName).Int("files", len(files)).
			Msg("upload summary notification failed")
	}
}

func (u *Uploader) remoteContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if u.remoteTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, u.remoteTimeout)
}
