package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/melih/fotokutu/internal/models"
)

var tracer = otel.Tracer("fotokutu-storage")

const (
	// folderMarkerPrefix is where folder identity records live inside the bucket.
	folderMarkerPrefix = ".folders/"

	// linkExpiry is the lifetime of presigned file links. Seven days is the
	// provider maximum.
	linkExpiry = 7 * 24 * time.Hour
)

// folderMarker is the JSON body of a folder's identity object.
type folderMarker struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// MinioClient stores uploads in a single MinIO bucket, modeling folders as
// object-key prefixes whose identity lives in a marker object.
type MinioClient struct {
	client     *minio.Client
	bucketName string
}

// NewMinioClient initializes the MinIO client and ensures the bucket exists
func NewMinioClient(endpoint, accessKey, secretKey, bucketName string, useSSL bool) (*MinioClient, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	mc := &MinioClient{
		client:     client,
		bucketName: bucketName,
	}

	// Ensure bucket exists
	ctx := context.Background()
	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		log.Info().Str("bucket", bucketName).Msg("creating bucket")
		if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return mc, nil
}

// FindFolder looks up a folder by name. A missing folder is (nil, nil),
// not an error.
func (mc *MinioClient) FindFolder(ctx context.Context, name string) (*models.Folder, error) {
	ctx, span := tracer.Start(ctx, "minio.find_folder",
		trace.WithAttributes(
			attribute.String("folder_name", name),
		),
	)
	defer span.End()

	obj, err := mc.client.GetObject(ctx, mc.bucketName, folderMarkerPrefix+name, minio.GetObjectOptions{})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get folder marker: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		// GetObject is lazy; a missing marker only surfaces on read.
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			span.SetAttributes(attribute.Bool("folder_found", false))
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to read folder marker: %w", err)
	}

	var marker folderMarker
	if err := json.Unmarshal(data, &marker); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to unmarshal folder marker: %w", err)
	}

	span.SetAttributes(
		attribute.Bool("folder_found", true),
		attribute.String("folder_id", marker.ID),
	)
	return &models.Folder{ID: marker.ID, Name: marker.Name}, nil
}

// CreateFolder writes a new folder marker and returns the minted identity.
// Lookup-then-create is not atomic; concurrent creators can race and both
// win, leaving two markers with the last write visible.
func (mc *MinioClient) CreateFolder(ctx context.Context, name string) (*models.Folder, error) {
	ctx, span := tracer.Start(ctx, "minio.create_folder",
		trace.WithAttributes(
			attribute.String("folder_name", name),
		),
	)
	defer span.End()

	marker := folderMarker{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(marker)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to marshal folder marker: %w", err)
	}

	_, err = mc.client.PutObject(ctx, mc.bucketName, folderMarkerPrefix+name,
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
			ContentType: "application/json",
		})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	span.SetAttributes(attribute.String("folder_id", marker.ID))
	return &models.Folder{ID: marker.ID, Name: marker.Name}, nil
}

// WriteFile stores one file under the folder's prefix and returns its
// provider id and a presigned shareable link.
func (mc *MinioClient) WriteFile(ctx context.Context, folder *models.Folder, name, contentType string, data []byte) (string, string, error) {
	ctx, span := tracer.Start(ctx, "minio.write_file",
		trace.WithAttributes(
			attribute.String("folder_name", folder.Name),
			attribute.String("file_name", name),
			attribute.Int("size_bytes", len(data)),
		),
	)
	defer span.End()

	fileID := uuid.New().String()
	objectKey := folder.Name + "/" + name

	_, err := mc.client.PutObject(ctx, mc.bucketName, objectKey,
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"file-id":   fileID,
				"folder-id": folder.ID,
			},
		})
	if err != nil {
		span.RecordError(err)
		return "", "", fmt.Errorf("failed to write file %s: %w", name, err)
	}

	link, err := mc.client.PresignedGetObject(ctx, mc.bucketName, objectKey, linkExpiry, url.Values{})
	if err != nil {
		span.RecordError(err)
		return "", "", fmt.Errorf("failed to presign link for %s: %w", name, err)
	}

	span.SetAttributes(
		attribute.String("file_id", fileID),
		attribute.Bool("write_success", true),
	)
	return fileID, link.String(), nil
}

// FolderLink returns a browse URL for the folder's prefix.
func (mc *MinioClient) FolderLink(folder *models.Folder) string {
	scheme := "http"
	if mc.client.EndpointURL().Scheme == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s/", scheme, mc.client.EndpointURL().Host, mc.bucketName, folder.Name)
}
