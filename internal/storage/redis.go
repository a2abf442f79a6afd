package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/melih/fotokutu/internal/models"
)

const (
	// FolderCacheTTL covers the full calendar day a folder name is valid for.
	FolderCacheTTL = 24 * time.Hour
)

// RedisClient caches resolved day-folder identities so repeat uploads on the
// same day skip the provider lookup.
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient initializes a new Redis client
func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test the connection
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// Close closes the Redis connection
func (rc *RedisClient) Close() error {
	return rc.client.Close()
}

// GetFolder retrieves a cached folder by name. A miss is (nil, nil),
// not an error.
func (rc *RedisClient) GetFolder(ctx context.Context, name string) (*models.Folder, error) {
	ctx, span := tracer.Start(ctx, "redis.get_folder",
		trace.WithAttributes(
			attribute.String("folder_name", name),
		),
	)
	defer span.End()

	key := fmt.Sprintf("folder:%s", name)
	data, err := rc.client.Get(ctx, key).Result()

	if err == redis.Nil {
		span.SetAttributes(attribute.Bool("cache_hit", false))
		return nil, nil
	} else if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get from cache: %w", err)
	}

	var folder models.Folder
	if err := json.Unmarshal([]byte(data), &folder); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to unmarshal cached folder: %w", err)
	}

	span.SetAttributes(
		attribute.Bool("cache_hit", true),
		attribute.String("folder_id", folder.ID),
	)
	return &folder, nil
}

// SetFolder caches a resolved folder for the remainder of its day.
func (rc *RedisClient) SetFolder(ctx context.Context, name string, folder *models.Folder) error {
	ctx, span := tracer.Start(ctx, "redis.set_folder",
		trace.WithAttributes(
			attribute.String("folder_name", name),
			attribute.String("folder_id", folder.ID),
		),
	)
	defer span.End()

	key := fmt.Sprintf("folder:%s", name)
	data, err := json.Marshal(folder)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to marshal folder: %w", err)
	}

	if err := rc.client.Set(ctx, key, data, FolderCacheTTL).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}
