package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/estatehub/backend-go/internal/config"
)

const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

// Object describes one stored photo
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Store persists uploaded photos and maps them to public URLs.
type Store interface {
	// Save writes the content under name and returns its public URL
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	List(ctx context.Context) ([]Object, error)
	Delete(ctx context.Context, key string) error
	URLFor(key string) string
	// KeyFromURL reverses URLFor; ok is false for URLs this store did not issue
	KeyFromURL(url string) (string, bool)
}

// New builds the store selected by STORAGE_DRIVER
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, error) {
	switch cfg.StorageDriver {
	case DriverLocal, "":
		logger.Info("📁 [Storage] Using local upload directory", "dir", cfg.UploadDir, "public_path", cfg.UploadPublicPath)
		return NewLocalStore(cfg.UploadDir, cfg.UploadPublicPath)
	case DriverS3:
		return buildS3Store(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}

func buildS3Store(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.S3Region),
	}
	if cfg.AWSProfile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWSProfile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	logger.Info("☁️ [Storage] Using S3 bucket", "bucket", cfg.S3Bucket, "region", cfg.S3Region)
	return NewS3Store(client, S3Options{
		Bucket:        cfg.S3Bucket,
		KeyPrefix:     cfg.S3KeyPrefix,
		PublicBaseURL: cfg.S3PublicBaseURL,
		Region:        cfg.S3Region,
	}), nil
}
