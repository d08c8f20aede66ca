package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/hoyyChoi/yeonseubpun/internal/config"
	"github.com/hoyyChoi/yeonseubpun/internal/model"
	"github.com/hoyyChoi/yeonseubpun/pkg/logger"
)

// MediaStore persists finalized capture blobs and hands back an opaque key.
type MediaStore interface {
	Store(ctx context.Context, attemptID string, modality model.Modality, blob []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

// NewMediaStore picks the MinIO-backed store when an endpoint is configured
// and falls back to local disk otherwise, so development needs no object
// storage running.
func NewMediaStore(cfg config.StorageConfig) (MediaStore, error) {
	if cfg.MinioEndpoint != "" {
		return newMinioMediaStore(cfg)
	}
	logger.Log.Info("minio not configured, storing captures on local disk",
		zap.String("path", cfg.LocalPath))
	return &localMediaStore{basePath: cfg.LocalPath}, nil
}

func contentTypeForModality(modality model.Modality) string {
	if modality == model.ModalityVideo {
		return "video/webm"
	}
	return "audio/webm"
}

func captureObjectKey(attemptID string) string {
	return fmt.Sprintf("captures/%s.webm", attemptID)
}

type minioMediaStore struct {
	client *minio.Client
	bucket string
}

func newMinioMediaStore(cfg config.StorageConfig) (*minioMediaStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &minioMediaStore{client: client, bucket: cfg.MinioBucket}, nil
}

func (s *minioMediaStore) Store(ctx context.Context, attemptID string, modality model.Modality, blob []byte) (string, error) {
	key := captureObjectKey(attemptID)
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(blob), int64(len(blob)),
		minio.PutObjectOptions{ContentType: contentTypeForModality(modality)})
	if err != nil {
		return "", fmt.Errorf("failed to upload capture: %w", err)
	}
	return key, nil
}

func (s *minioMediaStore) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// localMediaStore writes blobs under a base directory, mirroring the object
// key layout so switching to MinIO later changes no keys.
type localMediaStore struct {
	basePath string
}

func (s *localMediaStore) Store(ctx context.Context, attemptID string, modality model.Modality, blob []byte) (string, error) {
	key := captureObjectKey(attemptID)
	fullPath := filepath.Join(s.basePath, key)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create capture directory: %w", err)
	}
	if err := os.WriteFile(fullPath, blob, 0o644); err != nil {
		return "", fmt.Errorf("failed to write capture: %w", err)
	}
	return key, nil
}

func (s *localMediaStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(s.basePath, key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
