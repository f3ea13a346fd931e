package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/plastinin/srtmexport/internal/config"
	"github.com/plastinin/srtmexport/internal/domain"
)

// S3Storage поиск результатов экспорта в бакете через S3-совместимый API
type S3Storage struct {
	client    *minio.Client
	bucket    string
	urlExpiry time.Duration
}

// NewS3Storage создаёт новый экземпляр S3Storage
func NewS3Storage(ctx context.Context, cfg config.S3Config) (*S3Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	// Бакет создаёт владелец проекта, здесь только проверяем
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", cfg.Bucket)
	}

	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = time.Hour
	}

	return &S3Storage{
		client:    client,
		bucket:    cfg.Bucket,
		urlExpiry: expiry,
	}, nil
}

// List возвращает GeoTIFF файлы с заданным префиксом.
// Большие экспорты сервис делит на тайлы: prefix-0000000000-0000000000.tif
func (s *S3Storage) List(ctx context.Context, prefix string) ([]domain.Artifact, error) {
	// Отмена контекста останавливает горутину листинга при раннем выходе
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	return collectArtifacts(objects, func(key string) (string, error) {
		return s.GetURL(ctx, key)
	})
}

// collectArtifacts отбирает GeoTIFF из листинга и подписывает ссылки.
// Остальные файлы рядом с результатом (метаданные, логи) пропускаются.
func collectArtifacts(objects <-chan minio.ObjectInfo, presign func(key string) (string, error)) ([]domain.Artifact, error) {
	artifacts := make([]domain.Artifact, 0)

	for obj := range objects {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", obj.Err)
		}
		contentType, err := domain.ContentTypeFromFileName(obj.Key)
		if err != nil {
			continue
		}

		url, err := presign(obj.Key)
		if err != nil {
			return nil, err
		}

		artifacts = append(artifacts, domain.Artifact{
			Key:         obj.Key,
			ContentType: contentType,
			Size:        obj.Size,
			URL:         url,
		})
	}

	return artifacts, nil
}

// GetURL возвращает presigned URL для доступа к файлу
func (s *S3Storage) GetURL(ctx context.Context, fileKey string) (string, error) {
	url, err := s.client.PresignedGetObject(ctx, s.bucket, fileKey, s.urlExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url.String(), nil
}
