// Package miniostorage provides structure to work with minio-storage
package miniostorage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/UnendingLoop/ThumbnailPipeline/internal/model"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/config"
)

type MinioImageStorage struct {
	bucket string
	client *minio.Client
}

func NewMinioClient(cfg *config.Config) (*MinioImageStorage, error) {
	bucket := cfg.GetString("BUCKET_NAME")
	if bucket == "" {
		bucket = "default"
		log.Printf("Bucket name is empty. Using default value %q...", bucket)
	}

	addr := cfg.GetString("MINIO_ENDPOINT")
	if addr == "" {
		addr = "localhost:9000"
	}

	// подключаемся к минио - создаем клиента
	strg, err := minio.New(addr, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetString("MINIO_USER"), cfg.GetString("MINIO_PASS"), ""),
		Secure: cfg.GetString("MINIO_SECURE") == "true",
	})
	if err != nil {
		return nil, err
	}

	// бакет для загрузок создаем сразу, события на него настраиваются снаружи
	if err := ensureBucket(context.Background(), strg, bucket); err != nil {
		log.Println("Failed to create bucket in MinIO:", err)
		return nil, err
	}

	return &MinioImageStorage{bucket: bucket, client: strg}, nil
}

// Bucket - бакет, которым пользуется storage если в событии он не указан
func (s *MinioImageStorage) Bucket() string { return s.bucket }

func (s *MinioImageStorage) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucketOr(bucket), key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := obj.Close(); err != nil {
			log.Println("Failed to close minio object:", err)
		}
	}()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", key, err)
	}
	return data, nil
}

func (s *MinioImageStorage) Put(ctx context.Context, bucket, key string, o model.StoredObject) error {
	if o.Body == nil {
		return errors.New("nil body passed to storage.Put")
	}

	_, err := s.client.PutObject(ctx, s.bucketOr(bucket), key, bytes.NewReader(o.Body), int64(len(o.Body)), minio.PutObjectOptions{
		ContentType:  o.ContentType,
		CacheControl: o.CacheControl,
		UserMetadata: o.Metadata,
	})
	return err
}

func (s *MinioImageStorage) bucketOr(bucket string) string {
	if bucket == "" {
		return s.bucket
	}
	return bucket
}

func ensureBucket(ctx context.Context, client *minio.Client, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	return client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
}
