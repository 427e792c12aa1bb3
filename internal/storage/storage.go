// Package storage connects the object-storage backends used by the pipeline.
package storage

import (
	"context"
	"log"
	"time"

	"github.com/UnendingLoop/ThumbnailPipeline/internal/storage/miniostorage"
	"github.com/UnendingLoop/ThumbnailPipeline/internal/storage/s3storage"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/wb-go/wbf/config"
)

// NewImgStorage - подключение к minio с ретраями до успеха
func NewImgStorage(cfg *config.Config, delay time.Duration) *miniostorage.MinioImageStorage {
	for {
		log.Println("Connecting to IMG-storage...")
		client, err := miniostorage.NewMinioClient(cfg)
		if err != nil {
			log.Printf("Failed to init connection to IMG-storage: %v\nNext retry in %v...", err, delay)
			time.Sleep(delay)
			continue
		}
		log.Println("Successfully connected IMG-storage!")
		return client
	}
}

// NewS3Storage builds the S3 client once per execution context; the handle is reused
// by every invocation served by that context.
func NewS3Storage(ctx context.Context, cfg *config.Config) (*s3storage.S3Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if region := cfg.GetString("AWS_REGION"); region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	endpoint := cfg.GetString("S3_ENDPOINT")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = &endpoint
			o.UsePathStyle = true
		}
	})

	return s3storage.New(client), nil
}
