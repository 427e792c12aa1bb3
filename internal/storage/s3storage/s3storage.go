// Package s3storage reads and writes objects through the AWS S3 API.
package s3storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/UnendingLoop/ThumbnailPipeline/internal/model"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API - часть клиента s3, которой пользуемся; в тестах подменяется
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Storage struct {
	client S3API
}

func New(client S3API) *S3Storage {
	return &S3Storage{client: client}
}

func (s *S3Storage) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	defer func() {
		if err := out.Body.Close(); err != nil {
			log.Println("Failed to close s3 object body:", err)
		}
	}()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read body of s3://%s/%s: %w", bucket, key, err)
	}
	return data, nil
}

func (s *S3Storage) Put(ctx context.Context, bucket, key string, o model.StoredObject) error {
	if o.Body == nil {
		return errors.New("nil body passed to storage.Put")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(o.Body),
		ContentLength: aws.Int64(int64(len(o.Body))),
		ContentType:   aws.String(o.ContentType),
		CacheControl:  aws.String(o.CacheControl),
		Metadata:      o.Metadata,
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", bucket, key, err)
	}
	return nil
}
