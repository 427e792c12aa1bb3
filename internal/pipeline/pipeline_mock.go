package pipeline

import (
	"context"

	"github.com/UnendingLoop/ThumbnailPipeline/internal/model"
)

// MOCK STORAGE

type putCall struct {
	bucket, key string
	obj         model.StoredObject
}

type mockStorage struct {
	getFn func(ctx context.Context, bucket, key string) ([]byte, error)
	putFn func(ctx context.Context, bucket, key string, obj model.StoredObject) error

	gets []string
	puts []putCall
}

func (m *mockStorage) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	m.gets = append(m.gets, key)
	return m.getFn(ctx, bucket, key)
}

func (m *mockStorage) Put(ctx context.Context, bucket, key string, obj model.StoredObject) error {
	m.puts = append(m.puts, putCall{bucket: bucket, key: key, obj: obj})
	if m.putFn == nil {
		return nil
	}
	return m.putFn(ctx, bucket, key, obj)
}

// MOCK LINKER

type linkCall struct {
	imageURL, thumbnailURL string
}

type mockLinker struct {
	linkFn func(ctx context.Context, imageURL, thumbnailURL string) error
	calls  []linkCall
}

func (m *mockLinker) Link(ctx context.Context, imageURL, thumbnailURL string) error {
	m.calls = append(m.calls, linkCall{imageURL: imageURL, thumbnailURL: thumbnailURL})
	if m.linkFn == nil {
		return nil
	}
	return m.linkFn(ctx, imageURL, thumbnailURL)
}
