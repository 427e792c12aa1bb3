package service

import (
	"context"

	"github.com/UnendingLoop/ThumbnailPipeline/internal/model"
)

// MOCK STORAGE

type mockStorage struct {
	getFn func(ctx context.Context, bucket, key string) ([]byte, error)
	putFn func(ctx context.Context, bucket, key string, obj model.StoredObject) error

	gets, puts int
}

func (m *mockStorage) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	m.gets++
	return m.getFn(ctx, bucket, key)
}

func (m *mockStorage) Put(ctx context.Context, bucket, key string, obj model.StoredObject) error {
	m.puts++
	return m.putFn(ctx, bucket, key, obj)
}

// MOCK LINKER

type mockLinker struct {
	linkFn func(ctx context.Context, imageURL, thumbnailURL string) error
	links  int
}

func (m *mockLinker) Link(ctx context.Context, imageURL, thumbnailURL string) error {
	m.links++
	return m.linkFn(ctx, imageURL, thumbnailURL)
}

// MOCK PIPELINE

type mockProcessor struct {
	processFn func(ctx context.Context, batch []model.ChangeNotification) model.BatchResult
}

func (m *mockProcessor) ProcessBatch(ctx context.Context, batch []model.ChangeNotification) model.BatchResult {
	return m.processFn(ctx, batch)
}
