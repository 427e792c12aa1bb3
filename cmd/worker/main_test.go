package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/UnendingLoop/ThumbnailPipeline/internal/model"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	mu    sync.Mutex
	calls []string
}

func (m *mockService) HandleInvocation(ctx context.Context, raw []byte) model.InvocationResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, string(raw))
	if string(raw) == "bad" {
		return model.InvocationResponse{StatusCode: 500, Body: `{"error":"Internal server error"}`}
	}
	return model.InvocationResponse{StatusCode: 200, Body: `{}`}
}

type mockCommitter struct {
	mu        sync.Mutex
	committed []int64
	commitErr error
}

func (m *mockCommitter) Commit(ctx context.Context, msg kafkago.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.committed = append(m.committed, msg.Offset)
	return m.commitErr
}

func TestConsume_CommitsEveryMessage(t *testing.T) {
	queue := make(chan kafkago.Message, 3)
	queue <- kafkago.Message{Offset: 1, Value: []byte(`{"Records":[]}`)}
	queue <- kafkago.Message{Offset: 2, Value: []byte("bad")}
	queue <- kafkago.Message{Offset: 3, Value: []byte(`{"Records":[]}`)}
	close(queue)

	svc := &mockService{}
	cm := &mockCommitter{}

	done := make(chan struct{})
	go func() {
		consume(context.Background(), queue, svc, cm)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consume did not stop on closed queue")
	}

	// 500 по пачке не мешает коммиту - повторной доставки нет
	require.Equal(t, []int64{1, 2, 3}, cm.committed)
	require.Len(t, svc.calls, 3)
}

func TestConsume_CommitErrorDoesNotStop(t *testing.T) {
	queue := make(chan kafkago.Message, 2)
	queue <- kafkago.Message{Offset: 7, Value: []byte("x")}
	queue <- kafkago.Message{Offset: 8, Value: []byte("y")}
	close(queue)

	cm := &mockCommitter{commitErr: errors.New("broker gone")}
	consume(context.Background(), queue, &mockService{}, cm)

	require.Equal(t, []int64{7, 8}, cm.committed)
}

func TestConsume_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cm := &mockCommitter{}
	consume(ctx, make(chan kafkago.Message), &mockService{}, cm)
	require.Empty(t, cm.committed)
}
