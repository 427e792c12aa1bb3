package main

import (
	"context"

	"github.com/UnendingLoop/ThumbnailPipeline/internal/model"
	kafkago "github.com/segmentio/kafka-go"
)

type InvocationService interface {
	HandleInvocation(ctx context.Context, raw []byte) model.InvocationResponse
}

// Committer - подтверждение прочитанного сообщения, реализует wbf/kafka.Consumer
type Committer interface {
	Commit(ctx context.Context, msg kafkago.Message) error
}
