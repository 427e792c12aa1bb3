package main

import (
	"context"

	"github.com/UnendingLoop/ThumbnailPipeline/internal/model"
)

type InvocationService interface {
	HandleInvocation(ctx context.Context, raw []byte) model.InvocationResponse
}
