package transport

import (
	"context"

	"github.com/UnendingLoop/ThumbnailPipeline/internal/model"
	"github.com/gin-gonic/gin"
)

type mockInvocationService struct {
	handleFn func(ctx context.Context, raw []byte) model.InvocationResponse
}

func (m *mockInvocationService) HandleInvocation(ctx context.Context, raw []byte) model.InvocationResponse {
	return m.handleFn(ctx, raw)
}

func init() {
	gin.SetMode(gin.TestMode)
}
