// Package transport provides the local HTTP harness: it feeds raw notification events to the service
package transport

import (
	"context"
	"net/http"

	"github.com/UnendingLoop/ThumbnailPipeline/internal/model"
	"github.com/wb-go/wbf/ginext"
)

const maxEventSize = 1 << 20

type InvokeHandler struct {
	service InvocationService
}

type InvocationService interface {
	HandleInvocation(ctx context.Context, raw []byte) model.InvocationResponse
}

func NewInvokeHandler(svc InvocationService) *InvokeHandler {
	return &InvokeHandler{
		service: svc,
	}
}

func (h InvokeHandler) SimplePinger(ctx *ginext.Context) {
	ctx.JSON(200, map[string]string{"message": "pong"})
}

// Invoke - тело запроса это событие как его прислал бы харнесс, ответ отдается как есть
func (h InvokeHandler) Invoke(ctx *ginext.Context) {
	raw, err := readBody(ctx.Request, maxEventSize)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	resp := h.service.HandleInvocation(ctx.Request.Context(), raw)
	ctx.Data(resp.StatusCode, "application/json", []byte(resp.Body))
}
