package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/UnendingLoop/ThumbnailPipeline/internal/model"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	handleFn func(ctx context.Context, raw []byte) model.InvocationResponse
}

func (m *mockService) HandleInvocation(ctx context.Context, raw []byte) model.InvocationResponse {
	return m.handleFn(ctx, raw)
}

func TestNewHandler(t *testing.T) {
	called := false
	h := newHandler(&mockService{
		handleFn: func(ctx context.Context, raw []byte) model.InvocationResponse {
			called = true
			require.JSONEq(t, `{"Records":[]}`, string(raw))
			return model.InvocationResponse{StatusCode: 500, Body: `{}`}
		},
	})

	ctx := lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{AwsRequestID: "req-1"})
	resp, err := h(ctx, json.RawMessage(`{"Records":[]}`))

	// ошибки уровня пачки уходят в ответ, а не в error лямбды
	require.NoError(t, err)
	require.True(t, called)
	require.Equal(t, 500, resp.StatusCode)
}
