// Package mwlogger provides a request-scoped logger: per HTTP request and per invocation
package mwlogger

import (
	"context"
	"net/http"

	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/helpers"
	"github.com/wb-go/wbf/zlog"
)

type loggerWithRequestID struct{}

// NewMWLogger - обёртка для логирования запросов с присвоением UUID каждому запросу и пробросу логгера в контекст запроса
func NewMWLogger(next *ginext.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = helpers.CreateUUID()
		}

		logger := zlog.Logger.With().
			Str("request_id", reqID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()

		next.ServeHTTP(w, r.WithContext(WithLogger(r.Context(), logger)))
	})
}

// WithInvocation - логгер для одного вызова харнесса (lambda, kafka-сообщение)
func WithInvocation(ctx context.Context, requestID, source string) context.Context {
	if requestID == "" {
		requestID = helpers.CreateUUID()
	}
	logger := LoggerFromContext(ctx).With().
		Str("request_id", requestID).
		Str("source", source).
		Logger()
	return WithLogger(ctx, logger)
}

func WithLogger(ctx context.Context, logger zlog.Zerolog) context.Context {
	return context.WithValue(ctx, loggerWithRequestID{}, logger)
}

// LoggerFromContext extracts logger from context - used in service-layer
func LoggerFromContext(ctx context.Context) zlog.Zerolog {
	if l, ok := ctx.Value(loggerWithRequestID{}).(zlog.Zerolog); ok {
		return l
	}
	return zlog.Logger
}

// Init - консольный логгер zlog с уровнем из конфига, по умолчанию info
func Init(level string) error {
	zlog.InitConsole()
	if level == "" {
		level = "info"
	}
	return zlog.SetLevel(level)
}
