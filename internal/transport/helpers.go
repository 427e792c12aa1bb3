package transport

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
)

var errEmptyEvent = errors.New("empty event body")

func readBody(r *http.Request, limit int64) ([]byte, error) {
	if r.Body == nil {
		return nil, errEmptyEvent
	}
	defer closeFileFlow(r.Body)

	raw, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read event body: %w", err)
	}
	if int64(len(raw)) > limit {
		return nil, fmt.Errorf("event body exceeds %d bytes", limit)
	}
	if len(raw) == 0 {
		return nil, errEmptyEvent
	}
	return raw, nil
}

func closeFileFlow(res io.ReadCloser) {
	if res == nil {
		return
	}
	if err := res.Close(); err != nil {
		log.Println("Handler failed to close request body:", err)
	}
}
