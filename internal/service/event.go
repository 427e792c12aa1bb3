package service

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/UnendingLoop/ThumbnailPipeline/internal/model"
	"github.com/aws/aws-lambda-go/events"
)

// ParseBatch reads an S3 "object created" event (also what MinIO publishes to Kafka).
// Records must be present; an empty list is a valid, empty batch.
func ParseBatch(raw []byte) ([]model.ChangeNotification, error) {
	var probe struct {
		Records json.RawMessage `json:"Records"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedBatch, err)
	}
	if len(probe.Records) == 0 || string(probe.Records) == "null" {
		return nil, fmt.Errorf("%w: Records is missing", model.ErrMalformedBatch)
	}

	var event events.S3Event
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedBatch, err)
	}

	batch := make([]model.ChangeNotification, 0, len(event.Records))
	for i, rec := range event.Records {
		bucket := rec.S3.Bucket.Name
		key := rec.S3.Object.Key
		if bucket == "" || key == "" {
			return nil, fmt.Errorf("%w: record %d has no bucket name or object key", model.ErrMalformedBatch, i)
		}
		batch = append(batch, model.ChangeNotification{Bucket: bucket, Key: decodeKey(key)})
	}
	return batch, nil
}

// в событиях ключ url-encoded, пробел приходит как "+"
func decodeKey(key string) string {
	decoded, err := url.QueryUnescape(key)
	if err != nil {
		return key
	}
	return decoded
}
