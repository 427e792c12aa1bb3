// Package model provides data-structs for internal app-usage
package model

import (
	"errors"
)

// ChangeNotification - одно событие загрузки объекта в хранилище
type ChangeNotification struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

type Outcome string

const (
	OutcomeDone    Outcome = "done"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// ThumbnailResult - итог обработки одного события, в базу не пишется
type ThumbnailResult struct {
	Bucket       string  `json:"bucket"`
	OriginalKey  string  `json:"original_key"`
	ThumbnailKey string  `json:"thumbnail_key,omitempty"`
	Outcome      Outcome `json:"outcome"`
	Success      bool    `json:"success"`
	Width        int     `json:"width,omitempty"`
	Height       int     `json:"height,omitempty"`
	Reason       string  `json:"reason,omitempty"`
	Error        string  `json:"error,omitempty"`
	Err          error   `json:"-"`
}

type BatchResult struct {
	Processed int               `json:"processed_files"`
	Results   []ThumbnailResult `json:"results"`
}

func (b BatchResult) Count(o Outcome) int {
	n := 0
	for _, r := range b.Results {
		if r.Outcome == o {
			n++
		}
	}
	return n
}

// StoredObject - то, что кладется в хранилище вместе с заголовками
type StoredObject struct {
	Body         []byte
	ContentType  string
	CacheControl string
	Metadata     map[string]string
}

//--------------------

// InvocationResponse - ответ харнессу в стиле HTTP: код + JSON-тело строкой
type InvocationResponse struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

type SummaryBody struct {
	Message        string            `json:"message"`
	ProcessedFiles int               `json:"processed_files"`
	Succeeded      int               `json:"succeeded"`
	Skipped        int               `json:"skipped"`
	Failed         int               `json:"failed"`
	Results        []ThumbnailResult `json:"results"`
}

type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

const (
	MsgBatchDone     = "Thumbnails processed successfully"
	MsgInternalError = "Internal server error"
)

// ------------------

// все ошибки кроме ErrMalformedBatch роняют только текущий элемент пачки
var (
	ErrFetch          error = errors.New("failed to fetch source object")
	ErrDecode         error = errors.New("unsupported or corrupt image data")
	ErrEncode         error = errors.New("failed to encode thumbnail")
	ErrStore          error = errors.New("failed to store thumbnail")
	ErrKeyMapping     error = errors.New("key is outside the incoming prefix")
	ErrMissingConfig  error = errors.New("missing required database parameter")
	ErrLinkConnect    error = errors.New("failed to connect to database")
	ErrLinkExec       error = errors.New("failed to update thumbnail record")
	ErrMalformedBatch error = errors.New("malformed notification batch")
)

//--------------------

const (
	JPEG = "image/jpeg"
	PNG  = "image/png"
)

const (
	DefaultIncomingPrefix = "uploads/"
	DefaultDerivedPrefix  = "thumbnails/"
	DefaultMaxSide        = 200
	DefaultCacheControl   = "max-age=31536000"
	DefaultGeneratorTag   = "aprohirdeto-lambda"
	DefaultDBName         = "aprohirdeto"
)

// ключи пользовательских метаданных миниатюры
const (
	MetaOriginalKey   = "original-key"
	MetaThumbnailSize = "thumbnail-size"
	MetaGeneratedBy   = "generated-by"
)
