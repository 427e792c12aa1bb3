// Package service provides the batch boundary: it turns an invocation payload into a response
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/UnendingLoop/ThumbnailPipeline/internal/model"
	"github.com/UnendingLoop/ThumbnailPipeline/internal/mwlogger"
)

// BatchProcessor - контракт пайплайна миниатюр
type BatchProcessor interface {
	ProcessBatch(ctx context.Context, batch []model.ChangeNotification) model.BatchResult
}

type ThumbnailService struct {
	pipeline BatchProcessor
}

func NewThumbnailService(p BatchProcessor) *ThumbnailService {
	return &ThumbnailService{pipeline: p}
}

// HandleInvocation always answers: 200 with a summary once the batch ran, whatever the
// per-item outcomes, and 500 only when the payload itself cannot be processed.
func (s *ThumbnailService) HandleInvocation(ctx context.Context, raw []byte) (resp model.InvocationResponse) {
	logger := mwlogger.LoggerFromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic while processing batch: %v", r)
			logger.Error().Err(err).Msg("Invocation failed")
			resp = errorResponse(err)
		}
	}()

	batch, err := ParseBatch(raw)
	if err != nil {
		logger.Error().Err(err).Msg("Invocation failed")
		return errorResponse(err)
	}
	logger.Info().Int("records", len(batch)).Msg("Invocation started")

	res := s.pipeline.ProcessBatch(ctx, batch)

	summary := model.SummaryBody{
		Message:        model.MsgBatchDone,
		ProcessedFiles: res.Processed,
		Succeeded:      res.Count(model.OutcomeDone),
		Skipped:        res.Count(model.OutcomeSkipped),
		Failed:         res.Count(model.OutcomeFailed),
		Results:        res.Results,
	}
	logger.Info().
		Int("processed_files", summary.ProcessedFiles).
		Int("succeeded", summary.Succeeded).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("Invocation finished")

	body, err := json.Marshal(summary)
	if err != nil {
		return errorResponse(err)
	}
	return model.InvocationResponse{StatusCode: http.StatusOK, Body: string(body)}
}

func errorResponse(err error) model.InvocationResponse {
	// ErrorBody из двух строк всегда сериализуется
	body, _ := json.Marshal(model.ErrorBody{
		Error:   model.MsgInternalError,
		Message: err.Error(),
	})
	return model.InvocationResponse{StatusCode: http.StatusInternalServerError, Body: string(body)}
}
