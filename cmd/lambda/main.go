// Package main (in lambda-subfolder) runs the thumbnail pipeline as an S3-triggered function
package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/UnendingLoop/ThumbnailPipeline/internal/keymap"
	"github.com/UnendingLoop/ThumbnailPipeline/internal/model"
	"github.com/UnendingLoop/ThumbnailPipeline/internal/mwlogger"
	"github.com/UnendingLoop/ThumbnailPipeline/internal/pipeline"
	"github.com/UnendingLoop/ThumbnailPipeline/internal/repository"
	"github.com/UnendingLoop/ThumbnailPipeline/internal/service"
	"github.com/UnendingLoop/ThumbnailPipeline/internal/storage"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/zlog"
)

func main() {
	// в лямбде .env нет - только переменные окружения
	appConfig := config.New()
	appConfig.EnableEnv("")

	if err := mwlogger.Init(appConfig.GetString("LOG_LEVEL")); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	// клиент s3 создается один раз на контекст исполнения и переиспользуется между вызовами
	strg, err := storage.NewS3Storage(context.Background(), appConfig)
	if err != nil {
		log.Fatalf("Failed to init S3 client: %v", err)
	}

	params := repository.ParamsFromConfig(appConfig)
	logEnvironment(appConfig, params)

	keys := keymap.New(appConfig.GetString("INCOMING_PREFIX"), appConfig.GetString("DERIVED_PREFIX"))
	p := pipeline.New(strg, repository.NewRecordLinker(params), keys, pipeline.OptionsFromConfig(appConfig))

	var svc InvocationService = service.NewThumbnailService(p)
	lambda.Start(newHandler(svc))
}

func newHandler(svc InvocationService) func(ctx context.Context, raw json.RawMessage) (model.InvocationResponse, error) {
	return func(ctx context.Context, raw json.RawMessage) (model.InvocationResponse, error) {
		reqID := ""
		if lc, ok := lambdacontext.FromContext(ctx); ok {
			reqID = lc.AwsRequestID
		}
		ctx = mwlogger.WithInvocation(ctx, reqID, "lambda")
		return svc.HandleInvocation(ctx, raw), nil
	}
}

func logEnvironment(cfg *config.Config, params repository.ConnParams) {
	region := cfg.GetString("AWS_REGION")
	if region == "" {
		region = "Not set"
	}

	ev := zlog.Logger.Info().Str("AWS_REGION", region)
	for k, v := range params.Masked() {
		ev = ev.Str(k, v)
	}
	ev.Msg("Environment variables")

	if err := params.Validate(); err != nil {
		zlog.Logger.Warn().Err(err).Msg("Database linking will fail for every record")
	}
}
