// Package main (in worker-subfolder) consumes MinIO bucket notifications from Kafka and runs the thumbnail pipeline on them
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnendingLoop/ThumbnailPipeline/internal/kafka"
	"github.com/UnendingLoop/ThumbnailPipeline/internal/keymap"
	"github.com/UnendingLoop/ThumbnailPipeline/internal/mwlogger"
	"github.com/UnendingLoop/ThumbnailPipeline/internal/pipeline"
	"github.com/UnendingLoop/ThumbnailPipeline/internal/repository"
	"github.com/UnendingLoop/ThumbnailPipeline/internal/service"
	"github.com/UnendingLoop/ThumbnailPipeline/internal/storage"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/wb-go/wbf/config"
	wbfkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

func main() {
	// инициализировать конфиг/ считать энвы
	appConfig := config.New()
	appConfig.EnableEnv("")
	if err := appConfig.LoadEnvFiles("./.env"); err != nil {
		log.Fatalf("Failed to load envs: %s\nExiting app...", err)
	}

	if err := mwlogger.Init(appConfig.GetString("LOG_LEVEL")); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// подкллючиться к хранилищу
	strg := storage.NewImgStorage(appConfig, 10*time.Second)
	params := repository.ParamsFromConfig(appConfig)
	if err := params.Validate(); err != nil {
		zlog.Logger.Warn().Err(err).Msg("Database linking will fail for every record")
	}

	keys := keymap.New(appConfig.GetString("INCOMING_PREFIX"), appConfig.GetString("DERIVED_PREFIX"))
	p := pipeline.New(strg, repository.NewRecordLinker(params), keys, pipeline.OptionsFromConfig(appConfig))
	var svc InvocationService = service.NewThumbnailService(p)

	// ждем пока кафка раздуплится
	broker := appConfig.GetString("KAFKA_BROKER")
	topic := appConfig.GetString("KAFKA_TOPIC")
	if err := kafka.WaitKafkaReady(ctx, broker, 5*time.Second); err != nil {
		log.Fatalf("Kafka is unreachable: %v", err)
	}
	if err := kafka.InitKafkaTopics(ctx, broker, 10*time.Second, topic); err != nil {
		log.Fatalf("Failed to prepare notification topic: %v", err)
	}

	queue := make(chan kafkago.Message)
	retryStrategy := retry.Strategy{
		Attempts: 5,
		Delay:    2 * time.Second,
		Backoff:  1.5,
	}
	cons := wbfkafka.NewConsumer([]string{broker}, topic, appConfig.GetString("KAFKA_GROUPID"))
	cons.StartConsuming(ctx, queue, retryStrategy)

	go consume(ctx, queue, svc, cons)

	<-ctx.Done()

	shutdown(cons)
	log.Println("Exiting worker...")
}

// consume - каждое уведомление отдается сервису как одна пачка и коммитится в любом случае
func consume(ctx context.Context, queue <-chan kafkago.Message, svc InvocationService, cm Committer) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-queue:
			if !ok {
				log.Println("Queue channel closed, stopping worker...")
				return
			}
			handleMessage(ctx, msg, svc)
			if err := cm.Commit(ctx, msg); err != nil {
				log.Printf("Failed to commit queue-message: %v", err)
			}
		}
	}
}

func handleMessage(ctx context.Context, msg kafkago.Message, svc InvocationService) {
	ctx = mwlogger.WithInvocation(ctx, uuid.NewString(), "kafka")
	logger := mwlogger.LoggerFromContext(ctx)

	resp := svc.HandleInvocation(ctx, msg.Value)
	logger.Info().
		Str("message_key", string(msg.Key)).
		Int64("offset", msg.Offset).
		Int("status", resp.StatusCode).
		Str("body", resp.Body).
		Msg("Notification handled")
}

func shutdown(cons *wbfkafka.Consumer) {
	log.Println("Interrupt received!!! Starting shutdown sequence...")

	if err := cons.Close(); err != nil {
		log.Println("Failed to close Kafka-reader:", err)
	}
	log.Println("Kafka-consumer connection closed.")
}
