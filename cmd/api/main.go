// Package main (in api-subfolder) runs the local HTTP harness: raw bucket events are posted to /invoke
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnendingLoop/ThumbnailPipeline/internal/keymap"
	"github.com/UnendingLoop/ThumbnailPipeline/internal/mwlogger"
	"github.com/UnendingLoop/ThumbnailPipeline/internal/pipeline"
	"github.com/UnendingLoop/ThumbnailPipeline/internal/repository"
	"github.com/UnendingLoop/ThumbnailPipeline/internal/service"
	"github.com/UnendingLoop/ThumbnailPipeline/internal/storage"
	"github.com/UnendingLoop/ThumbnailPipeline/internal/transport"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/ginext"
)

func main() {
	// инициализировать конфиг/ считать энвы
	appConfig := config.New()
	appConfig.EnableEnv("")
	if err := appConfig.LoadEnvFiles("./.env"); err != nil {
		log.Fatalf("Failed to load envs: %s\nExiting app...", err)
	}

	// стартуем логгер
	if err := mwlogger.Init(appConfig.GetString("LOG_LEVEL")); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// база нужна только чтобы накатить таблицу объявлений, линкер открывает свои подключения
	params := repository.ParamsFromConfig(appConfig)
	dbConn := repository.ConnectWithRetries(params, 5, 10*time.Second)
	repository.MigrateWithRetries(dbConn.Master, "./migrations", 10, 15*time.Second)

	// подключиться к хранилищу
	strg := storage.NewImgStorage(appConfig, 10*time.Second)

	keys := keymap.New(appConfig.GetString("INCOMING_PREFIX"), appConfig.GetString("DERIVED_PREFIX"))
	p := pipeline.New(strg, repository.NewRecordLinker(params), keys, pipeline.OptionsFromConfig(appConfig))
	var svc InvocationService = service.NewThumbnailService(p)

	handlers := transport.NewInvokeHandler(svc)
	engine := ginext.New(appConfig.GetString("GIN_MODE"))
	engine.GET("/ping", handlers.SimplePinger)
	engine.POST("/invoke", handlers.Invoke)

	srv := &http.Server{
		Addr:              ":" + appConfig.GetString("APP_PORT"),
		Handler:           mwlogger.NewMWLogger(engine),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Server launch
	go func() {
		log.Printf("Server running on http://localhost%s\n", srv.Addr)
		err := srv.ListenAndServe()
		if err != nil {
			switch {
			case errors.Is(err, http.ErrServerClosed):
				log.Println("Server gracefully stopping...")
			default:
				log.Printf("Server stopped: %v", err)
				stop()
			}
		}
	}()

	<-ctx.Done()

	shutdown(srv, dbConn)
	log.Println("Exiting api...")
}

func shutdown(srv *http.Server, dbConn *dbpg.DB) {
	log.Println("Interrupt received!!! Starting shutdown sequence...")

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		log.Println("Failed to shutdown server correctly:", err)
	}

	// Closing DB connection
	if err := dbConn.Master.Close(); err != nil {
		log.Println("Failed to close DB-conn correctly:", err)
		return
	}
	log.Println("DBconn closed")
}
