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

	"github.com/labstack/echo/v4"

	"github.com/medhabt/technotes/internal/config"
	"github.com/medhabt/technotes/internal/es"
	"github.com/medhabt/technotes/internal/httpserver"
	"github.com/medhabt/technotes/internal/logging"
	"github.com/medhabt/technotes/internal/mykafka"
	"github.com/medhabt/technotes/internal/repo"
	"github.com/medhabt/technotes/internal/search"
	"github.com/medhabt/technotes/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var producer *mykafka.Producer
	var publisher service.Publisher
	if cfg.KafkaAddress != "" {
		producer = mykafka.NewProducer([]string{cfg.KafkaAddress})
		publisher = producer
	} else {
		logger.Warn("KAFKA_ADDRESS not set, lifecycle events disabled")
	}

	var indexer service.NoteIndexer
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		indexer = search.NewNotesIndex(esClient, "notes")
	} else {
		logger.Warn("ES_URL not set, note search disabled")
	}

	r := &repo.GormRepo{DB: db}

	deps := &httpserver.Deps{
		Auth: &httpserver.AuthHTTP{Svc: &service.AuthService{
			Repo:          r,
			AccessSecret:  cfg.AccessSecret,
			RefreshSecret: cfg.RefreshSecret,
			Producer:      publisher,
		}},
		Users: &httpserver.UserHTTP{Svc: &service.UserService{
			Repo:     r,
			Producer: publisher,
		}},
		Notes: &httpserver.NoteHTTP{Svc: &service.NoteService{
			Repo:     r,
			Producer: publisher,
			Indexer:  indexer,
		}},
		AccessSecret:   cfg.AccessSecret,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	}

	e := echo.New()
	e.HideBanner = true
	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	logger.Info("shutdown complete")
}
