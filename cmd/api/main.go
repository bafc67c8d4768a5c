package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/JobMatch/internal/awsSession"
	"github.com/akolanti/JobMatch/internal/catalog"
	"github.com/akolanti/JobMatch/internal/config"
	"github.com/akolanti/JobMatch/internal/data/objectStore"
	"github.com/akolanti/JobMatch/internal/handlers"
	"github.com/akolanti/JobMatch/internal/ingest"
	"github.com/akolanti/JobMatch/internal/match"
	"github.com/akolanti/JobMatch/internal/middleware"
	"github.com/akolanti/JobMatch/internal/server"
	"github.com/akolanti/JobMatch/internal/trigger"
	"github.com/akolanti/JobMatch/internal/worker"
	"github.com/akolanti/JobMatch/pkg/logger_i"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config", os.Getenv("JOBMATCH_CONFIG"), "optional config file")
	flag.Parse()

	settings, err := config.Load(configFile)
	if err != nil {
		logger_i.NewLogger("main").Error("Could not load settings", "error", err)
		os.Exit(1)
	}
	logger_i.Init(settings.IsProd, settings.LogLevel)
	logger := logger_i.NewLogger("main")

	if err := settings.Validate(); err != nil {
		logger.Error("Invalid settings", "error", err)
		os.Exit(1)
	}

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	awsCfg, err := awsSession.Load(serviceContext, settings.AWSRegion, settings.AWSAccessKey, settings.AWSSecretKey)
	if err != nil {
		logger.Error("AWS config unavailable", "error", err)
		os.Exit(1)
	}

	store, closeStore, err := objectStore.New(serviceContext, settings, awsCfg)
	if err != nil {
		logger.Error("Object store unavailable", "backend", settings.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	detector, err := newDetector(settings, awsCfg, store)
	if err != nil {
		logger.Error("OCR unavailable", "error", err)
		os.Exit(1)
	}
	embedder, err := newEmbedder(serviceContext, settings, awsCfg)
	if err != nil {
		logger.Error("Embedding service unavailable", "provider", settings.EmbeddingProvider, "error", err)
		os.Exit(1)
	}

	jobCatalog, err := catalog.Load(settings.CatalogFile)
	if err != nil {
		logger.Error("Job catalog rejected", "file", settings.CatalogFile, "error", err)
		os.Exit(1)
	}
	logger.Info("Job catalog loaded", "postings", jobCatalog.Len())

	ingester := ingest.NewWorker(ingest.Config{
		Detector: detector,
		Engine:   match.NewEngine(embedder, settings.ChunkSize),
		Catalog:  jobCatalog,
		Store:    store,
	})

	pool := worker.NewPool(ingester, worker.DefaultOptions())
	pool.Start()

	var consumerGroup sync.WaitGroup
	if settings.AMQPURL != "" {
		consumer := trigger.NewConsumer(trigger.ConsumerConfig{
			URL:      settings.AMQPURL,
			Queue:    settings.AMQPQueue,
			Prefetch: config.AMQPPrefetchCount,
		}, pool)
		consumerGroup.Add(1)
		go func() {
			defer consumerGroup.Done()
			if err := consumer.Run(serviceContext); err != nil {
				logger.Error("AMQP consumer stopped", "error", err)
			}
		}()
	}

	h := handlers.NewHandler(handlers.Config{Ingester: ingester, Store: store, Bucket: settings.Bucket})
	srv := server.CreateServer(settings.ListenAddr, server.NewRouter(h, middleware.New(nil)))

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	go srv.ShutDownHandler(server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
		StopWorkers: func() {
			consumerGroup.Wait()
			pool.Stop()
		},
	})
	go srv.Start()

	<-stopExecution
	logger.Info("Server stopped")
}
