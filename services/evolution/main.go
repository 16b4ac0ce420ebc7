// Copyright (C) 2025 LifeGraph Authors (maintainers@lifegraph.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/lifegraph/lifegraph/services/evolution/evolver"
	"github.com/lifegraph/lifegraph/services/evolution/routes"
	"github.com/lifegraph/lifegraph/services/evolution/storage"
	"github.com/lifegraph/lifegraph/services/evolution/storage/badgerstore"
	"github.com/lifegraph/lifegraph/services/evolution/storage/memory"

	// --- OpenTelemetry imports ---
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		otelEndpoint = "localhost:4317"
	}
	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("evolution-service")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

// openStore picks the storage backend from EVOLUTION_STORAGE:
// "badger" for the embedded persistent store, anything else (default)
// for in-memory.
func openStore() (storage.Store, func(), error) {
	backend := os.Getenv("EVOLUTION_STORAGE")
	if backend != "badger" {
		slog.Info("using in-memory storage backend")
		return memory.New(), func() {}, nil
	}

	path := os.Getenv("EVOLUTION_BADGER_PATH")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, err
		}
		path = filepath.Join(home, ".lifegraph", "data")
	}
	store, err := badgerstore.Open(badgerstore.DefaultConfig(path))
	if err != nil {
		return nil, nil, err
	}
	slog.Info("using badger storage backend", "path", path)
	return store, func() {
		if err := store.Close(); err != nil {
			slog.Error("failed to close badger store", "error", err)
		}
	}, nil
}

func main() {
	port := os.Getenv("EVOLUTION_PORT")
	if port == "" {
		port = "12300"
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// --- Init the tracer ---
	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	store, closeStore, err := openStore()
	if err != nil {
		log.Fatalf("failed to open storage backend: %v", err)
	}
	defer closeStore()

	eng := evolver.New(store, evolver.WithLogger(logger))

	opts := routes.Options{
		EnableAdmin:    os.Getenv("EVOLUTION_ENABLE_ADMIN") == "true",
		RateLimitBurst: 50,
	}
	if raw := os.Getenv("EVOLUTION_RATE_LIMIT_RPS"); raw != "" {
		if rps, err := strconv.ParseFloat(raw, 64); err == nil {
			opts.RateLimitRPS = rps
		}
	}

	router := gin.Default()
	router.Use(otelgin.Middleware("evolution-service"))
	routes.SetupRoutes(router, eng, opts)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("evolution service listening", "port", port,
			"admin_enabled", opts.EnableAdmin)
		if err := srv.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
