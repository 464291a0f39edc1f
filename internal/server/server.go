// Package server boots every subsystem and runs the HTTP listener with
// graceful shutdown: config, database, redis, storage, the log sink, the
// queue workers, the event bus and the delivery board.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/velocart/velocart/app/jobs"
	"github.com/velocart/velocart/app/routes"
	"github.com/velocart/velocart/app/services"
	"github.com/velocart/velocart/config"
	"github.com/velocart/velocart/pkg/auth"
	"github.com/velocart/velocart/pkg/cache"
	"github.com/velocart/velocart/pkg/database"
	"github.com/velocart/velocart/pkg/event"
	"github.com/velocart/velocart/pkg/logger"
	"github.com/velocart/velocart/pkg/migration"
	"github.com/velocart/velocart/pkg/orm"
	"github.com/velocart/velocart/pkg/queue"
	"github.com/velocart/velocart/pkg/router"
	"github.com/velocart/velocart/pkg/storage"
)

const shutdownTimeout = 15 * time.Second

// Start boots the application and serves HTTP until SIGINT or SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	db, err := database.Connect()
	if err != nil {
		return err
	}
	q := orm.New(db)
	queue.UseDB(db)

	if config.Get("AUTO_MIGRATE", "true") == "true" {
		if err := migration.New(db).Run(); err != nil {
			return err
		}
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, catalogue cache disabled", "error", err)
	}
	storage.Connect()

	if uri := config.Get("MONGO_URI", ""); uri != "" {
		mh, err := logger.NewMongoHandler(uri, config.Get("MONGO_DB", "velocart"), config.Get("MONGO_LOG_COLLECTION", "logs"))
		if err != nil {
			logger.Warn("mongo log sink unavailable", "error", err)
		} else {
			defer mh.Close()
			logger.SetHandler(logger.NewMultiHandler(logger.L.Handler(), mh))
		}
	}

	if config.QueueDriver() == "redis" && cache.Client() != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.Client()))
	}
	jobs.RegisterAll()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue.StartWorkers(ctx, queueWorkers())

	bus := event.NewBus()
	board := services.NewDeliveryBoard(bus)
	defer board.Close()

	verifier := auth.NewHMACVerifier(config.AuthSecret())

	r := router.New()
	routes.RegisterAPI(r, routes.Deps{
		Query:    q,
		Verifier: verifier,
		Issuer:   verifier,
		Bus:      bus,
		Board:    board,
	})

	srv := &http.Server{
		Addr:    ":" + config.AppPort(),
		Handler: r.Handler(),
		// No WriteTimeout: the rider SSE stream is a long-lived response.
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func queueWorkers() int {
	n, err := strconv.Atoi(config.Get("QUEUE_WORKERS", "5"))
	if err != nil || n < 1 {
		return 5
	}
	return n
}
