package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pickupoint/cmd"
	httpin "pickupoint/internal/adapters/in/http"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 10 * time.Second

func serveCommand(a *app) *cobra.Command {
	var withWorker bool
	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the dispatch jobs",
		RunE: func(c *cobra.Command, _ []string) error {
			return a.serve(c.Context(), withWorker)
		},
	}
	c.Flags().BoolVar(&withWorker, "with-worker", true, "also consume notification tasks in this process")
	return c
}

func workerCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consume notification tasks",
		RunE: func(*cobra.Command, []string) error {
			logger := a.cfg.Logger()
			conns, err := connect(a.cfg)
			if err != nil {
				return err
			}
			defer conns.close()

			root, err := cmd.NewCompositionRoot(a.cfg, conns.db, conns.redis, conns.tasks, logger)
			if err != nil {
				return err
			}
			srv, mux := root.CreateNotificationWorker(redisConnOpt(a.cfg))
			return srv.Run(mux)
		},
	}
}

// infra is the set of connections a process holds.
type infra struct {
	db    *gorm.DB
	redis *redis.Client
	tasks *asynq.Client
}

func connect(cfg cmd.Config) (*infra, error) {
	level := gormlogger.Warn
	if cfg.Production() {
		level = gormlogger.Error
	}
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err = client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &infra{db: db, redis: client, tasks: asynq.NewClient(redisConnOpt(cfg))}, nil
}

func (i *infra) close() {
	_ = i.tasks.Close()
	_ = i.redis.Close()
	if sqlDB, err := i.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func redisConnOpt(cfg cmd.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
}

func (a *app) serve(ctx context.Context, withWorker bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := a.cfg.Logger()
	slog.SetDefault(logger)

	conns, err := connect(a.cfg)
	if err != nil {
		return err
	}
	defer conns.close()

	root, err := cmd.NewCompositionRoot(a.cfg, conns.db, conns.redis, conns.tasks, logger)
	if err != nil {
		return err
	}

	jobManager := root.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	if withWorker {
		srv, mux := root.CreateNotificationWorker(redisConnOpt(a.cfg))
		if err = srv.Start(mux); err != nil {
			return fmt.Errorf("start notification worker: %w", err)
		}
		defer srv.Shutdown()
	}

	e, err := httpin.NewRouter(ctx, root.CreateHTTPServer(), logger)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(fmt.Sprintf("0.0.0.0:%s", a.cfg.HTTPPort))
	}()
	logger.Info("http server started", "port", a.cfg.HTTPPort, "env", a.cfg.AppEnv)

	select {
	case <-ctx.Done():
	case err = <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
