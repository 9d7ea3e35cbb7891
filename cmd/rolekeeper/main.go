package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/rolekeeper/rolekeeper/internal/app"
	"github.com/rolekeeper/rolekeeper/internal/audit"
	"github.com/rolekeeper/rolekeeper/internal/blr"
	"github.com/rolekeeper/rolekeeper/internal/bot"
	"github.com/rolekeeper/rolekeeper/internal/gateway/discord"
	"github.com/rolekeeper/rolekeeper/internal/interaction"
	"github.com/rolekeeper/rolekeeper/internal/mutation"
	"github.com/rolekeeper/rolekeeper/internal/platform/cache"
	"github.com/rolekeeper/rolekeeper/internal/session"
	"github.com/rolekeeper/rolekeeper/internal/store"
	"github.com/rolekeeper/rolekeeper/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	client, err := discord.New(cfg.BotToken, logger)
	if err != nil {
		logger.Error("discord client", slog.Any("error", err))
		os.Exit(1)
	}

	documents := store.New(cfg.DataDir)
	sessions := session.NewStore(cfg.SessionTTL, 0, nil)

	var guard interaction.Guard = interaction.NewMemoryGuard(interaction.GuardTTL, nil)
	var queue audit.Enqueuer
	var worker *jobs.Worker
	var jobHandler *jobs.Handler

	if cfg.UseRedis() {
		redisClient, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Error("connect redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		guard = interaction.NewRedisGuard(redisClient, interaction.GuardTTL)

		redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
		jobClient, err := jobs.NewClient(redisOpts)
		if err != nil {
			logger.Error("job client", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := jobClient.Close(); err != nil {
				logger.Warn("job client close", slog.Any("error", err))
			}
		}()
		queue = jobClient

		worker, err = jobs.NewWorker(jobs.WorkerConfig{
			RedisOpts: redisOpts,
			Logger:    logger,
			Handlers: []jobs.TaskHandler{
				{Type: jobs.TaskTypeAuditEmit, Handler: jobs.NewAuditEmitHandler(client, logger)},
				{Type: jobs.TaskTypeSessionSweep, Handler: jobs.NewSessionSweepHandler(sessions, logger)},
			},
			Cron: []jobs.CronRegistration{
				{Spec: "* * * * *", Task: jobs.NewSessionSweepTask()},
			},
		})
		if err != nil {
			logger.Error("job worker", slog.Any("error", err))
			os.Exit(1)
		}

		inspector := asynq.NewInspector(redisOpts)
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
		jobHandler = jobs.NewHandler(inspector, logger)
	}

	emitter := audit.NewEmitter(documents, client, client, queue, logger, nil)
	engine := mutation.NewEngine(client, logger)
	enforcer := blr.NewEnforcer(documents, engine, client, emitter, logger)

	service := bot.NewService(bot.Deps{
		Store:      documents,
		Sessions:   sessions,
		Engine:     engine,
		Enforcer:   enforcer,
		Audit:      emitter,
		Dir:        client,
		Roles:      client,
		Msg:        client,
		Guard:      guard,
		Log:        logger,
		Footer:     cfg.Footer,
		SupportURL: cfg.SupportURL,
	})

	router := app.NewRouter(app.RouterParams{
		Logger:     logger,
		Config:     cfg,
		Sessions:   sessions,
		Store:      documents,
		JobHandler: jobHandler,
		Started:    time.Now(),
	})

	server := &http.Server{
		Addr:         cfg.OpsAddr,
		Handler:      router,
		ReadTimeout:  cfg.OpsReadTimeout,
		WriteTimeout: cfg.OpsWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return client.Run(gctx)
	})

	g.Go(func() error {
		return service.Run(gctx, client.Events())
	})

	if worker != nil {
		g.Go(func() error {
			return worker.Run(gctx)
		})
	}

	g.Go(func() error {
		logger.Info("starting ops server", slog.String("addr", cfg.OpsAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("shutdown", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("stopped")
}
