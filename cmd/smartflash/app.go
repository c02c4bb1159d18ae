package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/smartflash/internal/config"
	"github.com/phrazzld/smartflash/internal/events"
	"github.com/phrazzld/smartflash/internal/generation"
	"github.com/phrazzld/smartflash/internal/platform/filestore"
	"github.com/phrazzld/smartflash/internal/platform/gemini"
	"github.com/phrazzld/smartflash/internal/platform/postgres"
	"github.com/phrazzld/smartflash/internal/platform/redis"
	"github.com/phrazzld/smartflash/internal/platform/sqlite"
	"github.com/phrazzld/smartflash/internal/redact"
	"github.com/phrazzld/smartflash/internal/service"
	"github.com/phrazzld/smartflash/internal/service/review"
	"github.com/phrazzld/smartflash/internal/store"
	"github.com/phrazzld/smartflash/internal/task"
)

// application holds the shared dependencies of every command and releases
// them on close.
type application struct {
	config *config.Config
	logger *slog.Logger

	slot     store.Slot
	decks    *store.DeckStore
	emitter  *events.InMemoryEventEmitter
	sessions *review.Manager
	generate *service.GenerationService

	// Background generation, only set up for serve
	queue    *task.TaskQueue
	pool     *task.WorkerPool
	registry *task.Registry
}

// appOptions overrides parts of the wiring. Tests use it to avoid real
// storage and the Gemini API.
type appOptions struct {
	slot      store.Slot
	extractor generation.Extractor
	async     bool
}

// newApplication opens storage, loads the deck collection and wires the
// services on top of it.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts appOptions) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.slot = opts.slot
	if app.slot == nil {
		app.slot, err = openSlot(ctx, cfg.Storage, logger)
		if err != nil {
			return nil, err
		}
	}

	app.emitter = events.NewInMemoryEventEmitter(logger)
	app.decks, err = store.NewDeckStore(app.slot, logger, store.WithEventEmitter(app.emitter))
	if err != nil {
		app.close()
		return nil, fmt.Errorf("failed to create deck store: %w", err)
	}
	loaded := app.decks.Load(ctx)
	logger.Debug("decks loaded", "deck_count", len(loaded), "driver", cfg.Storage.Driver)

	ttl := time.Duration(cfg.Review.SessionTTLMinutes) * time.Minute
	app.sessions, err = review.NewManager(app.decks, ttl, logger)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("failed to create session manager: %w", err)
	}
	app.emitter.RegisterHandler(app.sessions)

	extractor := opts.extractor
	if extractor == nil {
		extractor = newLazyExtractor(cfg.LLM, logger)
	}

	var genOpts []service.GenerationOption
	if opts.async {
		app.queue = task.NewTaskQueue(cfg.Task.QueueSize, logger)
		app.registry = task.NewRegistry(0)
		app.pool = task.NewWorkerPool(app.queue, task.WorkerPoolConfig{
			WorkerCount: cfg.Task.WorkerCount,
		}, logger)
		app.pool.SetErrorHandler(func(t task.Task, err error) {
			logger.Warn("generation task failed", "task_id", t.ID(), "error", err)
		})
		app.pool.Start()
		genOpts = append(genOpts, service.WithTaskQueue(app.queue, app.registry))
	}

	app.generate, err = service.NewGenerationService(extractor, app.decks, logger, genOpts...)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("failed to create generation service: %w", err)
	}

	return app, nil
}

// openSlot connects to the storage backend named by cfg.Driver.
func openSlot(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (store.Slot, error) {
	switch cfg.Driver {
	case "file":
		return filestore.New(cfg.Path, logger)
	case "sqlite":
		return sqlite.Open(ctx, cfg.Path, cfg.Slot, logger)
	case "postgres":
		slot, err := postgres.Open(ctx, cfg.DatabaseURL, cfg.Slot, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres slot at %s: %w",
				postgres.MaskDatabaseURL(cfg.DatabaseURL), err)
		}
		return slot, nil
	case "redis":
		return redis.Open(ctx, redis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.Slot, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// newLazyExtractor defers creating the Gemini client until text is first
// submitted, so commands that never generate work without an API key.
// A missing key surfaces as generation.ErrInvalidConfig at that point.
func newLazyExtractor(cfg config.LLMConfig, logger *slog.Logger) generation.Extractor {
	var (
		mu        sync.Mutex
		extractor *gemini.Extractor
		initErr   error
	)
	return generation.ExtractorFunc(func(ctx context.Context, text string) ([]generation.ProtoCard, error) {
		mu.Lock()
		if extractor == nil && initErr == nil {
			extractor, initErr = gemini.NewExtractor(ctx, logger, cfg)
		}
		e, err := extractor, initErr
		mu.Unlock()

		if err != nil {
			return nil, err
		}
		return e.Extract(ctx, text)
	})
}

// close stops background work and releases storage.
func (app *application) close() {
	if app.pool != nil {
		app.pool.Stop()
	}
	if app.queue != nil {
		app.queue.Close()
	}
	if app.slot != nil {
		if err := app.slot.Close(); err != nil {
			app.logger.Error("Error closing storage", "error", err)
		}
	}
}

// userMessage renders err for the terminal. Generation failures show only
// their user-facing sentence.
func userMessage(err error) string {
	var genErr *service.GenerationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &genErr) && !store.IsPersistenceError(err):
		return genErr.Message
	case store.IsPersistenceError(err):
		return "the change could not be saved: " + redact.Error(err)
	case errors.Is(err, review.ErrNoCurrentCard):
		return "There is no card to show."
	default:
		return err.Error()
	}
}
