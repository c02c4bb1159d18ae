// Package redis stores the deck collection under a single Redis key.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/phrazzld/smartflash/internal/store"
)

// Config holds the connection settings for a Redis slot.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Slot implements store.Slot with one Redis string value.
type Slot struct {
	client *goredis.Client
	key    string
	logger *slog.Logger
}

// Open connects to Redis and returns the slot stored under key.
// Addr may also be a redis:// URL.
func Open(ctx context.Context, cfg Config, key string, logger *slog.Logger) (*Slot, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}

	opt, err := goredis.ParseURL(cfg.Addr)
	if err != nil {
		opt = &goredis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	client := goredis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewWithClient(client, key, logger)
}

// NewWithClient wraps an existing client. The Slot takes ownership of client.
func NewWithClient(client *goredis.Client, key string, logger *slog.Logger) (*Slot, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("slot key cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Slot{
		client: client,
		key:    key,
		logger: logger.With("component", "redis_slot", "slot", key),
	}, nil
}

// Read implements store.Slot.
func (s *Slot) Read(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, store.ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %s: %w", s.key, err)
	}
	return data, nil
}

// Write implements store.Slot.
func (s *Slot) Write(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", s.key, err)
	}
	s.logger.DebugContext(ctx, "slot written", "bytes", len(data))
	return nil
}

// Close implements store.Slot.
func (s *Slot) Close() error {
	return s.client.Close()
}
