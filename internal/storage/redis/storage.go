package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/authstore/internal/model"
	"github.com/mcoot/authstore/internal/storage"
)

// Client holds the Redis connection shared by all named stores
type Client struct {
	client *redis.Client
	cfg    Config
}

// New connects to Redis and verifies the connection
func New(cfg Config) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Client{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient wraps an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Client {
	return &Client{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.client.Close()
}

// Store returns the storage channel for the named store
func (c *Client) Store(name string) *Storage {
	return &Storage{client: c.client, key: snapshotKey(name), ttl: c.cfg.SnapshotTTL}
}

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) Load(ctx context.Context) (*model.AuthState, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSnapshotNotFound
		}
		return nil, err
	}

	return storage.DecodeSnapshot(data)
}

func (s *Storage) Save(ctx context.Context, state *model.AuthState) error {
	data, err := storage.EncodeSnapshot(state)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, s.key, data, s.ttl).Err()
}
