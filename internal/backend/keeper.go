package backend

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoSession is returned by a Keeper that holds no token.
var ErrNoSession = errors.New("no session")

// Keeper persists the current session token between runs, the way a browser
// keeps it in local storage.
type Keeper interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// FileKeeper stores the token in a single file.
type FileKeeper struct {
	path string
}

func NewFileKeeper(path string) *FileKeeper {
	return &FileKeeper{path: path}
}

func (k *FileKeeper) Load(ctx context.Context) (string, error) {
	data, err := os.ReadFile(k.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("read session file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoSession
	}
	return token, nil
}

func (k *FileKeeper) Save(ctx context.Context, token string) error {
	if dir := filepath.Dir(k.path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create session directory: %w", err)
		}
	}

	err := os.WriteFile(k.path, []byte(token), 0o600)
	if err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (k *FileKeeper) Clear(ctx context.Context) error {
	err := os.Remove(k.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// RedisKeeper stores the token under session:<key> with the token's TTL.
type RedisKeeper struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisKeeper stores the token through an already connected client.
func NewRedisKeeper(client *redis.Client, key string, ttl time.Duration) *RedisKeeper {
	return &RedisKeeper{
		client: client,
		key:    "session:" + key,
		ttl:    ttl,
	}
}

func (k *RedisKeeper) Load(ctx context.Context) (string, error) {
	token, err := k.client.Get(ctx, k.key).Result()
	if err == redis.Nil {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	return token, nil
}

func (k *RedisKeeper) Save(ctx context.Context, token string) error {
	if err := k.client.Set(ctx, k.key, token, k.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (k *RedisKeeper) Clear(ctx context.Context) error {
	if err := k.client.Del(ctx, k.key).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
