package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/appointweb-booking/internal/domain"
	"github.com/m04kA/appointweb-booking/pkg/metrics"
)

const (
	keyPrefix = "business:profile:"
	cacheName = "schedule"
)

// Cache cache-aside над хранилищем бизнесов: расписание, услуги и форма
// бронирования читаются из Redis, при промахе из Source.
// Ошибки Redis не ломают чтение: запрос уходит в Source.
type Cache struct {
	client  *redis.Client
	source  Source
	ttl     time.Duration
	logger  Logger
	metrics *metrics.Metrics
}

// NewRedisClient создает клиент Redis
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// New создает кэш. m может быть nil, если метрики выключены.
func New(client *redis.Client, source Source, ttl time.Duration, logger Logger, m *metrics.Metrics) *Cache {
	return &Cache{
		client:  client,
		source:  source,
		ttl:     ttl,
		logger:  logger,
		metrics: m,
	}
}

// GetByID возвращает бизнес из кэша или из Source с записью в кэш
func (c *Cache) GetByID(ctx context.Context, id string) (*domain.Business, error) {
	key := keyPrefix + id

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var b domain.Business
		if err := json.Unmarshal(data, &b); err == nil {
			c.metrics.IncCache(cacheName, "hit")
			return &b, nil
		}
		c.logger.Warn("schedule cache: drop undecodable entry %s: %v", key, err)
		_ = c.client.Del(ctx, key).Err()
	case errors.Is(err, redis.Nil):
	default:
		c.metrics.IncCache(cacheName, "error")
		c.logger.Warn("schedule cache: get %s: %v", key, err)
	}

	c.metrics.IncCache(cacheName, "miss")

	b, err := c.source.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, b)
	return b, nil
}

// Invalidate удаляет бизнес из кэша после изменения расписания, услуг или формы
func (c *Cache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("schedule cache: invalidate %s: %w", id, err)
	}
	return nil
}

func (c *Cache) store(ctx context.Context, key string, b *domain.Business) {
	data, err := json.Marshal(b)
	if err != nil {
		c.logger.Error("schedule cache: encode %s: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("schedule cache: set %s: %v", key, err)
	}
}

// Passthrough используется при выключенном Redis: чтение идёт напрямую в Source,
// инвалидировать нечего
type Passthrough struct {
	Source
}

// Invalidate ничего не делает
func (Passthrough) Invalidate(context.Context, string) error {
	return nil
}
