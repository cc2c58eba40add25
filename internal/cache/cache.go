package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultTTL aplica cuando el llamador no pide un TTL explicito.
const DefaultTTL = 2 * time.Minute

// ErrInvalidationMismatch indica que el numero de claves borradas no
// coincide con las que matchearon el patron (carrera entre KEYS y DEL).
var ErrInvalidationMismatch = errors.New("cache invalidation count mismatch")

// Cache implementa una capa read-through sobre redis. Con cliente nil la
// capa queda deshabilitada y toda lectura pasa directo a compute.
type Cache struct {
	client *redis.Client
	logger *zap.Logger
}

func New(client *redis.Client, logger *zap.Logger) *Cache {
	return &Cache{client: client, logger: logger}
}

// Key compone una clave deterministica: familia de recurso mas los
// parametros que afectan el resultado, en orden.
func Key(family string, parts ...string) string {
	if len(parts) == 0 {
		return family
	}
	return family + ":" + strings.Join(parts, ":")
}

// Get deserializa el valor cacheado en dest. Devuelve false en miss.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil || c.client == nil {
		return false, nil
	}
	raw, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set serializa y guarda el valor bajo la clave con el TTL dado.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

// InvalidatePattern borra todas las claves que matchean el patron.
// Un mismatch entre claves encontradas y borradas se reporta como
// ErrInvalidationMismatch; el llamador decide si lo propaga.
func (c *Cache) InvalidatePattern(ctx context.Context, pattern string) error {
	if c == nil || c.client == nil {
		return nil
	}
	keys, err := c.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	deleted, err := c.client.Del(ctx, keys...).Result()
	if err != nil {
		return err
	}
	if deleted != int64(len(keys)) {
		return ErrInvalidationMismatch
	}
	return nil
}

// FlushAll vacia el cache completo.
func (c *Cache) FlushAll(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.FlushAll(ctx).Err()
}

// GetOrCompute devuelve el valor cacheado bajo key o, en miss, ejecuta
// compute y guarda el resultado. Los errores del cache se loguean y se
// degradan a compute: el cache nunca falla el camino de lectura.
func GetOrCompute[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, compute func(ctx context.Context) (T, error)) (T, error) {
	var cached T
	hit, err := c.Get(ctx, key, &cached)
	if err != nil && c != nil && c.logger != nil {
		c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		return cached, nil
	}

	value, err := compute(ctx)
	if err != nil {
		return value, err
	}

	if err := c.Set(ctx, key, value, ttl); err != nil && c != nil && c.logger != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}
