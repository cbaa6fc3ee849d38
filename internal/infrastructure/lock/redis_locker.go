// Package lock bloqueos con nombre compartidos entre réplicas de la API.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var (
	_ inventory.Locker = (*RedisLocker)(nil)
	_ inventory.Locker = NoopLocker{}
)

// keyPrefix espacio de nombres de las claves de bloqueo en Redis.
const keyPrefix = "almacen:lock:"

// RedisLocker bloqueo distribuido sobre Redis (bsm/redislock). Si el bloqueo está tomado
// reintenta con espera lineal hasta maxRetries; después devuelve ErrConcurrentUpdate.
type RedisLocker struct {
	client     *redislock.Client
	ttl        time.Duration
	backoff    time.Duration
	maxRetries int
	log        *logger.Logger
}

// NewRedisClient abre el cliente Redis y verifica la conexión con PING.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// NewRedisLocker construye el locker. ttl <= 0 usa 30s.
func NewRedisLocker(rdb redislock.RedisClient, ttl time.Duration, log *logger.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisLocker{
		client:     redislock.New(rdb),
		ttl:        ttl,
		backoff:    100 * time.Millisecond,
		maxRetries: 50,
		log:        log.Named("lock"),
	}
}

// Lock toma el bloqueo key. release libera con un contexto propio para no depender
// de que la petición siga viva.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	lk, err := l.client.Obtain(ctx, keyPrefix+key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(l.backoff), l.maxRetries),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		l.log.Warn().Str("key", key).Msg("no se pudo obtener el bloqueo")
		return nil, fmt.Errorf("lock %s: %w", key, domain.ErrConcurrentUpdate)
	}
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", key, err)
	}
	return func() {
		rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := lk.Release(rctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Warn().Err(err).Str("key", key).Msg("error liberando bloqueo")
		}
	}, nil
}

// NoopLocker sin Redis configurado: los bloqueos de fila de la BD son la única garantía.
type NoopLocker struct{}

func (NoopLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}
