package health

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// DepsChecker probes the shop's two stateful dependencies.
type DepsChecker struct {
	Pool *pgxpool.Pool
	RDB  *redis.Client
}

func (c DepsChecker) PingDB(ctx context.Context, timeout time.Duration) error {
	if c.Pool == nil {
		return errors.New("pgx pool not configured")
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.Pool.Ping(probeCtx)
}

func (c DepsChecker) PingRedis(ctx context.Context, timeout time.Duration) error {
	if c.RDB == nil {
		return errors.New("redis client not configured")
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.RDB.Ping(probeCtx).Err()
}
