package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolStats is a point-in-time snapshot of the connection pool.
type PoolStats struct {
	TotalConns    int32 `json:"total_conns"`
	IdleConns     int32 `json:"idle_conns"`
	AcquiredConns int32 `json:"acquired_conns"`
	MaxConns      int32 `json:"max_conns"`
}

// Health pings the database with a short deadline and returns pool stats.
func Health(ctx context.Context, pool *pgxpool.Pool) (PoolStats, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	stats := pool.Stat()
	ps := PoolStats{
		TotalConns:    stats.TotalConns(),
		IdleConns:     stats.IdleConns(),
		AcquiredConns: stats.AcquiredConns(),
		MaxConns:      stats.MaxConns(),
	}
	if err := pool.Ping(ctx); err != nil {
		return ps, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return ps, nil
}
