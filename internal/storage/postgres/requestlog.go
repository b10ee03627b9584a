package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RequestLog is one served RPC.
type RequestLog struct {
	ID         int64
	Method     string
	Endpoint   string
	StatusCode string
	Peer       string
	Duration   time.Duration
	CreatedAt  time.Time
}

// RequestLogRepository appends to and reads the request audit log.
type RequestLogRepository struct {
	db *pgxpool.Pool
}

// NewRequestLogRepository creates a RequestLogRepository backed by the given pool.
func NewRequestLogRepository(db *pgxpool.Pool) *RequestLogRepository {
	return &RequestLogRepository{db: db}
}

// Record appends entry to the log.
func (r *RequestLogRepository) Record(ctx context.Context, entry RequestLog) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO request_logs (method, endpoint, status_code, peer, duration_ms)
		VALUES ($1, $2, $3, $4, $5)`,
		entry.Method, entry.Endpoint, entry.StatusCode, entry.Peer, entry.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("recording request: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (r *RequestLogRepository) Recent(ctx context.Context, limit int) ([]RequestLog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, method, endpoint, status_code, peer, duration_ms, created_at
		FROM request_logs ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying request logs: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (RequestLog, error) {
		var (
			l  RequestLog
			ms int64
		)
		err := row.Scan(&l.ID, &l.Method, &l.Endpoint, &l.StatusCode, &l.Peer, &ms, &l.CreatedAt)
		l.Duration = time.Duration(ms) * time.Millisecond
		return l, err
	})
}
