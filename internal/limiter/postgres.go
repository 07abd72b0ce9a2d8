package limiter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of the pool used by PG.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PG is a PostgreSQL-backed limiter with a sliding failure window and lockout.
type PG struct {
	q        Querier
	window   time.Duration
	maxFails int
	blockFor time.Duration
	now      func() time.Time
}

// NewPG constructs a limiter over q.
func NewPG(q Querier, window time.Duration, maxFails int, blockFor time.Duration) *PG {
	return &PG{q: q, window: window, maxFails: maxFails, blockFor: blockFor, now: time.Now}
}

const (
	sqlAllow = `SELECT blocked_until FROM login_attempts WHERE username=$1 AND ip_hash=$2`

	sqlSuccess = `DELETE FROM login_attempts WHERE username=$1 AND ip_hash=$2`

	sqlFailure = `
INSERT INTO login_attempts (username, ip_hash, fail_count, window_start, blocked_until)
VALUES ($1, $2, 1, $3, 'epoch')
ON CONFLICT (username, ip_hash) DO UPDATE
SET
  fail_count   = CASE WHEN login_attempts.window_start < $3 - $4::interval THEN 1 ELSE login_attempts.fail_count + 1 END,
  window_start = CASE WHEN login_attempts.window_start < $3 - $4::interval THEN $3 ELSE login_attempts.window_start END
RETURNING fail_count`

	sqlBlock = `UPDATE login_attempts SET blocked_until=$3 WHERE username=$1 AND ip_hash=$2`
)

// Allow reports whether login is allowed now.
func (l *PG) Allow(ctx context.Context, username string, ipHash []byte) (bool, time.Duration, error) {
	var blockedUntil time.Time
	err := l.q.QueryRow(ctx, sqlAllow, username, ipHash).Scan(&blockedUntil)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return true, 0, nil
	case err != nil:
		return false, 0, err
	}
	if left := blockedUntil.Sub(l.now()); left > 0 {
		return false, left, nil
	}
	return true, 0, nil
}

// Success forgets past failures of (username, ip).
func (l *PG) Success(ctx context.Context, username string, ipHash []byte) error {
	_, err := l.q.Exec(ctx, sqlSuccess, username, ipHash)
	return err
}

// Failure counts a failed attempt and blocks once maxFails is reached inside the window.
func (l *PG) Failure(ctx context.Context, username string, ipHash []byte) (bool, time.Duration, error) {
	now := l.now()

	var fails int
	if err := l.q.QueryRow(ctx, sqlFailure, username, ipHash, now, l.window).Scan(&fails); err != nil {
		return false, 0, err
	}
	if fails < l.maxFails {
		return false, 0, nil
	}
	if _, err := l.q.Exec(ctx, sqlBlock, username, ipHash, now.Add(l.blockFor)); err != nil {
		return false, 0, err
	}
	return true, l.blockFor, nil
}
