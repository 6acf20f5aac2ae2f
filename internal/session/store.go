// Package session maps opaque browser tokens to signed-in user ids. Sessions
// live in the same SQLite database as the rest of the data, so they survive
// restarts and expire on a defined schedule rather than with the process.
package session

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"holidays/internal/core"
)

// Store persists session tokens with a fixed TTL.
type Store struct {
	db  *sql.DB
	ttl time.Duration
}

func NewStore(db *sql.DB, ttl time.Duration) *Store {
	return &Store{db: db, ttl: ttl}
}

// TTL returns the configured session lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// generateToken returns a 128-bit hex token.
func generateToken() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// Create establishes a session for the user and returns its token.
func (s *Store) Create(ctx context.Context, userID int64) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}

	expiresAt := time.Now().Add(s.ttl)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)`,
		token, userID, expiresAt,
	)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	slog.InfoContext(ctx, "Session created", "user_id", userID, "expires_at", expiresAt)
	return token, nil
}

// UserID resolves a token to the signed-in user id. Expired or unknown
// tokens yield core.ErrUnauthorized.
func (s *Store) UserID(ctx context.Context, token string) (int64, error) {
	var (
		userID    int64
		expiresAt time.Time
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, expires_at FROM sessions WHERE token = ?`, token).
		Scan(&userID, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("session: %w", core.ErrUnauthorized)
	}
	if err != nil {
		return 0, fmt.Errorf("look up session: %w", err)
	}

	if time.Now().After(expiresAt) {
		// Lazily drop the stale row; the cleanup loop would get it anyway.
		_, _ = s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
		return 0, fmt.Errorf("session expired: %w", core.ErrUnauthorized)
	}

	return userID, nil
}

// Delete removes a session. Deleting an unknown token is not an error.
func (s *Store) Delete(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired purges all expired sessions and returns how many were removed.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("expired sessions rows: %w", err)
	}
	return removed, nil
}

// CleanupLoop periodically purges expired sessions until ctx is done.
func (s *Store) CleanupLoop(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			removed, err := s.DeleteExpired(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "Session cleanup failed", "error", err)
				continue
			}
			if removed > 0 {
				slog.DebugContext(ctx, "Session cleanup completed", "removed", removed)
			}
		}
	}
}
