package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/studyhub/premium-channel-bot/types"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

var (
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrPaymentNotPending is returned when a pending-only mutation hits a
	// payment that has already been decided.
	ErrPaymentNotPending = errors.New("payment is not pending")
)

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		dsn = buildPostgresDSNFromEnv()
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s := &PostgresStore{pool: pool}
	if err := s.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func buildPostgresDSNFromEnv() string {
	host := strings.TrimSpace(os.Getenv("POSTGRES_HOST"))
	if host == "" {
		host = "localhost"
	}
	port := strings.TrimSpace(os.Getenv("POSTGRES_PORT"))
	if port == "" {
		port = "5432"
	}
	db := strings.TrimSpace(os.Getenv("POSTGRES_DB"))
	if db == "" {
		db = "premium_channel_bot"
	}
	user := strings.TrimSpace(os.Getenv("POSTGRES_USER"))
	if user == "" {
		user = "premium_channel_bot"
	}
	pass := os.Getenv("POSTGRES_PASSWORD")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", urlEscape(user), urlEscape(pass), host, port, db)
}

func urlEscape(s string) string {
	r := strings.NewReplacer(
		"%", "%25",
		":", "%3A",
		"/", "%2F",
		"@", "%40",
		"?", "%3F",
		"#", "%23",
		"[", "%5B",
		"]", "%5D",
	)
	return r.Replace(s)
}

func (s *PostgresStore) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDB(*s.pool.Config().ConnConfig)
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, "migrations")
}

func (s *PostgresStore) UpsertUser(user types.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := s.pool.Exec(ctx, `
INSERT INTO users (user_id, chat_id, username, first_name, last_name, is_active)
VALUES ($1, $2, $3, $4, $5, TRUE)
ON CONFLICT (user_id) DO UPDATE SET
  chat_id = EXCLUDED.chat_id,
  username = EXCLUDED.username,
  first_name = EXCLUDED.first_name,
  last_name = EXCLUDED.last_name,
  is_active = TRUE,
  updated_at = NOW();
`, user.UserID, user.ChatID, strings.TrimSpace(user.Username), strings.TrimSpace(user.FirstName), strings.TrimSpace(user.LastName))
	return err
}

func (s *PostgresStore) GetUser(userID int64) (*types.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var u types.User
	err := s.pool.QueryRow(ctx, `
SELECT user_id, chat_id, username, first_name, last_name, is_active, created_at, updated_at
FROM users
WHERE user_id = $1
`, userID).Scan(&u.UserID, &u.ChatID, &u.Username, &u.FirstName, &u.LastName, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) CreatePayment(p types.Payment) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	id := uuid.NewString()
	_, err := s.pool.Exec(ctx, `
INSERT INTO payments (id, user_id, channel_key, amount, method, status)
VALUES ($1, $2, $3, $4, $5, $6)
`, id, p.UserID, strings.TrimSpace(p.ChannelKey), p.Amount, string(p.Method), string(types.PaymentPending))
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *PostgresStore) GetPayment(paymentID string) (*types.Payment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var p types.Payment
	err := s.pool.QueryRow(ctx, `
SELECT id, user_id, channel_key, amount, method, proof_file_id, status, created_at, updated_at
FROM payments
WHERE id = $1
`, paymentID).Scan(&p.ID, &p.UserID, &p.ChannelKey, &p.Amount, &p.Method, &p.ProofFileID, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) SetPaymentMethod(paymentID string, method types.PaymentMethod) error {
	return s.updatePendingPayment(paymentID, `
UPDATE payments
SET method = $2, updated_at = NOW()
WHERE id = $1 AND status = 'pending'
`, string(method))
}

func (s *PostgresStore) AttachProof(paymentID string, proofFileID string) error {
	return s.updatePendingPayment(paymentID, `
UPDATE payments
SET proof_file_id = $2, updated_at = NOW()
WHERE id = $1 AND status = 'pending'
`, strings.TrimSpace(proofFileID))
}

func (s *PostgresStore) updatePendingPayment(paymentID, query string, arg any) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	tag, err := s.pool.Exec(ctx, query, paymentID, arg)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return s.pendingUpdateFailure(ctx, paymentID)
	}
	return nil
}

// pendingUpdateFailure distinguishes a missing payment from a decided one
// after a conditional update matched no rows.
func (s *PostgresStore) pendingUpdateFailure(ctx context.Context, paymentID string) error {
	var status string
	err := s.pool.QueryRow(ctx, `SELECT status FROM payments WHERE id = $1`, paymentID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrPaymentNotFound
	}
	if err != nil {
		return err
	}
	return ErrPaymentNotPending
}

// ApprovePayment claims the payment (conditional pending -> approved) and
// inserts the subscription in the same transaction. Losing the claim means
// another actor already decided the payment; no subscription is created.
func (s *PostgresStore) ApprovePayment(paymentID string, expiresAt time.Time) (*types.Subscription, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var userID int64
	var channelKey string
	err = tx.QueryRow(ctx, `
UPDATE payments
SET status = 'approved', updated_at = NOW()
WHERE id = $1 AND status = 'pending'
RETURNING user_id, channel_key
`, paymentID).Scan(&userID, &channelKey)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, s.pendingUpdateFailure(ctx, paymentID)
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	subID := uuid.NewString()
	_, err = tx.Exec(ctx, `
INSERT INTO subscriptions (id, user_id, channel_key, status, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6)
`, subID, userID, channelKey, string(types.SubscriptionActive), now, expiresAt.UTC())
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &types.Subscription{
		ID:         subID,
		UserID:     userID,
		ChannelKey: channelKey,
		Status:     types.SubscriptionActive,
		CreatedAt:  now,
		ExpiresAt:  expiresAt.UTC(),
	}, nil
}

func (s *PostgresStore) RejectPayment(paymentID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	tag, err := s.pool.Exec(ctx, `
UPDATE payments
SET status = 'rejected', updated_at = NOW()
WHERE id = $1 AND status = 'pending'
`, paymentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return s.pendingUpdateFailure(ctx, paymentID)
	}
	return nil
}

func (s *PostgresStore) ListActiveSubscriptions(userID int64) ([]*types.Subscription, error) {
	return s.querySubscriptions(`
SELECT id, user_id, channel_key, status, created_at, expires_at
FROM subscriptions
WHERE user_id = $1 AND status = 'active'
ORDER BY expires_at
`, userID)
}

func (s *PostgresStore) ListExpiredSubscriptions(now time.Time) ([]*types.Subscription, error) {
	return s.querySubscriptions(`
SELECT id, user_id, channel_key, status, created_at, expires_at
FROM subscriptions
WHERE status = 'active' AND expires_at < $1
ORDER BY expires_at
`, now.UTC())
}

func (s *PostgresStore) ListSubscriptionsExpiring(from, to time.Time) ([]*types.Subscription, error) {
	return s.querySubscriptions(`
SELECT id, user_id, channel_key, status, created_at, expires_at
FROM subscriptions
WHERE status = 'active' AND expires_at >= $1 AND expires_at <= $2
ORDER BY expires_at
`, from.UTC(), to.UTC())
}

func (s *PostgresStore) querySubscriptions(query string, args ...any) ([]*types.Subscription, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := make([]*types.Subscription, 0)
	for rows.Next() {
		var sub types.Subscription
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.ChannelKey, &sub.Status, &sub.CreatedAt, &sub.ExpiresAt); err != nil {
			return nil, err
		}
		subs = append(subs, &sub)
	}
	return subs, rows.Err()
}

func (s *PostgresStore) MarkSubscriptionExpired(subscriptionID string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	tag, err := s.pool.Exec(ctx, `
UPDATE subscriptions
SET status = 'expired'
WHERE id = $1 AND status = 'active'
`, subscriptionID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
