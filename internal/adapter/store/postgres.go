package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bmp-ai/brandhub/internal/domain"
	"github.com/bmp-ai/brandhub/internal/port"
)

// PostgresStore handles all relational database operations: the
// partner/client registry and the audit trail.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection and returns a store instance.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// --- Partner/client registry ---

// ListPartnerClients returns all clients registered under a partner.
func (s *PostgresStore) ListPartnerClients(ctx context.Context, partner string) ([]domain.ClientAccess, error) {
	query := `SELECT partner_slug, client_slug, client_name
	          FROM partner_clients WHERE partner_slug = $1 ORDER BY client_slug`

	rows, err := s.db.QueryContext(ctx, query, partner)
	if err != nil {
		return nil, fmt.Errorf("list partner clients: %w", err)
	}
	defer rows.Close()

	var clients []domain.ClientAccess
	for rows.Next() {
		var c domain.ClientAccess
		if err := rows.Scan(&c.PartnerSlug, &c.ClientSlug, &c.ClientName); err != nil {
			return nil, fmt.Errorf("scan partner client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// GetPartnerClient returns one registered (partner, client) pair, or
// port.ErrNotFound when the pair is unknown.
func (s *PostgresStore) GetPartnerClient(ctx context.Context, partner, client string) (*domain.ClientAccess, error) {
	query := `SELECT partner_slug, client_slug, client_name
	          FROM partner_clients WHERE partner_slug = $1 AND client_slug = $2`

	var c domain.ClientAccess
	err := s.db.QueryRowContext(ctx, query, partner, client).Scan(
		&c.PartnerSlug, &c.ClientSlug, &c.ClientName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("partner client %s/%s: %w", partner, client, port.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get partner client: %w", err)
	}
	return &c, nil
}

// --- Audit logs ---

// WriteAudit implements middleware.AuditWriter.
func (s *PostgresStore) WriteAudit(userID, action, resource, resourceID, details, ip, userAgent string) error {
	query := `INSERT INTO audit_logs (user_id, action, resource, resource_id, details, ip, user_agent)
	          VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7)`
	_, err := s.db.ExecContext(context.Background(), query,
		userID, action, resource, resourceID, details, ip, userAgent,
	)
	return err
}

// ListAuditLogs returns recent audit logs with optional filters.
func (s *PostgresStore) ListAuditLogs(ctx context.Context, limit int, action string) ([]domain.AuditLog, error) {
	query := `SELECT id, user_id, action, resource, resource_id, details, ip, user_agent, created_at
	          FROM audit_logs`
	args := []interface{}{}
	argIdx := 1

	if action != "" {
		query += fmt.Sprintf(" WHERE action = $%d", argIdx)
		args = append(args, action)
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.AuditLog
	for rows.Next() {
		var l domain.AuditLog
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.Action, &l.Resource, &l.ResourceID,
			&l.Details, &l.IP, &l.UserAgent, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
