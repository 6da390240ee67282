package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the subset of pgxpool.Pool the store uses. pgxmock satisfies it in
// tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists content rows in PostgreSQL.
type PostgresStore struct {
	db DB
}

// NewPostgresStore creates a store backed by a pgx pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("content: pgx pool required")
	}
	return &PostgresStore{db: pool}
}

// NewPostgresStoreWithDB allows injecting mocks for tests.
func NewPostgresStoreWithDB(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Setting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRow(ctx, `SELECT value FROM site_settings WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("content: load setting %s: %w", key, err)
	}
	return value, nil
}

func (s *PostgresStore) UpsertSetting(ctx context.Context, key, value string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO site_settings (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value)
	if err != nil {
		return fmt.Errorf("content: upsert setting %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) ServiceDurations(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.Query(ctx, `SELECT item_name, duration_minutes FROM price_list`)
	if err != nil {
		return nil, fmt.Errorf("content: load price list: %w", err)
	}
	defer rows.Close()

	durations := make(map[string]int)
	for rows.Next() {
		var name string
		var minutes *int
		if err := rows.Scan(&name, &minutes); err != nil {
			return nil, fmt.Errorf("content: scan price list row: %w", err)
		}
		if minutes == nil || *minutes <= 0 {
			durations[name] = DefaultServiceDuration
			continue
		}
		durations[name] = *minutes
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("content: iterate price list: %w", err)
	}
	return durations, nil
}

func (s *PostgresStore) UpsertService(ctx context.Context, svc Service) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO price_list (item_name, duration_minutes)
		VALUES ($1, $2)
		ON CONFLICT (item_name) DO UPDATE SET duration_minutes = EXCLUDED.duration_minutes`,
		svc.Name, svc.DurationMinutes)
	if err != nil {
		return fmt.Errorf("content: upsert service %s: %w", svc.Name, err)
	}
	return nil
}

func (s *PostgresStore) Stylists(ctx context.Context) ([]Stylist, error) {
	rows, err := s.db.Query(ctx, `
		SELECT stylist_name, role, COALESCE(image_url, '/placeholder.png'), calendar_id
		FROM stylist_calendars
		ORDER BY stylist_name`)
	if err != nil {
		return nil, fmt.Errorf("content: load stylists: %w", err)
	}
	defer rows.Close()

	var stylists []Stylist
	for rows.Next() {
		var st Stylist
		if err := rows.Scan(&st.Name, &st.Role, &st.ImageURL, &st.CalendarID); err != nil {
			return nil, fmt.Errorf("content: scan stylist row: %w", err)
		}
		stylists = append(stylists, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("content: iterate stylists: %w", err)
	}
	return stylists, nil
}

func (s *PostgresStore) UpsertStylist(ctx context.Context, st Stylist) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO stylist_calendars (stylist_name, role, image_url, calendar_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (stylist_name) DO UPDATE
		SET role = EXCLUDED.role, image_url = EXCLUDED.image_url, calendar_id = EXCLUDED.calendar_id`,
		st.Name, st.Role, st.ImageURL, st.CalendarID)
	if err != nil {
		return fmt.Errorf("content: upsert stylist %s: %w", st.Name, err)
	}
	return nil
}
