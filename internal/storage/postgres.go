package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fooddash/fooddash/internal/models"
)

// PostgresStore keeps the snapshot in Postgres: one row per order with the
// full record as JSONB, plus a single counter row. The whole snapshot is
// still written per mutation, inside one transaction.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.createTables(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) createTables(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS orders (
            id BIGINT PRIMARY KEY,
            payload JSONB NOT NULL
        );
        CREATE TABLE IF NOT EXISTS order_counter (
            id INT PRIMARY KEY CHECK (id = 1),
            value BIGINT NOT NULL
        );
    `)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}

	rows, err := s.pool.Query(ctx, `SELECT payload FROM orders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		order := &models.Order{}
		if err := json.Unmarshal(payload, order); err != nil {
			return nil, fmt.Errorf("%w: order payload: %v", ErrCorruptData, err)
		}
		snap.Orders = append(snap.Orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order rows: %w", err)
	}

	err = s.pool.QueryRow(ctx, `SELECT value FROM order_counter WHERE id = 1`).Scan(&snap.Counter)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to read counter: %w", err)
	}
	return snap, nil
}

func (s *PostgresStore) Save(ctx context.Context, snap *Snapshot) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, order := range snap.Orders {
		payload, err := json.Marshal(order)
		if err != nil {
			return fmt.Errorf("failed to encode order %d: %w", order.ID, err)
		}
		_, err = tx.Exec(ctx, `
            INSERT INTO orders (id, payload) VALUES ($1, $2)
            ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload
        `, order.ID, payload)
		if err != nil {
			return fmt.Errorf("failed to upsert order %d: %w", order.ID, err)
		}
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO order_counter (id, value) VALUES (1, $1)
        ON CONFLICT (id) DO UPDATE SET value = EXCLUDED.value
    `, snap.Counter)
	if err != nil {
		return fmt.Errorf("failed to upsert counter: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}
