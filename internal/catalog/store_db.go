package catalog

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
	pgUniqueCode = "23505"
)

// PostgresStore keeps insertion order with a sequence column and enforces
// the (name, brand_id) rule with a unique index, so duplicate inserts fail
// inside the database instead of in a read-then-write scan.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Init creates the schema and the seed rows. Safe to run on every start.
func (s *PostgresStore) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS brands (
			seq  BIGSERIAL,
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			seq         BIGSERIAL,
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			price       NUMERIC(12,2) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			image       TEXT NOT NULL DEFAULT '',
			brand_id    TEXT NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS products_name_brand_id_key
			ON products (name, brand_id)`,
	}
	for _, q := range stmts {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}

	for _, b := range seedBrands() {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO brands (id, name)
			VALUES ($1, $2)
			ON CONFLICT (id) DO NOTHING
		`, b.ID, b.Name)
		if err != nil {
			return err
		}
	}
	for _, p := range seedProducts() {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO products (id, name, price, description, image, brand_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO NOTHING
		`, p.ID, p.Name, p.Price, p.Description, p.Image, p.BrandID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) ListBrands(ctx context.Context) ([]Brand, error) {
	var out []Brand

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, name
			FROM brands
			ORDER BY seq ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Brand, 0, 8)
		for rows.Next() {
			var b Brand
			if err := rows.Scan(&b.ID, &b.Name); err != nil {
				return err
			}
			out = append(out, b)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) ListProducts(ctx context.Context) ([]Product, error) {
	var out []Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, name, price, description, image, brand_id
			FROM products
			ORDER BY seq ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Product, 0, 16)
		for rows.Next() {
			var p Product
			if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Image, &p.BrandID); err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) InsertProduct(ctx context.Context, candidate Product) (Product, error) {
	candidate.ID = "p_" + uuid.NewString()

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO products (id, name, price, description, image, brand_id)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, candidate.ID, candidate.Name, candidate.Price, candidate.Description, candidate.Image, candidate.BrandID)

		if err == nil {
			return nil
		}
		if isUniqueViolation(err) {
			return ErrDuplicateProduct
		}
		return err
	})

	if err != nil {
		return Product{}, err
	}
	return candidate, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueCode
}
