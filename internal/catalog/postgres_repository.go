package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// db is the subset of pgxpool.Pool the repository needs; pgxmock satisfies
// it in tests.
type db interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores the catalog in the relational database.
type PostgresRepository struct {
	db db
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(db db) *PostgresRepository {
	if db == nil {
		panic("catalog: pgx pool required")
	}
	return &PostgresRepository{db: db}
}

const serviceColumns = `id, name, description, category, price, duration_minutes, created_at`

func scanService(row pgx.Row) (*Service, error) {
	var svc Service
	if err := row.Scan(
		&svc.ID,
		&svc.Name,
		&svc.Description,
		&svc.Category,
		&svc.Price,
		&svc.DurationMinutes,
		&svc.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`
	svc, err := scanService(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("catalog: select service: %w", err)
	}
	return svc, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services ORDER BY category, price, name`
	return r.queryServices(ctx, query)
}

func (r *PostgresRepository) ListBookable(ctx context.Context) ([]*Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE category != 'addon' ORDER BY category, price, name`
	return r.queryServices(ctx, query)
}

func (r *PostgresRepository) ListByCategory(ctx context.Context, category Category) ([]*Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE category = $1 ORDER BY price, name`
	return r.queryServices(ctx, query, category)
}

func (r *PostgresRepository) FindByHint(ctx context.Context, hint string) (*Service, error) {
	hint = strings.ToLower(strings.TrimSpace(hint))
	if hint == "" {
		return nil, ErrServiceNotFound
	}
	query := `
		SELECT ` + serviceColumns + `
		FROM services
		WHERE category != 'addon'
		  AND (LOWER(name) LIKE $1 OR category LIKE $1)
		ORDER BY price, name
		LIMIT 1
	`
	svc, err := scanService(r.db.QueryRow(ctx, query, "%"+hint+"%"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("catalog: find by hint: %w", err)
	}
	return svc, nil
}

func (r *PostgresRepository) CheapestByCategory(ctx context.Context, category Category) (*Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE category = $1 ORDER BY price, name LIMIT 1`
	svc, err := scanService(r.db.QueryRow(ctx, query, category))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("catalog: cheapest by category: %w", err)
	}
	return svc, nil
}

func (r *PostgresRepository) FindExpressAddon(ctx context.Context) (*Service, error) {
	query := `
		SELECT ` + serviceColumns + `
		FROM services
		WHERE category = 'addon' AND name ILIKE '%express%'
		ORDER BY created_at
		LIMIT 1
	`
	svc, err := scanService(r.db.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExpressAddonNotConfigured
		}
		return nil, fmt.Errorf("catalog: find express addon: %w", err)
	}
	return svc, nil
}

func (r *PostgresRepository) Create(ctx context.Context, req *CreateServiceRequest) (*Service, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	query := `
		INSERT INTO services (id, name, description, category, price, duration_minutes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + serviceColumns
	svc, err := scanService(r.db.QueryRow(ctx, query,
		id,
		req.Name,
		req.Description,
		req.Category,
		req.Price,
		req.DurationMinutes,
	))
	if err != nil {
		return nil, fmt.Errorf("catalog: insert service: %w", err)
	}
	return svc, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, req *UpdateServiceRequest) (*Service, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	query := `
		UPDATE services
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    category = COALESCE($4, category),
		    price = COALESCE($5, price),
		    duration_minutes = COALESCE($6, duration_minutes)
		WHERE id = $1
		RETURNING ` + serviceColumns
	svc, err := scanService(r.db.QueryRow(ctx, query,
		id,
		req.Name,
		req.Description,
		req.Category,
		req.Price,
		req.DurationMinutes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("catalog: update service: %w", err)
	}
	return svc, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	var referenced bool
	if err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE service_id = $1)`, id,
	).Scan(&referenced); err != nil {
		return fmt.Errorf("catalog: check references: %w", err)
	}
	if referenced {
		return ErrServiceReferenced
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("catalog: delete service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrServiceNotFound
	}
	return nil
}

func (r *PostgresRepository) queryServices(ctx context.Context, query string, args ...any) ([]*Service, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: list services: %w", err)
	}
	defer rows.Close()

	var out []*Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: scan service: %w", err)
		}
		out = append(out, svc)
	}
	return out, rows.Err()
}
