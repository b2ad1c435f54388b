package service_models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/fixitnow/logger"
	"github.com/joy095/fixitnow/models/shared_models"
)

const serviceColumns = `id, provider_id, title, description, category, province, price,
	availability_status, created_at, updated_at`

type PgStore struct {
	db *pgxpool.Pool
}

func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

func scanService(row pgx.Row) (*Service, error) {
	var (
		s            Service
		price        int64
		availability string
	)
	err := row.Scan(
		&s.ID,
		&s.ProviderID,
		&s.Title,
		&s.Description,
		&s.Category,
		&s.Province,
		&price,
		&availability,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Price = shared_models.Money(price)
	s.AvailabilityStatus = Availability(availability)
	return &s, nil
}

// Create inserts a new service record into the database.
func (p *PgStore) Create(ctx context.Context, s *Service) error {
	logger.InfoLogger.Info("Attempting to create service record in database")

	_, err := p.db.Exec(ctx, `
		INSERT INTO services (`+serviceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.ProviderID, s.Title, s.Description, s.Category, s.Province,
		int64(s.Price), string(s.AvailabilityStatus), s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to insert service into database: %v", err)
		return fmt.Errorf("failed to create service: %w", err)
	}

	logger.InfoLogger.Infof("Service with ID %s created successfully", s.ID)
	return nil
}

func (p *PgStore) Get(ctx context.Context, id uuid.UUID) (*Service, error) {
	s, err := scanService(p.db.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		logger.ErrorLogger.Errorf("Failed to fetch service %s: %v", id, err)
		return nil, fmt.Errorf("database error fetching service: %w", err)
	}
	return s, nil
}

func (p *PgStore) List(ctx context.Context, f Filter) ([]Service, error) {
	var (
		where []string
		args  []any
	)
	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if f.Category != "" {
		add("LOWER(category) = LOWER($%d)", f.Category)
	}
	if f.Province != "" {
		add("LOWER(province) = LOWER($%d)", f.Province)
	}
	if f.ProviderID != uuid.Nil {
		add("provider_id = $%d", f.ProviderID)
	}
	if f.AvailableOnly {
		add("availability_status = $%d", string(Available))
	}
	if len(f.ExcludeIDs) > 0 {
		add("NOT (id = ANY($%d))", f.ExcludeIDs)
	}

	query := `SELECT ` + serviceColumns + ` FROM services`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to list services: %v", err)
		return nil, fmt.Errorf("failed to fetch services: %w", err)
	}
	defer rows.Close()

	out := make([]Service, 0)
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (p *PgStore) UpdatePrice(ctx context.Context, id uuid.UUID, price shared_models.Money, at time.Time) (*Service, error) {
	return p.update(ctx, `UPDATE services SET price = $2, updated_at = $3 WHERE id = $1 RETURNING `+serviceColumns,
		id, int64(price), at)
}

func (p *PgStore) SetAvailability(ctx context.Context, id uuid.UUID, a Availability, at time.Time) (*Service, error) {
	return p.update(ctx, `UPDATE services SET availability_status = $2, updated_at = $3 WHERE id = $1 RETURNING `+serviceColumns,
		id, string(a), at)
}

func (p *PgStore) update(ctx context.Context, query string, args ...any) (*Service, error) {
	s, err := scanService(p.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		logger.ErrorLogger.Errorf("Failed to update service: %v", err)
		return nil, fmt.Errorf("failed to update service: %w", err)
	}
	return s, nil
}
