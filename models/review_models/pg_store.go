package review_models

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/fixitnow/logger"
)

const reviewColumns = `id, customer_id, provider_id, booking_id, rating, comment, created_at, updated_at`

const uniqueViolation = "23505"

type PgStore struct {
	db *pgxpool.Pool
}

func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

func scanReview(row pgx.Row) (*Review, error) {
	var r Review
	err := row.Scan(&r.ID, &r.CustomerID, &r.ProviderID, &r.BookingID, &r.Rating, &r.Comment, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (p *PgStore) Create(ctx context.Context, r *Review) error {
	_, err := p.db.Exec(ctx, `
		INSERT INTO reviews (`+reviewColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID, r.CustomerID, r.ProviderID, r.BookingID, r.Rating, r.Comment, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateReview
		}
		logger.ErrorLogger.Errorf("Failed to insert review: %v", err)
		return fmt.Errorf("failed to create review: %w", err)
	}
	logger.InfoLogger.Infof("Review %s created for provider %s", r.ID, r.ProviderID)
	return nil
}

func (p *PgStore) Get(ctx context.Context, id uuid.UUID) (*Review, error) {
	r, err := scanReview(p.db.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("database error fetching review: %w", err)
	}
	return r, nil
}

func (p *PgStore) List(ctx context.Context, f Filter) ([]Review, error) {
	var (
		where []string
		args  []any
	)
	if f.CustomerID != uuid.Nil {
		args = append(args, f.CustomerID)
		where = append(where, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if f.ProviderID != uuid.Nil {
		args = append(args, f.ProviderID)
		where = append(where, fmt.Sprintf("provider_id = $%d", len(args)))
	}
	query := `SELECT ` + reviewColumns + ` FROM reviews`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to list reviews: %v", err)
		return nil, fmt.Errorf("failed to fetch reviews: %w", err)
	}
	defer rows.Close()

	out := make([]Review, 0)
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (p *PgStore) Update(ctx context.Context, r *Review) error {
	tag, err := p.db.Exec(ctx, `UPDATE reviews SET rating = $2, comment = $3, updated_at = $4 WHERE id = $1`,
		r.ID, r.Rating, r.Comment, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (p *PgStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrReviewNotFound
	}
	logger.InfoLogger.Infof("Review %s deleted", id)
	return nil
}
