package booking_models

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

const bookingColumns = `id, service_id, customer_id, provider_id, service_title, status, booking_date,
	customer_address, customer_phone, special_requests, total_amount, created_at, updated_at`

// PgStore persists bookings in Postgres.
type PgStore struct {
	db *pgxpool.Pool
}

func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var (
		b      Booking
		status string
		amount int64
	)
	err := row.Scan(
		&b.ID,
		&b.ServiceID,
		&b.CustomerID,
		&b.ProviderID,
		&b.ServiceTitle,
		&status,
		&b.BookingDate,
		&b.CustomerAddress,
		&b.CustomerPhone,
		&b.SpecialRequests,
		&amount,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Status = Status(status)
	b.TotalAmount = shared_models.Money(amount)
	return &b, nil
}

// Create locks the service row so concurrent creates on the same service
// see each other's inserts before checking for conflicts.
func (s *PgStore) Create(ctx context.Context, b *Booking) error {
	logger.InfoLogger.Infof("Attempting to create booking %s for service %s", b.ID, b.ServiceID)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin booking transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var locked uuid.UUID
	if err := tx.QueryRow(ctx, `SELECT id FROM services WHERE id = $1 FOR UPDATE`, b.ServiceID).Scan(&locked); err != nil {
		return fmt.Errorf("lock service %s: %w", b.ServiceID, err)
	}

	active := statusStrings(ActiveStatuses)

	var sameCustomer, sameSlot bool
	err = tx.QueryRow(ctx, `
		SELECT
			EXISTS (SELECT 1 FROM bookings WHERE service_id = $1 AND customer_id = $2 AND status = ANY($4)),
			EXISTS (SELECT 1 FROM bookings WHERE service_id = $1 AND booking_date = $3 AND status = ANY($4))`,
		b.ServiceID, b.CustomerID, b.BookingDate, active,
	).Scan(&sameCustomer, &sameSlot)
	if err != nil {
		return fmt.Errorf("check booking conflicts: %w", err)
	}
	if sameCustomer {
		return ErrActiveBookingExists
	}
	if sameSlot {
		return ErrSlotTaken
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		b.ID, b.ServiceID, b.CustomerID, b.ProviderID, b.ServiceTitle, string(b.Status), b.BookingDate,
		b.CustomerAddress, b.CustomerPhone, b.SpecialRequests, int64(b.TotalAmount), b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to insert booking %s: %v", b.ID, err)
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit booking: %w", err)
	}
	logger.InfoLogger.Infof("Booking with ID %s created successfully", b.ID)
	return nil
}

func (s *PgStore) Get(ctx context.Context, id uuid.UUID) (*Booking, error) {
	b, err := scanBooking(s.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		logger.ErrorLogger.Errorf("Failed to fetch booking %s: %v", id, err)
		return nil, fmt.Errorf("database error fetching booking: %w", err)
	}
	return b, nil
}

func (s *PgStore) List(ctx context.Context, f Filter) ([]Booking, error) {
	var (
		where []string
		args  []any
	)
	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if f.CustomerID != uuid.Nil {
		add("customer_id = $%d", f.CustomerID)
	}
	if f.ProviderID != uuid.Nil {
		add("provider_id = $%d", f.ProviderID)
	}
	if f.ServiceID != uuid.Nil {
		add("service_id = $%d", f.ServiceID)
	}
	if len(f.Statuses) > 0 {
		add("status = ANY($%d)", statusStrings(f.Statuses))
	}
	if f.DateFrom != nil {
		add("booking_date >= $%d", *f.DateFrom)
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if f.Order == OrderBookingDateAsc {
		query += " ORDER BY booking_date ASC"
	} else {
		query += " ORDER BY created_at DESC, id DESC"
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to list bookings: %v", err)
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	defer rows.Close()

	out := make([]Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// CompareAndSetStatus updates the row only while it still holds from. An
// empty result is disambiguated into not-found versus lost race.
func (s *PgStore) CompareAndSetStatus(ctx context.Context, id uuid.UUID, from, to Status, at time.Time) (*Booking, error) {
	b, err := scanBooking(s.db.QueryRow(ctx, `
		UPDATE bookings SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2
		RETURNING `+bookingColumns,
		id, string(from), string(to), at,
	))
	if err == nil {
		logger.InfoLogger.Infof("Booking %s status updated %s -> %s", id, from, to)
		return b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		logger.ErrorLogger.Errorf("Failed to update booking %s status: %v", id, err)
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	if _, getErr := s.Get(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, ErrStatusChanged
}

func (s *PgStore) UpdateDetails(ctx context.Context, id uuid.UUID, status Status, u DetailsUpdate, at time.Time) (*Booking, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin booking transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := scanBooking(tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("lock booking %s: %w", id, err)
	}
	if current.Status != status {
		return nil, ErrStatusChanged
	}

	if u.BookingDate != nil {
		var taken bool
		err := tx.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM bookings
			WHERE service_id = $1 AND id <> $2 AND booking_date = $3 AND status = ANY($4))`,
			current.ServiceID, id, *u.BookingDate, statusStrings(ActiveStatuses),
		).Scan(&taken)
		if err != nil {
			return nil, fmt.Errorf("check slot: %w", err)
		}
		if taken {
			return nil, ErrSlotTaken
		}
	}

	u.apply(current)
	current.UpdatedAt = at
	_, err = tx.Exec(ctx, `
		UPDATE bookings
		SET booking_date = $2, customer_address = $3, customer_phone = $4, special_requests = $5, updated_at = $6
		WHERE id = $1`,
		id, current.BookingDate, current.CustomerAddress, current.CustomerPhone, current.SpecialRequests, at,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit booking update: %w", err)
	}
	return current, nil
}

func statusStrings(in []Status) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}
