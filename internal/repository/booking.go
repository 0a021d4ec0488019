package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/nikan-clinic/frontdesk/internal/domain"
)

const bookingColumns = `id, patient_name, national_code, phone, surgery_id, price,
	surgery_date, time_slot, doctor_id, consultant_id, clinic_id,
	documents, notes, status, created_at, updated_at`

type BookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, tx *sql.Tx, b *domain.Booking) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (
			id, patient_name, national_code, phone, surgery_id, price,
			surgery_date, time_slot, doctor_id, consultant_id, clinic_id,
			documents, notes, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		b.ID, b.PatientName, b.NationalCode, b.Phone, b.SurgeryID, int64(b.Price),
		b.SurgeryDate, b.TimeSlot, b.DoctorID, b.ConsultantID, b.ClinicID,
		pq.Array(b.Documents), b.Notes, b.Status, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id,
	)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return b, nil
}

// GetForUpdate locks the booking row for the duration of the transaction.
// This is what serializes concurrent front-desk edits of one booking.
func (r *BookingRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Booking, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id,
	)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return b, nil
}

// UpdateLedgerState mirrors the engine's post-mutation snapshot onto the
// booking row. Price and status are the only stored ledger fields; totals
// are always recomputed from the payment rows.
func (r *BookingRepository) UpdateLedgerState(ctx context.Context, tx *sql.Tx, id uuid.UUID, price domain.Money, status domain.SettlementStatus) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET price = $1, status = $2, updated_at = now() WHERE id = $3`,
		int64(price), status, id,
	)
	if err != nil {
		return fmt.Errorf("UpdateLedgerState: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateLedgerState: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateLedgerState: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *BookingRepository) AddDocument(ctx context.Context, id uuid.UUID, ref string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET documents = array_append(documents, $1), updated_at = now() WHERE id = $2`,
		ref, id,
	)
	if err != nil {
		return fmt.Errorf("AddDocument: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("AddDocument: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("AddDocument: %w", domain.ErrNotFound)
	}
	return nil
}

// ListBetween returns bookings whose surgery date falls in [from, to],
// ordered by date then slot.
func (r *BookingRepository) ListBetween(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		WHERE surgery_date >= $1 AND surgery_date <= $2
		ORDER BY surgery_date, time_slot`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("ListBetween: %w", err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("ListBetween: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListBetween: %w", err)
	}
	return bookings, nil
}

// CountByClinicDate counts bookings for one clinic on one calendar day,
// inside the caller's transaction so admission capacity checks cannot race.
func (r *BookingRepository) CountByClinicDate(ctx context.Context, tx *sql.Tx, clinicID uuid.UUID, date time.Time) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT count(*) FROM bookings WHERE clinic_id = $1 AND surgery_date = $2`,
		clinicID, date,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("CountByClinicDate: %w", err)
	}
	return n, nil
}

func (r *BookingRepository) SlotTaken(ctx context.Context, tx *sql.Tx, clinicID uuid.UUID, date time.Time, slot string) (bool, error) {
	var taken bool
	err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM bookings WHERE clinic_id = $1 AND surgery_date = $2 AND time_slot = $3
		)`,
		clinicID, date, slot,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("SlotTaken: %w", err)
	}
	return taken, nil
}

func scanBooking(s scanner) (*domain.Booking, error) {
	var b domain.Booking
	var price int64
	var documents pq.StringArray
	var notes sql.NullString

	err := s.Scan(
		&b.ID, &b.PatientName, &b.NationalCode, &b.Phone, &b.SurgeryID, &price,
		&b.SurgeryDate, &b.TimeSlot, &b.DoctorID, &b.ConsultantID, &b.ClinicID,
		&documents, &notes, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Price = domain.Money(price)
	b.Documents = documents
	if notes.Valid {
		b.Notes = &notes.String
	}

	return &b, nil
}
