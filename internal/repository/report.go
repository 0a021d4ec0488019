package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nikan-clinic/frontdesk/internal/domain"
)

// ReportFilter narrows report queries. Nil fields match everything.
type ReportFilter struct {
	Start        *time.Time
	End          *time.Time
	DoctorID     *uuid.UUID
	ClinicID     *uuid.UUID
	SurgeryID    *uuid.UUID
	ConsultantID *uuid.UUID
	CardID       *uuid.UUID
	Status       *domain.SettlementStatus
}

// CardTotal is the deposit sum collected on one bank card.
type CardTotal struct {
	CardID       uuid.UUID
	MaskedNumber string
	OwnerName    string
	Total        domain.Money
}

// ConsultantTotal is the deposit sum attributed to one consultant's bookings.
type ConsultantTotal struct {
	ConsultantID uuid.UUID
	Name         string
	Total        domain.Money
}

// ReportRepository runs the aggregation queries behind the reports tab.
// Sums are computed in SQL over the payment rows, never read from a
// stored total.
type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// clause builds the WHERE clause for booking-level filters. The returned
// args start at placeholder $1.
func (f ReportFilter) clause() (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Start != nil {
		add("b.surgery_date >= $%d", *f.Start)
	}
	if f.End != nil {
		add("b.surgery_date <= $%d", *f.End)
	}
	if f.DoctorID != nil {
		add("b.doctor_id = $%d", *f.DoctorID)
	}
	if f.ClinicID != nil {
		add("b.clinic_id = $%d", *f.ClinicID)
	}
	if f.SurgeryID != nil {
		add("b.surgery_id = $%d", *f.SurgeryID)
	}
	if f.ConsultantID != nil {
		add("b.consultant_id = $%d", *f.ConsultantID)
	}
	if f.Status != nil {
		add("b.status = $%d", *f.Status)
	}
	if f.CardID != nil {
		add("EXISTS (SELECT 1 FROM payments cp WHERE cp.booking_id = b.id AND cp.card_id = $%d)", *f.CardID)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Bookings returns the filtered booking rows, ordered by surgery date.
func (r *ReportRepository) Bookings(ctx context.Context, f ReportFilter) ([]domain.Booking, error) {
	where, args := f.clause()

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings b`+where+` ORDER BY b.surgery_date, b.time_slot`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("Bookings: %w", err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("Bookings: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Bookings: %w", err)
	}
	return bookings, nil
}

// CardTotals sums the deposits of the filtered bookings per bank card.
func (r *ReportRepository) CardTotals(ctx context.Context, f ReportFilter) ([]CardTotal, error) {
	where, args := f.clause()

	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.masked_number, c.owner_name, COALESCE(SUM(p.amount), 0)
		FROM payments p
		JOIN bank_cards c ON c.id = p.card_id
		JOIN bookings b ON b.id = p.booking_id`+where+`
		GROUP BY c.id, c.masked_number, c.owner_name
		ORDER BY SUM(p.amount) DESC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("CardTotals: %w", err)
	}
	defer rows.Close()

	var totals []CardTotal
	for rows.Next() {
		var t CardTotal
		var total int64
		if err := rows.Scan(&t.CardID, &t.MaskedNumber, &t.OwnerName, &total); err != nil {
			return nil, fmt.Errorf("CardTotals: %w", err)
		}
		t.Total = domain.Money(total)
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("CardTotals: %w", err)
	}
	return totals, nil
}

// ConsultantTotals sums the deposits of the filtered bookings per consultant.
func (r *ReportRepository) ConsultantTotals(ctx context.Context, f ReportFilter) ([]ConsultantTotal, error) {
	where, args := f.clause()

	rows, err := r.db.QueryContext(ctx,
		`SELECT co.id, co.name, COALESCE(SUM(p.amount), 0)
		FROM payments p
		JOIN bookings b ON b.id = p.booking_id
		JOIN consultants co ON co.id = b.consultant_id`+where+`
		GROUP BY co.id, co.name
		ORDER BY SUM(p.amount) DESC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("ConsultantTotals: %w", err)
	}
	defer rows.Close()

	var totals []ConsultantTotal
	for rows.Next() {
		var t ConsultantTotal
		var total int64
		if err := rows.Scan(&t.ConsultantID, &t.Name, &total); err != nil {
			return nil, fmt.Errorf("ConsultantTotals: %w", err)
		}
		t.Total = domain.Money(total)
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ConsultantTotals: %w", err)
	}
	return totals, nil
}

// DepositsBetween sums deposits by payment date, inclusive bounds.
func (r *ReportRepository) DepositsBetween(ctx context.Context, from, to time.Time) (domain.Money, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE paid_at >= $1 AND paid_at < $2`,
		from, to,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("DepositsBetween: %w", err)
	}
	return domain.Money(total), nil
}

// OutstandingBetween sums (price - paid) over unsettled bookings whose
// surgery date falls in the range. Recomputed from payment rows, so a
// stale status column cannot skew the figure.
func (r *ReportRepository) OutstandingBetween(ctx context.Context, from, to time.Time) (domain.Money, int, error) {
	var total int64
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(b.price - paid.total), 0), COUNT(*)
		FROM bookings b
		CROSS JOIN LATERAL (
			SELECT COALESCE(SUM(p.amount), 0) AS total FROM payments p WHERE p.booking_id = b.id
		) paid
		WHERE b.surgery_date >= $1 AND b.surgery_date <= $2 AND paid.total < b.price`,
		from, to,
	).Scan(&total, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("OutstandingBetween: %w", err)
	}
	return domain.Money(total), count, nil
}

// BookingsBetween counts bookings by surgery date, inclusive bounds.
func (r *ReportRepository) BookingsBetween(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE surgery_date >= $1 AND surgery_date <= $2`,
		from, to,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("BookingsBetween: %w", err)
	}
	return n, nil
}
