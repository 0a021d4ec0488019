package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/nikan-clinic/frontdesk/internal/domain"
)

const paymentColumns = `id, booking_id, amount, card_id, paid_at, receipt_ref, created_at`

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, tx *sql.Tx, p *domain.Payment) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO payments (id, booking_id, amount, card_id, paid_at, receipt_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.BookingID, int64(p.Amount), p.CardID, p.PaidAt, p.ReceiptRef, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// Delete hard-deletes one deposit. Removal is permanent: an amended
// deposit is a new record with a new id.
func (r *PaymentRepository) Delete(ctx context.Context, tx *sql.Tx, id uuid.UUID) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// ListByBooking returns a booking's deposits in insertion order.
func (r *PaymentRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]domain.Payment, error) {
	return r.list(ctx, r.db.QueryContext, bookingID)
}

// ListByBookingTx is ListByBooking inside the caller's transaction, used
// after the booking row is locked so the ledger is rebuilt from a
// consistent payment set.
func (r *PaymentRepository) ListByBookingTx(ctx context.Context, tx *sql.Tx, bookingID uuid.UUID) ([]domain.Payment, error) {
	return r.list(ctx, tx.QueryContext, bookingID)
}

type queryFunc func(ctx context.Context, query string, args ...any) (*sql.Rows, error)

func (r *PaymentRepository) list(ctx context.Context, query queryFunc, bookingID uuid.UUID) ([]domain.Payment, error) {
	rows, err := query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE booking_id = $1 ORDER BY created_at, id`,
		bookingID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByBooking: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByBooking: %w", err)
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByBooking: %w", err)
	}
	return payments, nil
}

func scanPayment(s scanner) (*domain.Payment, error) {
	var p domain.Payment
	var amount int64
	var receiptRef sql.NullString

	err := s.Scan(&p.ID, &p.BookingID, &amount, &p.CardID, &p.PaidAt, &receiptRef, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	p.Amount = domain.Money(amount)
	if receiptRef.Valid {
		p.ReceiptRef = &receiptRef.String
	}

	return &p, nil
}
