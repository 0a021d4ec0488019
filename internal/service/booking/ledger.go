package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nikan-clinic/frontdesk/internal/domain"
	"github.com/nikan-clinic/frontdesk/internal/ledger"
	"github.com/nikan-clinic/frontdesk/internal/logging"
)

type AddDepositRequest struct {
	BookingID  uuid.UUID
	Amount     int64
	CardID     uuid.UUID
	PaidAt     time.Time
	ReceiptRef *string
}

// AddDeposit records one deposit against the booking and returns the
// recomputed snapshot. The booking row is locked for the whole mutation,
// which is the serialization point for concurrent editors. A realtime
// delivery failure does not fail the mutation: the snapshot is returned
// alongside an error wrapping domain.ErrNotifyFailed.
func (s *Service) AddDeposit(ctx context.Context, req AddDepositRequest) (ledger.Snapshot, error) {
	log := logging.FromContext(ctx)

	paidAt := req.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now().UTC()
	}

	record, err := domain.NewPayment(req.BookingID, req.Amount, req.CardID, paidAt, req.ReceiptRef)
	if err != nil {
		return ledger.Snapshot{}, fmt.Errorf("AddDeposit: %w", err)
	}

	var snap ledger.Snapshot
	var notifyErr error
	err = s.withLedger(ctx, req.BookingID, func(txc *ledgerTx) error {
		snap, notifyErr = txc.engine.AddPayment(ctx, record)
		if notifyErr != nil && !errors.Is(notifyErr, domain.ErrNotifyFailed) {
			return notifyErr
		}

		if err := s.payments.Create(ctx, txc.tx, &record); err != nil {
			return err
		}
		return s.bookings.UpdateLedgerState(ctx, txc.tx, req.BookingID, snap.Price, snap.Status)
	})
	if err != nil {
		return ledger.Snapshot{}, fmt.Errorf("AddDeposit: %w", err)
	}

	log.Info("deposit added",
		"booking_id", req.BookingID,
		"payment_id", record.ID,
		"amount", req.Amount,
		"status", snap.Status,
	)

	if notifyErr != nil {
		return snap, fmt.Errorf("AddDeposit: %w", notifyErr)
	}
	return snap, nil
}

// RemoveDeposit hard-deletes one deposit and returns the recomputed
// snapshot.
func (s *Service) RemoveDeposit(ctx context.Context, bookingID, paymentID uuid.UUID) (ledger.Snapshot, error) {
	log := logging.FromContext(ctx)

	var snap ledger.Snapshot
	var notifyErr error
	err := s.withLedger(ctx, bookingID, func(txc *ledgerTx) error {
		snap, notifyErr = txc.engine.RemovePayment(ctx, paymentID)
		if notifyErr != nil && !errors.Is(notifyErr, domain.ErrNotifyFailed) {
			return notifyErr
		}

		if err := s.payments.Delete(ctx, txc.tx, paymentID); err != nil {
			return err
		}
		return s.bookings.UpdateLedgerState(ctx, txc.tx, bookingID, snap.Price, snap.Status)
	})
	if err != nil {
		return ledger.Snapshot{}, fmt.Errorf("RemoveDeposit: %w", err)
	}

	log.Info("deposit removed",
		"booking_id", bookingID,
		"payment_id", paymentID,
		"status", snap.Status,
	)

	if notifyErr != nil {
		return snap, fmt.Errorf("RemoveDeposit: %w", notifyErr)
	}
	return snap, nil
}

// SetPrice replaces the procedure price. Reserved for admins at the
// handler layer; the ledger itself only insists the price is
// non-negative.
func (s *Service) SetPrice(ctx context.Context, bookingID uuid.UUID, price int64) (ledger.Snapshot, error) {
	log := logging.FromContext(ctx)

	newPrice, err := domain.NewPrice(price)
	if err != nil {
		return ledger.Snapshot{}, fmt.Errorf("SetPrice: %w", err)
	}

	var snap ledger.Snapshot
	var notifyErr error
	err = s.withLedger(ctx, bookingID, func(txc *ledgerTx) error {
		snap, notifyErr = txc.engine.SetPrice(ctx, newPrice)
		if notifyErr != nil && !errors.Is(notifyErr, domain.ErrNotifyFailed) {
			return notifyErr
		}
		return s.bookings.UpdateLedgerState(ctx, txc.tx, bookingID, snap.Price, snap.Status)
	})
	if err != nil {
		return ledger.Snapshot{}, fmt.Errorf("SetPrice: %w", err)
	}

	log.Info("procedure price updated",
		"booking_id", bookingID,
		"price", price,
		"status", snap.Status,
	)

	if notifyErr != nil {
		return snap, fmt.Errorf("SetPrice: %w", notifyErr)
	}
	return snap, nil
}

type ledgerTx struct {
	tx     *sql.Tx
	engine *ledger.Engine
}

// withLedger opens a transaction, locks the booking row, rebuilds the
// engine from the locked state and runs fn. The mirror writes fn performs
// commit atomically with the lock release; any error rolls everything
// back.
func (s *Service) withLedger(ctx context.Context, bookingID uuid.UUID, fn func(txc *ledgerTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("withLedger: begin: %w", err)
	}
	defer tx.Rollback()

	b, err := s.bookings.GetForUpdate(ctx, tx, bookingID)
	if err != nil {
		return fmt.Errorf("withLedger: %w", err)
	}

	payments, err := s.payments.ListByBookingTx(ctx, tx, bookingID)
	if err != nil {
		return fmt.Errorf("withLedger: %w", err)
	}

	eng, err := ledger.New(b.ID, b.Price, payments, s.notifier)
	if err != nil {
		return fmt.Errorf("withLedger: %w", err)
	}

	if err := fn(&ledgerTx{tx: tx, engine: eng}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("withLedger: commit: %w", err)
	}
	return nil
}
