// Package ledger owns the payment ledger of a single booking: the fixed
// procedure price, the ordered set of deposits against it, and the derived
// totals and settlement status.
//
// The engine assumes exclusive access for the duration of a call. Callers
// that admit concurrent editors must serialize per booking id at the
// persistence layer (row lock or optimistic version check); the engine
// itself holds no locks and performs no I/O beyond the notifier emission.
package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nikan-clinic/frontdesk/internal/domain"
)

// Snapshot is the consistent view returned by every mutation. Remaining
// may be negative: overpayment is a legal, visible state and is never
// clamped.
type Snapshot struct {
	BookingID uuid.UUID
	Price     domain.Money
	TotalPaid domain.Money
	Remaining domain.Money
	Status    domain.SettlementStatus
	Payments  []domain.Payment
}

// Engine holds one booking's ledger. Insertion order of payments is
// preserved for display; it has no bearing on totals.
type Engine struct {
	bookingID uuid.UUID
	price     domain.Money
	order     []uuid.UUID
	payments  map[uuid.UUID]domain.Payment
	notifier  Notifier
}

// New builds an engine from persisted state. The price must be
// non-negative and payment ids must be unique; existing amounts are
// trusted as already validated at record creation.
func New(bookingID uuid.UUID, price domain.Money, payments []domain.Payment, notifier Notifier) (*Engine, error) {
	if price.IsNegative() {
		return nil, fmt.Errorf("ledger.New: %w", domain.ErrInvalidPrice)
	}

	e := &Engine{
		bookingID: bookingID,
		price:     price,
		order:     make([]uuid.UUID, 0, len(payments)),
		payments:  make(map[uuid.UUID]domain.Payment, len(payments)),
		notifier:  notifier,
	}

	for _, p := range payments {
		if _, ok := e.payments[p.ID]; ok {
			return nil, fmt.Errorf("ledger.New: payment %s: %w", p.ID, domain.ErrDuplicatePayment)
		}
		e.order = append(e.order, p.ID)
		e.payments[p.ID] = p
	}

	return e, nil
}

// AddPayment appends a deposit and returns the recomputed snapshot. The
// record gets an id if it has none. Validation failures leave the ledger
// untouched.
func (e *Engine) AddPayment(ctx context.Context, p domain.Payment) (Snapshot, error) {
	if p.Amount <= 0 {
		return Snapshot{}, fmt.Errorf("AddPayment: %w", domain.ErrInvalidAmount)
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if _, ok := e.payments[p.ID]; ok {
		return Snapshot{}, fmt.Errorf("AddPayment: payment %s: %w", p.ID, domain.ErrDuplicatePayment)
	}
	p.BookingID = e.bookingID

	e.order = append(e.order, p.ID)
	e.payments[p.ID] = p

	return e.emit(ctx, "AddPayment")
}

// RemovePayment hard-deletes the deposit with the given id.
func (e *Engine) RemovePayment(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	if _, ok := e.payments[id]; !ok {
		return Snapshot{}, fmt.Errorf("RemovePayment: payment %s: %w", id, domain.ErrNotFound)
	}

	delete(e.payments, id)
	for i, pid := range e.order {
		if pid == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}

	return e.emit(ctx, "RemovePayment")
}

// SetPrice replaces the procedure price. Existing payments are not
// re-validated: a price correction below the amount already paid is a
// legitimate admin action and shows up as overpayment.
func (e *Engine) SetPrice(ctx context.Context, price domain.Money) (Snapshot, error) {
	if price.IsNegative() {
		return Snapshot{}, fmt.Errorf("SetPrice: %w", domain.ErrInvalidPrice)
	}

	e.price = price

	return e.emit(ctx, "SetPrice")
}

// Snapshot recomputes and returns the current state. The payment slice is
// a copy; mutating it does not touch the ledger.
func (e *Engine) Snapshot() Snapshot {
	// Always a full sum over the current set, never a running total:
	// removal and price edits make incremental tracking a drift hazard.
	var total domain.Money
	payments := make([]domain.Payment, 0, len(e.order))
	for _, id := range e.order {
		p := e.payments[id]
		total = total.Add(p.Amount)
		payments = append(payments, p)
	}

	return Snapshot{
		BookingID: e.bookingID,
		Price:     e.price,
		TotalPaid: total,
		Remaining: e.price.Sub(total),
		Status:    domain.ClassifyStatus(e.price, total),
		Payments:  payments,
	}
}

// emit publishes the post-mutation snapshot to the notifier, exactly once
// per successful mutation. A delivery failure does not undo the mutation;
// it is surfaced as ErrNotifyFailed so the caller can retry delivery or
// proceed.
func (e *Engine) emit(ctx context.Context, op string) (Snapshot, error) {
	snap := e.Snapshot()

	if e.notifier == nil {
		return snap, nil
	}

	if err := e.notifier.Publish(ctx, snap); err != nil {
		return snap, fmt.Errorf("%s: publish snapshot: %w: %w", op, domain.ErrNotifyFailed, err)
	}

	return snap, nil
}
