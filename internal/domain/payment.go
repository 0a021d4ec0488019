package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Payment is one deposit against a booking's procedure price. Records are
// immutable after creation; amending a deposit is modeled as remove plus
// re-add so external receipts keep pointing at the record they were issued
// for.
type Payment struct {
	ID         uuid.UUID
	BookingID  uuid.UUID
	Amount     Money
	CardID     uuid.UUID
	PaidAt     time.Time
	ReceiptRef *string
	CreatedAt  time.Time
}

// NewPayment builds a deposit record. The card reference is opaque here:
// resolution against the bank card catalog is the caller's concern.
func NewPayment(bookingID uuid.UUID, amount int64, cardID uuid.UUID, paidAt time.Time, receiptRef *string) (Payment, error) {
	m, err := NewPaymentAmount(amount)
	if err != nil {
		return Payment{}, fmt.Errorf("NewPayment: %w", err)
	}

	return Payment{
		ID:         uuid.New(),
		BookingID:  bookingID,
		Amount:     m,
		CardID:     cardID,
		PaidAt:     paidAt,
		ReceiptRef: receiptRef,
		CreatedAt:  time.Now().UTC(),
	}, nil
}
