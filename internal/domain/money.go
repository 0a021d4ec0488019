package domain

import "fmt"

// Money is an amount in Iranian rials, the minor currency unit. All
// arithmetic is exact integer arithmetic; negative values are legal only
// for a remaining balance (overpayment).
type Money int64

func (m Money) Add(other Money) Money { return m + other }

func (m Money) Sub(other Money) Money { return m - other }

// Compare returns -1, 0 or +1 as m is less than, equal to or greater
// than other.
func (m Money) Compare(other Money) int {
	switch {
	case m < other:
		return -1
	case m > other:
		return 1
	default:
		return 0
	}
}

func (m Money) IsNegative() bool { return m < 0 }

// NewPaymentAmount validates a deposit amount. Deposits must be strictly
// positive.
func NewPaymentAmount(v int64) (Money, error) {
	if v <= 0 {
		return 0, fmt.Errorf("NewPaymentAmount: %w", ErrInvalidAmount)
	}
	return Money(v), nil
}

// NewPrice validates a procedure price. Zero is legal: price corrections
// by an admin must not be blocked by payment history.
func NewPrice(v int64) (Money, error) {
	if v < 0 {
		return 0, fmt.Errorf("NewPrice: %w", ErrInvalidPrice)
	}
	return Money(v), nil
}
