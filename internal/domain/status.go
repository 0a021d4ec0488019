package domain

// SettlementStatus classifies how much of a booking's procedure price has
// been covered by deposits. Ordering pending < partial < paid is used for
// display grouping only.
type SettlementStatus string

const (
	SettlementPending SettlementStatus = "pending"
	SettlementPartial SettlementStatus = "partial"
	SettlementPaid    SettlementStatus = "paid"
)

func (s SettlementStatus) IsValid() bool {
	switch s {
	case SettlementPending, SettlementPartial, SettlementPaid:
		return true
	}
	return false
}

// ClassifyStatus maps a procedure price and the sum of deposits to a
// settlement status. Overpayment (totalPaid > price) still classifies as
// paid; the negative remaining balance carries the signal.
func ClassifyStatus(price, totalPaid Money) SettlementStatus {
	switch {
	case totalPaid <= 0:
		return SettlementPending
	case totalPaid < price:
		return SettlementPartial
	default:
		return SettlementPaid
	}
}
