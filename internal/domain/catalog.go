package domain

import "github.com/google/uuid"

// Catalog rows are reference data managed outside the booking flow: the
// front desk picks from them but never edits them through this API.

type Surgery struct {
	ID               uuid.UUID
	Name             string
	Price            Money
	RequiresHospital bool
}

type Doctor struct {
	ID   uuid.UUID
	Name string
}

type Consultant struct {
	ID   uuid.UUID
	Name string
}

type Clinic struct {
	ID          uuid.UUID
	Name        string
	MaxCapacity int
}

// BankCard is the payment-method catalog entry deposits reference. The
// ledger treats the reference as opaque; the masked number and owner are
// for display and reports only.
type BankCard struct {
	ID           uuid.UUID
	MaskedNumber string
	OwnerName    string
	BankName     string
}
