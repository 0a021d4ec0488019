package domain

import (
	"time"

	"github.com/google/uuid"
)

// Booking is one scheduled procedure for one patient. The procedure price
// is snapshotted from the surgery catalog at admission time and only an
// admin may edit it afterwards. Status is derived from the payment set and
// never trusted independently of recomputation.
type Booking struct {
	ID           uuid.UUID
	PatientName  string
	NationalCode string
	Phone        string
	SurgeryID    uuid.UUID
	Price        Money
	SurgeryDate  time.Time
	TimeSlot     string
	DoctorID     uuid.UUID
	ConsultantID uuid.UUID
	ClinicID     uuid.UUID
	Documents    []string
	Notes        *string
	Status       SettlementStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
