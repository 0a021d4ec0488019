// Package booking implements admissions and the payment flows of one
// booking. Every ledger mutation goes through the ledger engine under a
// row lock, so the stored status can never drift from the payment rows.
package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nikan-clinic/frontdesk/internal/domain"
	"github.com/nikan-clinic/frontdesk/internal/ledger"
	"github.com/nikan-clinic/frontdesk/internal/logging"
	"github.com/nikan-clinic/frontdesk/internal/schedule"
)

type bookingRepo interface {
	Create(ctx context.Context, tx *sql.Tx, b *domain.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Booking, error)
	UpdateLedgerState(ctx context.Context, tx *sql.Tx, id uuid.UUID, price domain.Money, status domain.SettlementStatus) error
	AddDocument(ctx context.Context, id uuid.UUID, ref string) error
	ListBetween(ctx context.Context, from, to time.Time) ([]domain.Booking, error)
	CountByClinicDate(ctx context.Context, tx *sql.Tx, clinicID uuid.UUID, date time.Time) (int, error)
	SlotTaken(ctx context.Context, tx *sql.Tx, clinicID uuid.UUID, date time.Time, slot string) (bool, error)
}

type paymentRepo interface {
	Create(ctx context.Context, tx *sql.Tx, p *domain.Payment) error
	Delete(ctx context.Context, tx *sql.Tx, id uuid.UUID) error
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]domain.Payment, error)
	ListByBookingTx(ctx context.Context, tx *sql.Tx, bookingID uuid.UUID) ([]domain.Payment, error)
}

type catalogRepo interface {
	GetSurgery(ctx context.Context, id uuid.UUID) (*domain.Surgery, error)
	GetClinic(ctx context.Context, id uuid.UUID) (*domain.Clinic, error)
}

type Service struct {
	bookings bookingRepo
	payments paymentRepo
	catalog  catalogRepo
	notifier ledger.Notifier
	db       *sql.DB
}

func NewService(bookings bookingRepo, payments paymentRepo, catalog catalogRepo, notifier ledger.Notifier, db *sql.DB) *Service {
	return &Service{
		bookings: bookings,
		payments: payments,
		catalog:  catalog,
		notifier: notifier,
		db:       db,
	}
}

type AdmissionRequest struct {
	PatientName   string
	NationalCode  string
	Phone         string
	SurgeryID     uuid.UUID
	PriceOverride *int64
	SurgeryDate   time.Time
	TimeSlot      string
	DoctorID      uuid.UUID
	ConsultantID  uuid.UUID
	ClinicID      uuid.UUID
	Notes         *string
}

func validateAdmission(req AdmissionRequest) error {
	if strings.TrimSpace(req.PatientName) == "" ||
		strings.TrimSpace(req.NationalCode) == "" ||
		strings.TrimSpace(req.Phone) == "" {
		return fmt.Errorf("validateAdmission: missing patient identity: %w", domain.ErrInvalidRequest)
	}
	if req.SurgeryDate.IsZero() {
		return fmt.Errorf("validateAdmission: missing surgery date: %w", domain.ErrInvalidRequest)
	}
	if !schedule.IsValid(req.TimeSlot) {
		return fmt.Errorf("validateAdmission: slot %q: %w", req.TimeSlot, domain.ErrInvalidSlot)
	}
	return nil
}

// Admit creates a booking with the procedure price snapshotted from the
// surgery catalog (or an explicit override). Capacity and slot checks run
// inside the transaction so two receptionists cannot double-book.
func (s *Service) Admit(ctx context.Context, req AdmissionRequest) (*domain.Booking, error) {
	log := logging.FromContext(ctx)

	if err := validateAdmission(req); err != nil {
		return nil, fmt.Errorf("Admit: %w", err)
	}

	surgery, err := s.catalog.GetSurgery(ctx, req.SurgeryID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("Admit: %w", domain.ErrSurgeryNotFound)
		}
		return nil, fmt.Errorf("Admit: %w", err)
	}

	clinic, err := s.catalog.GetClinic(ctx, req.ClinicID)
	if err != nil {
		return nil, fmt.Errorf("Admit: clinic: %w", err)
	}

	price := surgery.Price
	if req.PriceOverride != nil {
		price, err = domain.NewPrice(*req.PriceOverride)
		if err != nil {
			return nil, fmt.Errorf("Admit: %w", err)
		}
	}

	day := truncateToDay(req.SurgeryDate)
	now := time.Now().UTC()
	b := &domain.Booking{
		ID:           uuid.New(),
		PatientName:  strings.TrimSpace(req.PatientName),
		NationalCode: strings.TrimSpace(req.NationalCode),
		Phone:        strings.TrimSpace(req.Phone),
		SurgeryID:    surgery.ID,
		Price:        price,
		SurgeryDate:  day,
		TimeSlot:     req.TimeSlot,
		DoctorID:     req.DoctorID,
		ConsultantID: req.ConsultantID,
		ClinicID:     req.ClinicID,
		Documents:    []string{},
		Notes:        req.Notes,
		Status:       domain.SettlementPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Admit: begin: %w", err)
	}
	defer tx.Rollback()

	count, err := s.bookings.CountByClinicDate(ctx, tx, req.ClinicID, day)
	if err != nil {
		return nil, fmt.Errorf("Admit: %w", err)
	}
	if count >= clinic.MaxCapacity {
		return nil, fmt.Errorf("Admit: clinic %s on %s: %w", clinic.Name, day.Format("2006-01-02"), domain.ErrClinicFull)
	}

	taken, err := s.bookings.SlotTaken(ctx, tx, req.ClinicID, day, req.TimeSlot)
	if err != nil {
		return nil, fmt.Errorf("Admit: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("Admit: slot %s: %w", req.TimeSlot, domain.ErrSlotTaken)
	}

	if err := s.bookings.Create(ctx, tx, b); err != nil {
		return nil, fmt.Errorf("Admit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Admit: commit: %w", err)
	}

	log.Info("booking admitted",
		"booking_id", b.ID,
		"surgery_id", b.SurgeryID,
		"clinic_id", b.ClinicID,
		"surgery_date", day.Format("2006-01-02"),
		"time_slot", b.TimeSlot,
	)

	return b, nil
}

// Detail is a booking together with its freshly recomputed ledger view.
type Detail struct {
	Booking  domain.Booking
	Snapshot ledger.Snapshot
}

// Get rebuilds the ledger from the payment rows on every read, so a
// caller always sees totals consistent with the payment set even if the
// stored status column were stale.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Detail, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}

	payments, err := s.payments.ListByBooking(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}

	eng, err := ledger.New(b.ID, b.Price, payments, nil)
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}

	snap := eng.Snapshot()
	b.Status = snap.Status

	return &Detail{Booking: *b, Snapshot: snap}, nil
}

// ListRange returns bookings in [from, to] by surgery date.
func (s *Service) ListRange(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	bookings, err := s.bookings.ListBetween(ctx, truncateToDay(from), truncateToDay(to))
	if err != nil {
		return nil, fmt.Errorf("ListRange: %w", err)
	}
	return bookings, nil
}

// ListUpcomingWeek returns bookings scheduled in the next seven days.
func (s *Service) ListUpcomingWeek(ctx context.Context) ([]domain.Booking, error) {
	today := truncateToDay(time.Now().UTC())
	return s.ListRange(ctx, today.AddDate(0, 0, 1), today.AddDate(0, 0, 7))
}

// AttachDocument links an uploaded document reference to the booking.
func (s *Service) AttachDocument(ctx context.Context, id uuid.UUID, ref string) error {
	if err := s.bookings.AddDocument(ctx, id, ref); err != nil {
		return fmt.Errorf("AttachDocument: %w", err)
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
