package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nikan-clinic/frontdesk/internal/domain"
	"github.com/nikan-clinic/frontdesk/internal/ledger"
	"github.com/nikan-clinic/frontdesk/internal/logging"
	"github.com/nikan-clinic/frontdesk/internal/persiancal"
	"github.com/nikan-clinic/frontdesk/internal/service/booking"
)

type bookingService interface {
	Admit(ctx context.Context, req booking.AdmissionRequest) (*domain.Booking, error)
	Get(ctx context.Context, id uuid.UUID) (*booking.Detail, error)
	ListRange(ctx context.Context, from, to time.Time) ([]domain.Booking, error)
	ListUpcomingWeek(ctx context.Context) ([]domain.Booking, error)
}

type BookingHandler struct {
	bookings bookingService
}

func NewBookingHandler(bookings bookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type admitRequest struct {
	PatientName   string  `json:"patient_name"`
	NationalCode  string  `json:"national_code"`
	Phone         string  `json:"phone"`
	SurgeryID     string  `json:"surgery_id"`
	PriceOverride *int64  `json:"price_override"`
	SurgeryDate   string  `json:"surgery_date"`
	TimeSlot      string  `json:"time_slot"`
	DoctorID      string  `json:"doctor_id"`
	ConsultantID  string  `json:"consultant_id"`
	ClinicID      string  `json:"clinic_id"`
	Notes         *string `json:"notes"`
}

type bookingDTO struct {
	ID             uuid.UUID `json:"id"`
	PatientName    string    `json:"patient_name"`
	NationalCode   string    `json:"national_code"`
	Phone          string    `json:"phone"`
	SurgeryID      uuid.UUID `json:"surgery_id"`
	Price          int64     `json:"price"`
	PriceDisplay   string    `json:"price_display"`
	SurgeryDate    string    `json:"surgery_date"`
	SurgeryDateFa  string    `json:"surgery_date_fa"`
	TimeSlot       string    `json:"time_slot"`
	DoctorID       uuid.UUID `json:"doctor_id"`
	ConsultantID   uuid.UUID `json:"consultant_id"`
	ClinicID       uuid.UUID `json:"clinic_id"`
	Documents      []string  `json:"documents"`
	Notes          *string   `json:"notes"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

type paymentDTO struct {
	ID            uuid.UUID `json:"id"`
	Amount        int64     `json:"amount"`
	AmountDisplay string    `json:"amount_display"`
	CardID        uuid.UUID `json:"card_id"`
	PaidAt        time.Time `json:"paid_at"`
	PaidAtFa      string    `json:"paid_at_fa"`
	ReceiptRef    *string   `json:"receipt_ref"`
}

type snapshotDTO struct {
	BookingID        uuid.UUID    `json:"booking_id"`
	Price            int64        `json:"price"`
	TotalPaid        int64        `json:"total_paid"`
	Remaining        int64        `json:"remaining"`
	RemainingDisplay string       `json:"remaining_display"`
	Status           string       `json:"status"`
	Payments         []paymentDTO `json:"payments"`
}

type bookingDetailDTO struct {
	Booking bookingDTO  `json:"booking"`
	Ledger  snapshotDTO `json:"ledger"`
}

func toBookingDTO(b *domain.Booking) bookingDTO {
	return bookingDTO{
		ID:            b.ID,
		PatientName:   b.PatientName,
		NationalCode:  b.NationalCode,
		Phone:         b.Phone,
		SurgeryID:     b.SurgeryID,
		Price:         int64(b.Price),
		PriceDisplay:  persiancal.FormatAmount(int64(b.Price)),
		SurgeryDate:   b.SurgeryDate.Format("2006-01-02"),
		SurgeryDateFa: persiancal.FormatDate(b.SurgeryDate),
		TimeSlot:      b.TimeSlot,
		DoctorID:      b.DoctorID,
		ConsultantID:  b.ConsultantID,
		ClinicID:      b.ClinicID,
		Documents:     b.Documents,
		Notes:         b.Notes,
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt,
	}
}

func toSnapshotDTO(s ledger.Snapshot) snapshotDTO {
	payments := make([]paymentDTO, 0, len(s.Payments))
	for _, p := range s.Payments {
		payments = append(payments, paymentDTO{
			ID:            p.ID,
			Amount:        int64(p.Amount),
			AmountDisplay: persiancal.FormatAmount(int64(p.Amount)),
			CardID:        p.CardID,
			PaidAt:        p.PaidAt,
			PaidAtFa:      persiancal.FormatDate(p.PaidAt),
			ReceiptRef:    p.ReceiptRef,
		})
	}
	return snapshotDTO{
		BookingID:        s.BookingID,
		Price:            int64(s.Price),
		TotalPaid:        int64(s.TotalPaid),
		Remaining:        int64(s.Remaining),
		RemainingDisplay: persiancal.FormatAmount(int64(s.Remaining)),
		Status:           string(s.Status),
		Payments:         payments,
	}
}

func (h *BookingHandler) Admit(w http.ResponseWriter, r *http.Request) {
	var req admitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	var fields []FieldError
	surgeryID, err := uuid.Parse(req.SurgeryID)
	if err != nil {
		fields = append(fields, FieldError{Field: "surgery_id", Message: "must be a uuid"})
	}
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		fields = append(fields, FieldError{Field: "doctor_id", Message: "must be a uuid"})
	}
	consultantID, err := uuid.Parse(req.ConsultantID)
	if err != nil {
		fields = append(fields, FieldError{Field: "consultant_id", Message: "must be a uuid"})
	}
	clinicID, err := uuid.Parse(req.ClinicID)
	if err != nil {
		fields = append(fields, FieldError{Field: "clinic_id", Message: "must be a uuid"})
	}
	surgeryDate, err := parseDate(req.SurgeryDate)
	if err != nil {
		fields = append(fields, FieldError{Field: "surgery_date", Message: "must be YYYY-MM-DD or a Jalali YYYY/MM/DD"})
	}
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	b, err := h.bookings.Admit(r.Context(), booking.AdmissionRequest{
		PatientName:   req.PatientName,
		NationalCode:  req.NationalCode,
		Phone:         req.Phone,
		SurgeryID:     surgeryID,
		PriceOverride: req.PriceOverride,
		SurgeryDate:   surgeryDate,
		TimeSlot:      req.TimeSlot,
		DoctorID:      doctorID,
		ConsultantID:  consultantID,
		ClinicID:      clinicID,
		Notes:         req.Notes,
	})
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to admit booking", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toBookingDTO(b))
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, appErr := bookingIDFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	detail, err := h.bookings.Get(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, bookingDetailDTO{
		Booking: toBookingDTO(&detail.Booking),
		Ledger:  toSnapshotDTO(detail.Snapshot),
	})
}

// List returns bookings in a surgery-date window. Without query
// parameters it falls back to the upcoming week.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	fromParam := r.URL.Query().Get("from")
	toParam := r.URL.Query().Get("to")

	var (
		bookings []domain.Booking
		err      error
	)
	if fromParam == "" && toParam == "" {
		bookings, err = h.bookings.ListUpcomingWeek(r.Context())
	} else {
		from, ferr := parseDate(fromParam)
		to, terr := parseDate(toParam)
		if ferr != nil || terr != nil {
			RespondValidationError(w, []FieldError{{Field: "from/to", Message: "must be YYYY-MM-DD or a Jalali YYYY/MM/DD"}})
			return
		}
		bookings, err = h.bookings.ListRange(r.Context(), from, to)
	}
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list bookings", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]bookingDTO, 0, len(bookings))
	for i := range bookings {
		dtos = append(dtos, toBookingDTO(&bookings[i]))
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

func bookingIDFromPath(r *http.Request) (uuid.UUID, *AppError) {
	id, err := uuid.Parse(chi.URLParam(r, "bookingID"))
	if err != nil {
		return uuid.Nil, ErrInvalidRequest
	}
	return id, nil
}

// parseDate accepts Gregorian YYYY-MM-DD and Jalali YYYY/MM/DD, the two
// forms the front desk types. Jalali digits may be Persian.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}

	latin := persiancal.ToLatinDigits(s)
	t, err := time.Parse("2006/01/02", latin)
	if err != nil {
		return time.Time{}, err
	}
	return persiancal.ToGregorian(t.Year(), int(t.Month()), t.Day(), time.UTC), nil
}
