package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/nikan-clinic/frontdesk/internal/domain"
	"github.com/nikan-clinic/frontdesk/internal/logging"
	"github.com/nikan-clinic/frontdesk/internal/persiancal"
	"github.com/nikan-clinic/frontdesk/internal/schedule"
)

type catalogReader interface {
	ListSurgeries(ctx context.Context) ([]domain.Surgery, error)
	ListDoctors(ctx context.Context) ([]domain.Doctor, error)
	ListConsultants(ctx context.Context) ([]domain.Consultant, error)
	ListClinics(ctx context.Context) ([]domain.Clinic, error)
	ListBankCards(ctx context.Context) ([]domain.BankCard, error)
}

// CatalogHandler serves the pick lists on the admission form. All of it
// is read-only reference data.
type CatalogHandler struct {
	catalog catalogReader
}

func NewCatalogHandler(catalog catalogReader) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type surgeryDTO struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Price            int64     `json:"price"`
	PriceDisplay     string    `json:"price_display"`
	RequiresHospital bool      `json:"requires_hospital"`
}

func (h *CatalogHandler) Surgeries(w http.ResponseWriter, r *http.Request) {
	surgeries, err := h.catalog.ListSurgeries(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list surgeries", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]surgeryDTO, 0, len(surgeries))
	for _, s := range surgeries {
		dtos = append(dtos, surgeryDTO{
			ID:               s.ID,
			Name:             s.Name,
			Price:            int64(s.Price),
			PriceDisplay:     persiancal.FormatAmount(int64(s.Price)),
			RequiresHospital: s.RequiresHospital,
		})
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

type namedDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func (h *CatalogHandler) Doctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.catalog.ListDoctors(r.Context())
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dtos := make([]namedDTO, 0, len(doctors))
	for _, d := range doctors {
		dtos = append(dtos, namedDTO{ID: d.ID, Name: d.Name})
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

func (h *CatalogHandler) Consultants(w http.ResponseWriter, r *http.Request) {
	consultants, err := h.catalog.ListConsultants(r.Context())
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dtos := make([]namedDTO, 0, len(consultants))
	for _, c := range consultants {
		dtos = append(dtos, namedDTO{ID: c.ID, Name: c.Name})
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

type clinicDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	MaxCapacity int       `json:"max_capacity"`
}

func (h *CatalogHandler) Clinics(w http.ResponseWriter, r *http.Request) {
	clinics, err := h.catalog.ListClinics(r.Context())
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dtos := make([]clinicDTO, 0, len(clinics))
	for _, c := range clinics {
		dtos = append(dtos, clinicDTO{ID: c.ID, Name: c.Name, MaxCapacity: c.MaxCapacity})
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

type bankCardDTO struct {
	ID           uuid.UUID `json:"id"`
	MaskedNumber string    `json:"masked_number"`
	OwnerName    string    `json:"owner_name"`
	BankName     string    `json:"bank_name"`
}

func (h *CatalogHandler) BankCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.catalog.ListBankCards(r.Context())
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dtos := make([]bankCardDTO, 0, len(cards))
	for _, c := range cards {
		dtos = append(dtos, bankCardDTO{
			ID:           c.ID,
			MaskedNumber: c.MaskedNumber,
			OwnerName:    c.OwnerName,
			BankName:     c.BankName,
		})
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

// TimeSlots returns the half-hour admission grid so the client never
// hardcodes it.
func (h *CatalogHandler) TimeSlots(w http.ResponseWriter, r *http.Request) {
	RespondSuccess(w, http.StatusOK, schedule.Slots())
}
