package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/nikan-clinic/frontdesk/internal/domain"
	"github.com/nikan-clinic/frontdesk/internal/logging"
	"github.com/nikan-clinic/frontdesk/internal/persiancal"
	"github.com/nikan-clinic/frontdesk/internal/repository"
	"github.com/nikan-clinic/frontdesk/internal/service/report"
)

type reportService interface {
	Dashboard(ctx context.Context) (*report.Dashboard, error)
	Report(ctx context.Context, f repository.ReportFilter) (*report.Report, error)
}

type ReportHandler struct {
	reports reportService
}

func NewReportHandler(reports reportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

type periodStatsDTO struct {
	Label              string `json:"label"`
	JalaliFrom         string `json:"jalali_from"`
	JalaliTo           string `json:"jalali_to"`
	Deposits           int64  `json:"deposits"`
	DepositsDisplay    string `json:"deposits_display"`
	Bookings           int    `json:"bookings"`
	Outstanding        int64  `json:"outstanding"`
	OutstandingDisplay string `json:"outstanding_display"`
	UnsettledBookings  int    `json:"unsettled_bookings"`
}

func toPeriodStatsDTO(s report.PeriodStats) periodStatsDTO {
	return periodStatsDTO{
		Label:              s.Label,
		JalaliFrom:         s.JalaliFrom,
		JalaliTo:           s.JalaliTo,
		Deposits:           int64(s.Deposits),
		DepositsDisplay:    persiancal.FormatAmount(int64(s.Deposits)),
		Bookings:           s.Bookings,
		Outstanding:        int64(s.Outstanding),
		OutstandingDisplay: persiancal.FormatAmount(int64(s.Outstanding)),
		UnsettledBookings:  s.UnsettledCnt,
	}
}

func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.reports.Dashboard(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to build dashboard", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]periodStatsDTO{
		"today": toPeriodStatsDTO(d.Today),
		"week":  toPeriodStatsDTO(d.Week),
	})
}

type cardTotalDTO struct {
	CardID       uuid.UUID `json:"card_id"`
	MaskedNumber string    `json:"masked_number"`
	OwnerName    string    `json:"owner_name"`
	Total        int64     `json:"total"`
	TotalDisplay string    `json:"total_display"`
}

type consultantTotalDTO struct {
	ConsultantID uuid.UUID `json:"consultant_id"`
	Name         string    `json:"name"`
	Total        int64     `json:"total"`
	TotalDisplay string    `json:"total_display"`
}

type reportDTO struct {
	Bookings         []bookingDTO         `json:"bookings"`
	CardTotals       []cardTotalDTO       `json:"card_totals"`
	ConsultantTotals []consultantTotalDTO `json:"consultant_totals"`
}

// Report serves the filtered reports tab. All filters are optional query
// parameters; dates accept both calendars.
func (h *ReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	f, fields := filterFromQuery(r)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	rep, err := h.reports.Report(r.Context(), f)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to build report", "error", err)
		RespondDomainError(w, err)
		return
	}

	dto := reportDTO{
		Bookings:         make([]bookingDTO, 0, len(rep.Bookings)),
		CardTotals:       make([]cardTotalDTO, 0, len(rep.CardTotals)),
		ConsultantTotals: make([]consultantTotalDTO, 0, len(rep.ConsultantTotals)),
	}
	for i := range rep.Bookings {
		dto.Bookings = append(dto.Bookings, toBookingDTO(&rep.Bookings[i]))
	}
	for _, c := range rep.CardTotals {
		dto.CardTotals = append(dto.CardTotals, cardTotalDTO{
			CardID:       c.CardID,
			MaskedNumber: c.MaskedNumber,
			OwnerName:    c.OwnerName,
			Total:        int64(c.Total),
			TotalDisplay: persiancal.FormatAmount(int64(c.Total)),
		})
	}
	for _, c := range rep.ConsultantTotals {
		dto.ConsultantTotals = append(dto.ConsultantTotals, consultantTotalDTO{
			ConsultantID: c.ConsultantID,
			Name:         c.Name,
			Total:        int64(c.Total),
			TotalDisplay: persiancal.FormatAmount(int64(c.Total)),
		})
	}

	RespondSuccess(w, http.StatusOK, dto)
}

func filterFromQuery(r *http.Request) (repository.ReportFilter, []FieldError) {
	var f repository.ReportFilter
	var fields []FieldError
	q := r.URL.Query()

	if v := q.Get("from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			fields = append(fields, FieldError{Field: "from", Message: "must be YYYY-MM-DD or a Jalali YYYY/MM/DD"})
		} else {
			f.Start = &t
		}
	}
	if v := q.Get("to"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			fields = append(fields, FieldError{Field: "to", Message: "must be YYYY-MM-DD or a Jalali YYYY/MM/DD"})
		} else {
			f.End = &t
		}
	}

	uuidParams := []struct {
		name string
		dst  **uuid.UUID
	}{
		{"doctor_id", &f.DoctorID},
		{"clinic_id", &f.ClinicID},
		{"surgery_id", &f.SurgeryID},
		{"consultant_id", &f.ConsultantID},
		{"card_id", &f.CardID},
	}
	for _, p := range uuidParams {
		if v := q.Get(p.name); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				fields = append(fields, FieldError{Field: p.name, Message: "must be a uuid"})
				continue
			}
			*p.dst = &id
		}
	}

	if v := q.Get("status"); v != "" {
		status := domain.SettlementStatus(v)
		switch status {
		case domain.SettlementPending, domain.SettlementPartial, domain.SettlementPaid:
			f.Status = &status
		default:
			fields = append(fields, FieldError{Field: "status", Message: "must be pending, partial or paid"})
		}
	}

	return f, fields
}
