package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikan-clinic/frontdesk/internal/domain"
	"github.com/nikan-clinic/frontdesk/internal/ledger"
	"github.com/nikan-clinic/frontdesk/internal/service/booking"
)

type fakeLedgerService struct {
	snap     ledger.Snapshot
	err      error
	lastAdd  booking.AddDepositRequest
	setPrice int64
}

func (f *fakeLedgerService) AddDeposit(_ context.Context, req booking.AddDepositRequest) (ledger.Snapshot, error) {
	f.lastAdd = req
	return f.snap, f.err
}

func (f *fakeLedgerService) RemoveDeposit(_ context.Context, _, _ uuid.UUID) (ledger.Snapshot, error) {
	return f.snap, f.err
}

func (f *fakeLedgerService) SetPrice(_ context.Context, _ uuid.UUID, price int64) (ledger.Snapshot, error) {
	f.setPrice = price
	return f.snap, f.err
}

func depositRequest(t *testing.T, bookingID uuid.UUID, body string) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/bookings/"+bookingID.String()+"/payments", strings.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("bookingID", bookingID.String())
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestAddDeposit(t *testing.T) {
	bookingID := uuid.New()
	cardID := uuid.New()

	snap := ledger.Snapshot{
		BookingID: bookingID,
		Price:     160_000_000,
		TotalPaid: 100_000_000,
		Remaining: 60_000_000,
		Status:    domain.SettlementPartial,
	}

	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantAmount int64
		wantWarn   bool
	}{
		{
			name:       "integer amount",
			body:       fmt.Sprintf(`{"amount": 100000000, "card_id": %q}`, cardID),
			wantStatus: http.StatusCreated,
			wantAmount: 100_000_000,
		},
		{
			name:       "formatted persian amount",
			body:       fmt.Sprintf(`{"amount": "۱۰۰,۰۰۰,۰۰۰", "card_id": %q}`, cardID),
			wantStatus: http.StatusCreated,
			wantAmount: 100_000_000,
		},
		{
			name:       "notify failure still succeeds with warning",
			body:       fmt.Sprintf(`{"amount": 100000000, "card_id": %q}`, cardID),
			serviceErr: fmt.Errorf("AddDeposit: %w", domain.ErrNotifyFailed),
			wantStatus: http.StatusCreated,
			wantAmount: 100_000_000,
			wantWarn:   true,
		},
		{
			name:       "garbage amount",
			body:       fmt.Sprintf(`{"amount": "abc", "card_id": %q}`, cardID),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing card id",
			body:       `{"amount": 100000000, "card_id": "nope"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeLedgerService{snap: snap, err: tt.serviceErr}
			h := NewPaymentHandler(svc)

			rec := httptest.NewRecorder()
			h.AddDeposit(rec, depositRequest(t, bookingID, tt.body))

			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp APIResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

			if tt.wantStatus == http.StatusCreated {
				assert.True(t, resp.Success)
				assert.Equal(t, tt.wantAmount, svc.lastAdd.Amount)
				if tt.wantWarn {
					assert.NotEmpty(t, resp.Warning)
				} else {
					assert.Empty(t, resp.Warning)
				}
			} else {
				assert.False(t, resp.Success)
			}
		})
	}
}

func TestAddDepositDomainError(t *testing.T) {
	bookingID := uuid.New()
	svc := &fakeLedgerService{err: fmt.Errorf("AddDeposit: %w", domain.ErrNotFound)}
	h := NewPaymentHandler(svc)

	body := fmt.Sprintf(`{"amount": 1000, "card_id": %q}`, uuid.New())
	rec := httptest.NewRecorder()
	h.AddDeposit(rec, depositRequest(t, bookingID, body))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetPriceParsesFormattedAmount(t *testing.T) {
	bookingID := uuid.New()
	svc := &fakeLedgerService{snap: ledger.Snapshot{Status: domain.SettlementPaid}}
	h := NewPaymentHandler(svc)

	req := httptest.NewRequest(http.MethodPut, "/bookings/"+bookingID.String()+"/price",
		strings.NewReader(`{"price": "80,000,000"}`))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("bookingID", bookingID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	h.SetPrice(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(80_000_000), svc.setPrice)
}
