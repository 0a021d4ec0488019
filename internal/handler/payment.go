package handler

import (
	"context"
	"encoding/json"
	"errors"
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

type ledgerService interface {
	AddDeposit(ctx context.Context, req booking.AddDepositRequest) (ledger.Snapshot, error)
	RemoveDeposit(ctx context.Context, bookingID, paymentID uuid.UUID) (ledger.Snapshot, error)
	SetPrice(ctx context.Context, bookingID uuid.UUID, price int64) (ledger.Snapshot, error)
}

type PaymentHandler struct {
	ledgers ledgerService
}

func NewPaymentHandler(ledgers ledgerService) *PaymentHandler {
	return &PaymentHandler{ledgers: ledgers}
}

const notifyWarning = "saved, but realtime update delivery failed"

type addDepositRequest struct {
	// Amount takes an integer or a formatted string; the front desk pastes
	// amounts with Persian digits and separators.
	Amount     json.RawMessage `json:"amount"`
	CardID     string          `json:"card_id"`
	PaidAt     *time.Time      `json:"paid_at"`
	ReceiptRef *string         `json:"receipt_ref"`
}

func (r addDepositRequest) amountValue() (int64, error) {
	var n int64
	if err := json.Unmarshal(r.Amount, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(r.Amount, &s); err != nil {
		return 0, err
	}
	return persiancal.ParseAmount(s)
}

func (h *PaymentHandler) AddDeposit(w http.ResponseWriter, r *http.Request) {
	bookingID, appErr := bookingIDFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req addDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	amount, err := req.amountValue()
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: "amount", Message: "must be an integer amount in rials"}})
		return
	}
	cardID, err := uuid.Parse(req.CardID)
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: "card_id", Message: "must be a uuid"}})
		return
	}

	depositReq := booking.AddDepositRequest{
		BookingID:  bookingID,
		Amount:     amount,
		CardID:     cardID,
		ReceiptRef: req.ReceiptRef,
	}
	if req.PaidAt != nil {
		depositReq.PaidAt = *req.PaidAt
	}

	snap, err := h.ledgers.AddDeposit(r.Context(), depositReq)
	if err != nil && !errors.Is(err, domain.ErrNotifyFailed) {
		logging.FromContext(r.Context()).Error("failed to add deposit", "error", err, "booking_id", bookingID)
		RespondDomainError(w, err)
		return
	}

	if err != nil {
		logging.FromContext(r.Context()).Warn("deposit saved but notify failed", "error", err, "booking_id", bookingID)
		RespondSuccessWithWarning(w, http.StatusCreated, toSnapshotDTO(snap), notifyWarning)
		return
	}
	RespondSuccess(w, http.StatusCreated, toSnapshotDTO(snap))
}

func (h *PaymentHandler) RemoveDeposit(w http.ResponseWriter, r *http.Request) {
	bookingID, appErr := bookingIDFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	paymentID, err := uuid.Parse(chi.URLParam(r, "paymentID"))
	if err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	snap, err := h.ledgers.RemoveDeposit(r.Context(), bookingID, paymentID)
	if err != nil && !errors.Is(err, domain.ErrNotifyFailed) {
		logging.FromContext(r.Context()).Error("failed to remove deposit", "error", err, "booking_id", bookingID)
		RespondDomainError(w, err)
		return
	}

	if err != nil {
		logging.FromContext(r.Context()).Warn("deposit removed but notify failed", "error", err, "booking_id", bookingID)
		RespondSuccessWithWarning(w, http.StatusOK, toSnapshotDTO(snap), notifyWarning)
		return
	}
	RespondSuccess(w, http.StatusOK, toSnapshotDTO(snap))
}

type setPriceRequest struct {
	Price json.RawMessage `json:"price"`
}

func (h *PaymentHandler) SetPrice(w http.ResponseWriter, r *http.Request) {
	bookingID, appErr := bookingIDFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req setPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	price, err := (addDepositRequest{Amount: req.Price}).amountValue()
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: "price", Message: "must be an integer amount in rials"}})
		return
	}

	snap, err := h.ledgers.SetPrice(r.Context(), bookingID, price)
	if err != nil && !errors.Is(err, domain.ErrNotifyFailed) {
		logging.FromContext(r.Context()).Error("failed to set price", "error", err, "booking_id", bookingID)
		RespondDomainError(w, err)
		return
	}

	if err != nil {
		logging.FromContext(r.Context()).Warn("price saved but notify failed", "error", err, "booking_id", bookingID)
		RespondSuccessWithWarning(w, http.StatusOK, toSnapshotDTO(snap), notifyWarning)
		return
	}
	RespondSuccess(w, http.StatusOK, toSnapshotDTO(snap))
}
