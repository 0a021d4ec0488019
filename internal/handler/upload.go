package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/nikan-clinic/frontdesk/internal/logging"
	"github.com/nikan-clinic/frontdesk/internal/storage"
)

// Receipts and scanned documents stay small; 10 MiB covers phone photos.
const maxUploadBytes = 10 << 20

type uploadStore interface {
	UploadReceipt(ctx context.Context, bookingID uuid.UUID, filename string, r io.Reader) (*storage.Uploaded, error)
	UploadDocument(ctx context.Context, bookingID uuid.UUID, filename string, r io.Reader) (*storage.Uploaded, error)
}

type documentAttacher interface {
	AttachDocument(ctx context.Context, id uuid.UUID, ref string) error
}

type UploadHandler struct {
	store    uploadStore
	bookings documentAttacher
}

func NewUploadHandler(store uploadStore, bookings documentAttacher) *UploadHandler {
	return &UploadHandler{store: store, bookings: bookings}
}

type uploadedDTO struct {
	Ref string `json:"ref"`
	URL string `json:"url"`
}

// Receipt stores a deposit receipt image and returns the reference the
// client passes along in the add-deposit call.
func (h *UploadHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	bookingID, file, filename, appErr := uploadFromRequest(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	defer file.Close()

	up, err := h.store.UploadReceipt(r.Context(), bookingID, filename, file)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to upload receipt", "error", err, "booking_id", bookingID)
		RespondAppError(w, ErrInternalError, nil)
		return
	}

	RespondSuccess(w, http.StatusCreated, uploadedDTO{Ref: up.Ref, URL: up.URL})
}

// Document stores a patient document and links it to the booking in one
// step.
func (h *UploadHandler) Document(w http.ResponseWriter, r *http.Request) {
	bookingID, file, filename, appErr := uploadFromRequest(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	defer file.Close()

	up, err := h.store.UploadDocument(r.Context(), bookingID, filename, file)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to upload document", "error", err, "booking_id", bookingID)
		RespondAppError(w, ErrInternalError, nil)
		return
	}

	if err := h.bookings.AttachDocument(r.Context(), bookingID, up.Ref); err != nil {
		logging.FromContext(r.Context()).Error("failed to attach document", "error", err, "booking_id", bookingID)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, uploadedDTO{Ref: up.Ref, URL: up.URL})
}

func uploadFromRequest(r *http.Request) (uuid.UUID, io.ReadCloser, string, *AppError) {
	bookingID, appErr := bookingIDFromPath(r)
	if appErr != nil {
		return uuid.Nil, nil, "", appErr
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return uuid.Nil, nil, "", ErrInvalidRequest
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return uuid.Nil, nil, "", ErrInvalidRequest
	}

	return bookingID, file, header.Filename, nil
}
