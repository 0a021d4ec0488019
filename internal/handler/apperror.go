package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken       = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken       = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrInvalidCredentials = &AppError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"}
	ErrForbidden          = &AppError{http.StatusForbidden, "FORBIDDEN", "Your role does not allow this action"}
	ErrInvalidRequest     = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed   = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound   = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError      = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrInvalidAmount     = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be greater than zero"}
	ErrInvalidPrice      = &AppError{http.StatusBadRequest, "INVALID_PRICE", "Price must not be negative"}
	ErrInvalidSlot       = &AppError{http.StatusBadRequest, "INVALID_TIME_SLOT", "Time slot must be on the half-hour grid between 08:00 and 23:30"}
	ErrDuplicatePayment  = &AppError{http.StatusConflict, "DUPLICATE_PAYMENT", "A payment with this id already exists"}
	ErrSlotTaken         = &AppError{http.StatusConflict, "SLOT_TAKEN", "This time slot is already booked at the clinic"}
	ErrClinicFull        = &AppError{http.StatusUnprocessableEntity, "CLINIC_FULL", "The clinic has no capacity left on this date"}
	ErrSurgeryNotFound   = &AppError{http.StatusUnprocessableEntity, "SURGERY_NOT_FOUND", "Unknown surgery"}
	ErrUserExists        = &AppError{http.StatusConflict, "USER_ALREADY_EXISTS", "A user with this email already exists"}
	ErrRoleNotAllowed    = &AppError{http.StatusBadRequest, "ROLE_NOT_ALLOWED", "Unknown staff role"}

	ErrMissingIdempotencyKey = &AppError{http.StatusBadRequest, "MISSING_IDEMPOTENCY_KEY", "Idempotency-Key header is required"}
	ErrIdempotencyConflict   = &AppError{http.StatusConflict, "IDEMPOTENCY_CONFLICT", "Idempotency key already used with a different request"}
)
