package domain

import "errors"

var (
	ErrNotFound                = errors.New("not found")
	ErrInvalidAmount           = errors.New("amount must be greater than zero")
	ErrInvalidPrice            = errors.New("price must not be negative")
	ErrDuplicatePayment        = errors.New("duplicate payment id")
	ErrNotifyFailed            = errors.New("reconciliation notify failed")
	ErrSlotTaken               = errors.New("time slot already taken")
	ErrClinicFull              = errors.New("clinic is at capacity for this date")
	ErrInvalidSlot             = errors.New("invalid time slot")
	ErrSurgeryNotFound         = errors.New("surgery not found")
	ErrUserExists              = errors.New("user already exists for this email")
	ErrRoleNotAllowed          = errors.New("role not allowed for this action")
	ErrInvalidRequest          = errors.New("invalid request")
	ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")
)
