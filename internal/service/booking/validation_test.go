package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikan-clinic/frontdesk/internal/domain"
)

func validRequest() AdmissionRequest {
	return AdmissionRequest{
		PatientName:  "Sara Mohammadi",
		NationalCode: "0012345678",
		Phone:        "09121234567",
		SurgeryID:    uuid.New(),
		SurgeryDate:  time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		TimeSlot:     "10:30",
		DoctorID:     uuid.New(),
		ConsultantID: uuid.New(),
		ClinicID:     uuid.New(),
	}
}

func TestValidateAdmission(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *AdmissionRequest)
		wantErr error
	}{
		{
			name:   "valid request",
			mutate: func(r *AdmissionRequest) {},
		},
		{
			name:    "blank patient name",
			mutate:  func(r *AdmissionRequest) { r.PatientName = "   " },
			wantErr: domain.ErrInvalidRequest,
		},
		{
			name:    "missing national code",
			mutate:  func(r *AdmissionRequest) { r.NationalCode = "" },
			wantErr: domain.ErrInvalidRequest,
		},
		{
			name:    "missing phone",
			mutate:  func(r *AdmissionRequest) { r.Phone = "" },
			wantErr: domain.ErrInvalidRequest,
		},
		{
			name:    "zero surgery date",
			mutate:  func(r *AdmissionRequest) { r.SurgeryDate = time.Time{} },
			wantErr: domain.ErrInvalidRequest,
		},
		{
			name:    "slot off the half hour grid",
			mutate:  func(r *AdmissionRequest) { r.TimeSlot = "10:15" },
			wantErr: domain.ErrInvalidSlot,
		},
		{
			name:    "slot before opening",
			mutate:  func(r *AdmissionRequest) { r.TimeSlot = "07:30" },
			wantErr: domain.ErrInvalidSlot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := validateAdmission(req)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
