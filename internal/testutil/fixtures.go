package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/nikan-clinic/frontdesk/internal/domain"
)

var (
	AdminUserID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

	SurgeryRhinoplastyID = uuid.MustParse("00000000-0000-0000-0001-000000000001")
	SurgeryBlepharoID    = uuid.MustParse("00000000-0000-0000-0001-000000000002")
	DoctorID             = uuid.MustParse("00000000-0000-0000-0002-000000000001")
	ConsultantID         = uuid.MustParse("00000000-0000-0000-0003-000000000001")
	ClinicID             = uuid.MustParse("00000000-0000-0000-0004-000000000001")
	SmallClinicID        = uuid.MustParse("00000000-0000-0000-0004-000000000002")
	BankCardID           = uuid.MustParse("00000000-0000-0000-0005-000000000001")
	SecondBankCardID     = uuid.MustParse("00000000-0000-0000-0005-000000000002")
)

const (
	RhinoplastyPrice int64 = 160_000_000
	BlepharoPrice    int64 = 90_000_000
)

func SeedAdminUser(t *testing.T, db *sql.DB) uuid.UUID {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	_, err = db.Exec(
		`INSERT INTO users (id, email, name, password_hash, role, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO NOTHING`,
		AdminUserID, "admin@nikan.local", "Admin", string(hash), domain.RoleAdmin, domain.UserStatusActive,
	)
	if err != nil {
		t.Fatalf("seed admin user: %v", err)
	}
	return AdminUserID
}

func SeedTestUser(t *testing.T, db *sql.DB, email, name string, role domain.Role) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		Status:       domain.UserStatusActive,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = db.Exec(
		`INSERT INTO users (id, email, name, password_hash, role, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.Status, u.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed test user %s: %v", email, err)
	}
	return u
}

// SeedCatalogs inserts the reference rows every booking points at. The
// big clinic holds 60 patients a day, the small one 2 so capacity tests
// can fill it quickly.
func SeedCatalogs(t *testing.T, db *sql.DB) {
	t.Helper()

	execs := []struct {
		query string
		args  []any
	}{
		{
			`INSERT INTO surgeries (id, name, price, requires_hospital) VALUES ($1, $2, $3, $4)
			 ON CONFLICT (id) DO NOTHING`,
			[]any{SurgeryRhinoplastyID, "Rhinoplasty", RhinoplastyPrice, true},
		},
		{
			`INSERT INTO surgeries (id, name, price, requires_hospital) VALUES ($1, $2, $3, $4)
			 ON CONFLICT (id) DO NOTHING`,
			[]any{SurgeryBlepharoID, "Blepharoplasty", BlepharoPrice, false},
		},
		{
			`INSERT INTO doctors (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
			[]any{DoctorID, "Dr. Ahmadi"},
		},
		{
			`INSERT INTO consultants (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
			[]any{ConsultantID, "Ms. Karimi"},
		},
		{
			`INSERT INTO clinics (id, name, max_capacity) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
			[]any{ClinicID, "Nikan Central", 60},
		},
		{
			`INSERT INTO clinics (id, name, max_capacity) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
			[]any{SmallClinicID, "Nikan West", 2},
		},
		{
			`INSERT INTO bank_cards (id, masked_number, owner_name, bank_name) VALUES ($1, $2, $3, $4)
			 ON CONFLICT (id) DO NOTHING`,
			[]any{BankCardID, "6037-99**-****-1234", "Clinic Treasury", "Melli"},
		},
		{
			`INSERT INTO bank_cards (id, masked_number, owner_name, bank_name) VALUES ($1, $2, $3, $4)
			 ON CONFLICT (id) DO NOTHING`,
			[]any{SecondBankCardID, "6104-33**-****-5678", "Clinic Treasury", "Mellat"},
		},
	}
	for _, e := range execs {
		if _, err := db.Exec(e.query, e.args...); err != nil {
			t.Fatalf("seed catalog: %v", err)
		}
	}
}

func SeedTestBooking(t *testing.T, db *sql.DB, clinicID uuid.UUID, date time.Time, slot string, price int64) *domain.Booking {
	t.Helper()

	now := time.Now().UTC()
	b := &domain.Booking{
		ID:           uuid.New(),
		PatientName:  "Sara Mohammadi",
		NationalCode: "0012345678",
		Phone:        "09121234567",
		SurgeryID:    SurgeryRhinoplastyID,
		Price:        domain.Money(price),
		SurgeryDate:  date,
		TimeSlot:     slot,
		DoctorID:     DoctorID,
		ConsultantID: ConsultantID,
		ClinicID:     clinicID,
		Documents:    []string{},
		Status:       domain.SettlementPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := db.Exec(
		`INSERT INTO bookings (id, patient_name, national_code, phone, surgery_id, price, surgery_date,
		 time_slot, doctor_id, consultant_id, clinic_id, documents, notes, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		b.ID, b.PatientName, b.NationalCode, b.Phone, b.SurgeryID, int64(b.Price), b.SurgeryDate,
		b.TimeSlot, b.DoctorID, b.ConsultantID, b.ClinicID, pq.Array(b.Documents), b.Notes, b.Status, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed test booking: %v", err)
	}
	return b
}

func SeedTestPayment(t *testing.T, db *sql.DB, bookingID uuid.UUID, amount int64, paidAt time.Time) *domain.Payment {
	t.Helper()

	p := &domain.Payment{
		ID:        uuid.New(),
		BookingID: bookingID,
		Amount:    domain.Money(amount),
		CardID:    BankCardID,
		PaidAt:    paidAt,
		CreatedAt: time.Now().UTC(),
	}

	_, err := db.Exec(
		`INSERT INTO payments (id, booking_id, amount, card_id, paid_at, receipt_ref, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.BookingID, int64(p.Amount), p.CardID, p.PaidAt, p.ReceiptRef, p.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed test payment: %v", err)
	}
	return p
}

func GetBookingStatus(t *testing.T, db *sql.DB, bookingID uuid.UUID) string {
	t.Helper()

	var status string
	err := db.QueryRow(`SELECT status FROM bookings WHERE id = $1`, bookingID).Scan(&status)
	if err != nil {
		t.Fatalf("get booking status %s: %v", bookingID, err)
	}
	return status
}

func CountPayments(t *testing.T, db *sql.DB, bookingID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM payments WHERE booking_id = $1`, bookingID).Scan(&count)
	if err != nil {
		t.Fatalf("count payments for booking %s: %v", bookingID, err)
	}
	return count
}
