package booking_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikan-clinic/frontdesk/internal/domain"
	"github.com/nikan-clinic/frontdesk/internal/ledger"
	"github.com/nikan-clinic/frontdesk/internal/repository"
	"github.com/nikan-clinic/frontdesk/internal/service/booking"
	"github.com/nikan-clinic/frontdesk/internal/testutil"
)

func newService(t *testing.T, notifier ledger.Notifier) (*booking.Service, *sql.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	testutil.SeedCatalogs(t, db)

	svc := booking.NewService(
		repository.NewBookingRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewCatalogRepository(db),
		notifier,
		db,
	)
	return svc, db
}

func admissionRequest(clinicID uuid.UUID, slot string) booking.AdmissionRequest {
	return booking.AdmissionRequest{
		PatientName:  "Sara Mohammadi",
		NationalCode: "0012345678",
		Phone:        "09121234567",
		SurgeryID:    testutil.SurgeryRhinoplastyID,
		SurgeryDate:  time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		TimeSlot:     slot,
		DoctorID:     testutil.DoctorID,
		ConsultantID: testutil.ConsultantID,
		ClinicID:     clinicID,
	}
}

func TestAdmitSnapshotsCatalogPrice(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	svc, _ := newService(t, nil)
	ctx := context.Background()

	b, err := svc.Admit(ctx, admissionRequest(testutil.ClinicID, "10:30"))
	require.NoError(t, err)

	assert.Equal(t, domain.Money(testutil.RhinoplastyPrice), b.Price)
	assert.Equal(t, domain.SettlementPending, b.Status)

	detail, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(testutil.RhinoplastyPrice), detail.Snapshot.Price)
	assert.Equal(t, domain.Money(0), detail.Snapshot.TotalPaid)
	assert.Equal(t, domain.SettlementPending, detail.Snapshot.Status)
}

func TestAdmitPriceOverride(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	svc, _ := newService(t, nil)
	ctx := context.Background()

	override := int64(120_000_000)
	req := admissionRequest(testutil.ClinicID, "11:00")
	req.PriceOverride = &override

	b, err := svc.Admit(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(override), b.Price)
}

func TestAdmitRejectsTakenSlot(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	svc, _ := newService(t, nil)
	ctx := context.Background()

	_, err := svc.Admit(ctx, admissionRequest(testutil.ClinicID, "09:00"))
	require.NoError(t, err)

	_, err = svc.Admit(ctx, admissionRequest(testutil.ClinicID, "09:00"))
	assert.ErrorIs(t, err, domain.ErrSlotTaken)

	// Same slot at another clinic is fine.
	_, err = svc.Admit(ctx, admissionRequest(testutil.SmallClinicID, "09:00"))
	assert.NoError(t, err)
}

func TestAdmitRejectsFullClinic(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	svc, _ := newService(t, nil)
	ctx := context.Background()

	_, err := svc.Admit(ctx, admissionRequest(testutil.SmallClinicID, "08:00"))
	require.NoError(t, err)
	_, err = svc.Admit(ctx, admissionRequest(testutil.SmallClinicID, "08:30"))
	require.NoError(t, err)

	_, err = svc.Admit(ctx, admissionRequest(testutil.SmallClinicID, "09:00"))
	assert.ErrorIs(t, err, domain.ErrClinicFull)
}

func TestAdmitUnknownSurgery(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	svc, _ := newService(t, nil)
	ctx := context.Background()

	req := admissionRequest(testutil.ClinicID, "10:00")
	req.SurgeryID = uuid.New()

	_, err := svc.Admit(ctx, req)
	assert.ErrorIs(t, err, domain.ErrSurgeryNotFound)
}

func TestDepositLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	var published []ledger.Snapshot
	notifier := ledger.NotifierFunc(func(_ context.Context, snap ledger.Snapshot) error {
		published = append(published, snap)
		return nil
	})

	svc, db := newService(t, notifier)
	ctx := context.Background()

	override := int64(160_000_000)
	req := admissionRequest(testutil.ClinicID, "12:00")
	req.PriceOverride = &override
	b, err := svc.Admit(ctx, req)
	require.NoError(t, err)

	snap, err := svc.AddDeposit(ctx, booking.AddDepositRequest{
		BookingID: b.ID,
		Amount:    100_000_000,
		CardID:    testutil.BankCardID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementPartial, snap.Status)
	assert.Equal(t, domain.Money(60_000_000), snap.Remaining)

	snap, err = svc.AddDeposit(ctx, booking.AddDepositRequest{
		BookingID: b.ID,
		Amount:    60_000_000,
		CardID:    testutil.SecondBankCardID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementPaid, snap.Status)
	assert.Equal(t, domain.Money(0), snap.Remaining)
	require.Len(t, snap.Payments, 2)

	// The stored status mirrors the recomputed one.
	assert.Equal(t, string(domain.SettlementPaid), testutil.GetBookingStatus(t, db, b.ID))

	// Removing the first deposit drops the booking back to partial.
	snap, err = svc.RemoveDeposit(ctx, b.ID, snap.Payments[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementPartial, snap.Status)
	assert.Equal(t, domain.Money(100_000_000), snap.Remaining)
	assert.Equal(t, 1, testutil.CountPayments(t, db, b.ID))
	assert.Equal(t, string(domain.SettlementPartial), testutil.GetBookingStatus(t, db, b.ID))

	// One emission per successful mutation.
	assert.Len(t, published, 3)

	detail, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementPartial, detail.Snapshot.Status)
	assert.Len(t, detail.Snapshot.Payments, 1)
}

func TestSetPriceReclassifies(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	svc, _ := newService(t, nil)
	ctx := context.Background()

	override := int64(160_000_000)
	req := admissionRequest(testutil.ClinicID, "13:00")
	req.PriceOverride = &override
	b, err := svc.Admit(ctx, req)
	require.NoError(t, err)

	_, err = svc.AddDeposit(ctx, booking.AddDepositRequest{
		BookingID: b.ID,
		Amount:    100_000_000,
		CardID:    testutil.BankCardID,
	})
	require.NoError(t, err)

	// Dropping the price below the amount already paid is legal and shows
	// up as overpayment.
	snap, err := svc.SetPrice(ctx, b.ID, 80_000_000)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementPaid, snap.Status)
	assert.Equal(t, domain.Money(-20_000_000), snap.Remaining)
}

func TestNotifyFailureDoesNotRollBack(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	notifier := ledger.NotifierFunc(func(_ context.Context, _ ledger.Snapshot) error {
		return errors.New("webhook endpoint down")
	})

	svc, _ := newService(t, notifier)
	ctx := context.Background()

	b, err := svc.Admit(ctx, admissionRequest(testutil.ClinicID, "14:00"))
	require.NoError(t, err)

	snap, err := svc.AddDeposit(ctx, booking.AddDepositRequest{
		BookingID: b.ID,
		Amount:    50_000_000,
		CardID:    testutil.BankCardID,
	})
	require.ErrorIs(t, err, domain.ErrNotifyFailed)
	assert.Equal(t, domain.SettlementPartial, snap.Status)

	// The deposit committed despite the delivery failure.
	detail, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(50_000_000), detail.Snapshot.TotalPaid)
	require.Len(t, detail.Snapshot.Payments, 1)
}

func TestRemoveUnknownDeposit(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	svc, _ := newService(t, nil)
	ctx := context.Background()

	b, err := svc.Admit(ctx, admissionRequest(testutil.ClinicID, "15:00"))
	require.NoError(t, err)

	_, err = svc.RemoveDeposit(ctx, b.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
