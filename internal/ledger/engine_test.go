package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nikan-clinic/frontdesk/internal/domain"
)

func newEngine(t *testing.T, price int64, notifier Notifier) *Engine {
	t.Helper()
	e, err := New(uuid.New(), domain.Money(price), nil, notifier)
	require.NoError(t, err)
	return e
}

func deposit(t *testing.T, amount int64) domain.Payment {
	t.Helper()
	p, err := domain.NewPayment(uuid.Nil, amount, uuid.New(), time.Now().UTC(), nil)
	require.NoError(t, err)
	return p
}

func TestInstallmentScenario(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, 160_000, nil)

	snap, err := e.AddPayment(ctx, deposit(t, 100_000))
	require.NoError(t, err)
	assert.Equal(t, domain.Money(100_000), snap.TotalPaid)
	assert.Equal(t, domain.Money(60_000), snap.Remaining)
	assert.Equal(t, domain.SettlementPartial, snap.Status)

	first := snap.Payments[0].ID

	snap, err = e.AddPayment(ctx, deposit(t, 60_000))
	require.NoError(t, err)
	assert.Equal(t, domain.Money(160_000), snap.TotalPaid)
	assert.Equal(t, domain.Money(0), snap.Remaining)
	assert.Equal(t, domain.SettlementPaid, snap.Status)

	snap, err = e.RemovePayment(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(60_000), snap.TotalPaid)
	assert.Equal(t, domain.Money(100_000), snap.Remaining)
	assert.Equal(t, domain.SettlementPartial, snap.Status)
}

func TestOverpaymentIsLegalAndVisible(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, 160_000, nil)

	snap, err := e.AddPayment(ctx, deposit(t, 200_000))
	require.NoError(t, err)
	assert.Equal(t, domain.Money(-40_000), snap.Remaining)
	assert.Equal(t, domain.SettlementPaid, snap.Status)
}

func TestPriceZeroWithPaymentsIsPaid(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, 160_000, nil)

	_, err := e.AddPayment(ctx, deposit(t, 50_000))
	require.NoError(t, err)

	snap, err := e.SetPrice(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(-50_000), snap.Remaining)
	assert.Equal(t, domain.SettlementPaid, snap.Status)
}

func TestRemovingAllPaymentsReturnsToPending(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, 90_000, nil)

	snap, err := e.AddPayment(ctx, deposit(t, 40_000))
	require.NoError(t, err)

	snap, err = e.RemovePayment(ctx, snap.Payments[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SettlementPending, snap.Status)
	assert.Equal(t, domain.Money(0), snap.TotalPaid)
	assert.Empty(t, snap.Payments)
}

func TestAddRemoveRoundTrip(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, 500_000, nil)

	_, err := e.AddPayment(ctx, deposit(t, 120_000))
	require.NoError(t, err)

	before := e.Snapshot()

	snap, err := e.AddPayment(ctx, deposit(t, 80_000))
	require.NoError(t, err)

	added := snap.Payments[len(snap.Payments)-1].ID
	_, err = e.RemovePayment(ctx, added)
	require.NoError(t, err)

	assert.Equal(t, before, e.Snapshot())
}

func TestTotalsAreSumOfCurrentSet(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, 1_000_000, nil)

	amounts := []int64{250_000, 100_000, 1, 649_999}
	var want int64
	for _, a := range amounts {
		snap, err := e.AddPayment(ctx, deposit(t, a))
		require.NoError(t, err)

		want += a
		var sum domain.Money
		for _, p := range snap.Payments {
			sum = sum.Add(p.Amount)
		}
		assert.Equal(t, domain.Money(want), snap.TotalPaid)
		assert.Equal(t, snap.TotalPaid, sum)
		assert.Equal(t, snap.Price.Sub(snap.TotalPaid), snap.Remaining)
	}
}

func TestOrderIndependence(t *testing.T) {
	ctx := context.Background()

	a := newEngine(t, 300_000, nil)
	_, err := a.AddPayment(ctx, deposit(t, 100_000))
	require.NoError(t, err)
	snapA, err := a.AddPayment(ctx, deposit(t, 150_000))
	require.NoError(t, err)

	b := newEngine(t, 300_000, nil)
	_, err = b.AddPayment(ctx, deposit(t, 150_000))
	require.NoError(t, err)
	snapB, err := b.AddPayment(ctx, deposit(t, 100_000))
	require.NoError(t, err)

	assert.Equal(t, snapA.TotalPaid, snapB.TotalPaid)
	assert.Equal(t, snapA.Remaining, snapB.Remaining)
	assert.Equal(t, snapA.Status, snapB.Status)
}

func TestSnapshotIdempotentAndDetached(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, 200_000, nil)

	_, err := e.AddPayment(ctx, deposit(t, 75_000))
	require.NoError(t, err)

	first := e.Snapshot()
	second := e.Snapshot()
	assert.Equal(t, first, second)

	// Mutating the returned copy must not leak into the ledger.
	first.Payments[0].Amount = 1
	assert.Equal(t, domain.Money(75_000), e.Snapshot().Payments[0].Amount)
}

func TestValidationFailuresLeaveStateUnchanged(t *testing.T) {
	ctx := context.Background()

	t.Run("non-positive amount", func(t *testing.T) {
		e := newEngine(t, 160_000, nil)
		before := e.Snapshot()

		for _, amount := range []int64{0, -5_000} {
			_, err := e.AddPayment(ctx, domain.Payment{Amount: domain.Money(amount), CardID: uuid.New()})
			require.ErrorIs(t, err, domain.ErrInvalidAmount)
		}
		assert.Equal(t, before, e.Snapshot())
	})

	t.Run("duplicate id", func(t *testing.T) {
		e := newEngine(t, 160_000, nil)
		snap, err := e.AddPayment(ctx, deposit(t, 10_000))
		require.NoError(t, err)

		dup := deposit(t, 20_000)
		dup.ID = snap.Payments[0].ID
		_, err = e.AddPayment(ctx, dup)
		require.ErrorIs(t, err, domain.ErrDuplicatePayment)
		assert.Equal(t, snap, e.Snapshot())
	})

	t.Run("remove unknown id", func(t *testing.T) {
		e := newEngine(t, 160_000, nil)
		snap, err := e.AddPayment(ctx, deposit(t, 10_000))
		require.NoError(t, err)

		_, err = e.RemovePayment(ctx, uuid.New())
		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, snap, e.Snapshot())
	})

	t.Run("negative price", func(t *testing.T) {
		e := newEngine(t, 160_000, nil)
		before := e.Snapshot()

		_, err := e.SetPrice(ctx, -1)
		require.ErrorIs(t, err, domain.ErrInvalidPrice)
		assert.Equal(t, before, e.Snapshot())
	})
}

func TestNewRejectsBadState(t *testing.T) {
	_, err := New(uuid.New(), -1, nil, nil)
	require.ErrorIs(t, err, domain.ErrInvalidPrice)

	p := deposit(t, 10_000)
	_, err = New(uuid.New(), 100_000, []domain.Payment{p, p}, nil)
	require.ErrorIs(t, err, domain.ErrDuplicatePayment)
}

func TestNotifierReceivesOneSnapshotPerMutation(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	notifier := NewMockNotifier(ctrl)

	bookingID := uuid.New()
	e, err := New(bookingID, 160_000, nil, notifier)
	require.NoError(t, err)

	var published []Snapshot
	notifier.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, snap Snapshot) error {
			published = append(published, snap)
			return nil
		}).
		Times(3)

	snap, err := e.AddPayment(ctx, deposit(t, 100_000))
	require.NoError(t, err)
	_, err = e.SetPrice(ctx, 120_000)
	require.NoError(t, err)
	_, err = e.RemovePayment(ctx, snap.Payments[0].ID)
	require.NoError(t, err)

	require.Len(t, published, 3)
	assert.Equal(t, domain.SettlementPartial, published[0].Status)
	assert.Equal(t, domain.SettlementPartial, published[1].Status)
	assert.Equal(t, domain.SettlementPending, published[2].Status)
	for _, snap := range published {
		assert.Equal(t, bookingID, snap.BookingID)
	}

	// Failed validation must not publish anything.
	_, err = e.AddPayment(ctx, domain.Payment{Amount: 0})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestNotifyFailureKeepsMutation(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	notifier := NewMockNotifier(ctrl)

	e, err := New(uuid.New(), 160_000, nil, notifier)
	require.NoError(t, err)

	notifier.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		Return(errors.New("fan-out endpoint down"))

	snap, err := e.AddPayment(ctx, deposit(t, 100_000))
	require.ErrorIs(t, err, domain.ErrNotifyFailed)
	assert.NotErrorIs(t, err, domain.ErrInvalidAmount)

	// The mutation stands and the returned snapshot is the new state.
	assert.Equal(t, domain.Money(100_000), snap.TotalPaid)
	assert.Equal(t, snap, e.Snapshot())
}
