package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikan-clinic/frontdesk/internal/domain"
	"github.com/nikan-clinic/frontdesk/internal/ledger"
)

func sampleSnapshot() ledger.Snapshot {
	return ledger.Snapshot{
		BookingID: uuid.New(),
		Price:     160_000,
		TotalPaid: 100_000,
		Remaining: 60_000,
		Status:    domain.SettlementPartial,
		Payments: []domain.Payment{
			{ID: uuid.New(), Amount: 100_000, CardID: uuid.New()},
		},
	}
}

func TestWebhookPublish(t *testing.T) {
	var got snapshotPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "Bearer hook-secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	snap := sampleSnapshot()
	hook := NewWebhook(srv.URL, "hook-secret", 5*time.Second)

	require.NoError(t, hook.Publish(context.Background(), snap))
	assert.Equal(t, snap.BookingID, got.BookingID)
	assert.Equal(t, int64(100_000), got.TotalPaid)
	assert.Equal(t, domain.SettlementPartial, got.Status)
	assert.Equal(t, []uuid.UUID{snap.Payments[0].ID}, got.PaymentIDs)
}

func TestWebhookPublishEndpointError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	hook := NewWebhook(srv.URL, "", time.Second)
	err := hook.Publish(context.Background(), sampleSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestFanoutDeliversToAllAndJoinsErrors(t *testing.T) {
	var first, second int
	failing := ledger.NotifierFunc(func(ctx context.Context, snap ledger.Snapshot) error {
		first++
		return assert.AnError
	})
	counting := ledger.NotifierFunc(func(ctx context.Context, snap ledger.Snapshot) error {
		second++
		return nil
	})

	err := Fanout{failing, counting}.Publish(context.Background(), sampleSnapshot())
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}
