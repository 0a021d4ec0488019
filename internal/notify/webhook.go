// Package notify carries ledger snapshots to downstream observers: the
// realtime fan-out endpoint other front-desk sessions subscribe to, and
// any additional collaborators composed through Fanout.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/nikan-clinic/frontdesk/internal/domain"
	"github.com/nikan-clinic/frontdesk/internal/ledger"
)

type snapshotPayload struct {
	BookingID  uuid.UUID               `json:"booking_id"`
	Price      int64                   `json:"price"`
	TotalPaid  int64                   `json:"total_paid"`
	Remaining  int64                   `json:"remaining"`
	Status     domain.SettlementStatus `json:"status"`
	PaymentIDs []uuid.UUID             `json:"payment_ids"`
	EmittedAt  time.Time               `json:"emitted_at"`
}

// Webhook publishes snapshots to the realtime fan-out endpoint. Receivers
// treat the payload as a change poke and refetch booking state; the
// authoritative rows are already committed by the time they read.
type Webhook struct {
	client *resty.Client
	url    string
}

func NewWebhook(url, secret string, timeout time.Duration) *Webhook {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if secret != "" {
		client.SetAuthToken(secret)
	}
	return &Webhook{client: client, url: url}
}

func (w *Webhook) Publish(ctx context.Context, snap ledger.Snapshot) error {
	ids := make([]uuid.UUID, 0, len(snap.Payments))
	for _, p := range snap.Payments {
		ids = append(ids, p.ID)
	}

	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(snapshotPayload{
			BookingID:  snap.BookingID,
			Price:      int64(snap.Price),
			TotalPaid:  int64(snap.TotalPaid),
			Remaining:  int64(snap.Remaining),
			Status:     snap.Status,
			PaymentIDs: ids,
			EmittedAt:  time.Now().UTC(),
		}).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("Webhook.Publish: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("Webhook.Publish: endpoint returned %s", resp.Status())
	}
	return nil
}
