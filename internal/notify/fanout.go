package notify

import (
	"context"
	"errors"

	"github.com/nikan-clinic/frontdesk/internal/ledger"
)

// Fanout publishes to every notifier in order and joins their errors.
// Each collaborator still gets the snapshot even if an earlier one fails.
type Fanout []ledger.Notifier

func (f Fanout) Publish(ctx context.Context, snap ledger.Snapshot) error {
	var errs []error
	for _, n := range f {
		if err := n.Publish(ctx, snap); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
