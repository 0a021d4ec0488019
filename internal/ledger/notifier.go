package ledger

import "context"

//go:generate mockgen -source=notifier.go -destination=notifier_mock.go -package=ledger

// Notifier is the boundary to the external persistence/notification
// collaborator. It receives exactly one snapshot per successful mutation.
// Delivery is at-least-once from the engine's perspective; durability and
// fan-out to other observers are the collaborator's job.
type Notifier interface {
	Publish(ctx context.Context, snap Snapshot) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, snap Snapshot) error

func (f NotifierFunc) Publish(ctx context.Context, snap Snapshot) error {
	return f(ctx, snap)
}
