package subscriber

import "context"

// LiveHandle is a connected realtime delivery endpoint for one user.
type LiveHandle interface {
	ID() string
	Deliver(ctx context.Context, payload []byte) error
}
