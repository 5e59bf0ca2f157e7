package sources

import (
	"context"
	"time"

	"github.com/streamdal/cdc/types"
)

// Backend is implemented by every replication log backend. A Source owns
// exactly one Backend and is the only caller of its methods.
//
//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 . Backend
type Backend interface {
	// Name returns the registry name of the backend
	Name() string

	// Fetch returns the next ready message, or nil if nothing is ready. It
	// must not block.
	Fetch() (*types.RawMessage, error)

	// Poll waits until a message is ready to be fetched or the timeout
	// elapses. It does not consume the message.
	Poll(ctx context.Context, timeout time.Duration) error

	// CommitPositions durably persists the write and flush positions
	// upstream. Either position may be nil if nothing was acknowledged yet.
	CommitPositions(ctx context.Context, write, flush types.Position) error

	// NextScheduledTask returns a backend-specific maintenance task (ie. a
	// keepalive) or nil if the backend has nothing scheduled.
	NextScheduledTask(now time.Time) *types.ScheduledTask

	// Close releases the backend connection
	Close() error
}
