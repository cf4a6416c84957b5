package iwakeannouncer

import (
	"context"

	"github.com/corray333/backend-labs/storefront/internal/wake"
)

// IWakeAnnouncer broadcasts wake messages to checkout agents.
type IWakeAnnouncer interface {
	Name() string
	Announce(ctx context.Context, msg wake.Message) error
}
