package chain

import (
	"context"

	"github.com/moonrake/cashier-go/models"
)

// Broadcaster submits a signed payout transaction to its network and returns
// the chain transaction identifier. Implementations may block on network
// I/O; callers bound the call with a context deadline. A broadcaster must
// never retry on its own: a timed-out broadcast may still have landed, and
// re-sending risks paying twice.
type Broadcaster interface {
	Currency() models.Currency
	Broadcast(ctx context.Context, withdrawal *models.Withdrawal) (txID string, err error)
}

// Broadcasters indexes the configured broadcasters by currency.
type Broadcasters map[models.Currency]Broadcaster

func NewBroadcasterSet(broadcasters []Broadcaster) Broadcasters {
	set := make(Broadcasters, len(broadcasters))
	for _, b := range broadcasters {
		set[b.Currency()] = b
	}
	return set
}
