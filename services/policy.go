package services

import (
	"fmt"
	"strings"

	"github.com/moonrake/cashier-go/chain"
	"github.com/moonrake/cashier-go/config"
	"github.com/moonrake/cashier-go/errors"
	"github.com/moonrake/cashier-go/models"
)

// Default per-currency limits, overridable through config.
var MinWithdrawalAmounts = map[models.Currency]float64{
	models.BTC: 0.001,
	models.ETH: 0.01,
}

var MaxDailyWithdrawalAmounts = map[models.Currency]float64{
	models.BTC: 1,
	models.ETH: 10,
}

type WithdrawalLimit struct {
	MinAmount      float64
	MaxDailyAmount float64
	RequireKYC     bool
}

// WithdrawalPolicy rules on withdrawal requests. Evaluate is pure: all
// ledger state arrives in the snapshot, so the policy can be exercised with
// fabricated ledgers and no database.
type WithdrawalPolicy struct {
	limits map[models.Currency]WithdrawalLimit
	codec  *chain.AddressCodec
}

func NewWithdrawalPolicy(cfg *config.Config, codec *chain.AddressCodec) *WithdrawalPolicy {
	limits := make(map[models.Currency]WithdrawalLimit, len(models.Currencies))
	for _, currency := range models.Currencies {
		limit := WithdrawalLimit{
			MinAmount:      MinWithdrawalAmounts[currency],
			MaxDailyAmount: MaxDailyWithdrawalAmounts[currency],
		}
		if override, ok := cfg.Cashier.Limits[string(currency)]; ok {
			limit = WithdrawalLimit{
				MinAmount:      override.MinAmount,
				MaxDailyAmount: override.MaxDailyAmount,
				RequireKYC:     override.RequireKYC,
			}
		}
		limits[currency] = limit
	}

	return &WithdrawalPolicy{limits: limits, codec: codec}
}

// Limit returns the limits for a supported currency. Asking for anything
// else is a caller bug.
func (p *WithdrawalPolicy) Limit(currency models.Currency) WithdrawalLimit {
	limit, ok := p.limits[currency]
	if !ok {
		panic("unreachable")
	}
	return limit
}

// Evaluate runs the checks in a fixed order and stops at the first
// failure; the returned error carries the reason for that check alone.
func (p *WithdrawalPolicy) Evaluate(snapshot *models.LedgerSnapshot, currency models.Currency, amount float64, destinationAddress string) error {
	limit := p.Limit(currency)
	ticker := strings.ToUpper(string(currency))

	if amount <= 0 {
		return errors.NewValidationError("amount must be greater than 0")
	}

	if !p.codec.ValidateAddress(destinationAddress, currency) {
		return errors.NewValidationError(fmt.Sprintf("invalid %s address format", ticker))
	}

	if amount < limit.MinAmount {
		return errors.NewValidationError(fmt.Sprintf("minimum withdrawal is %g %s", limit.MinAmount, ticker))
	}

	// boundary inclusive: a request landing exactly on the cap passes
	if snapshot.WithdrawnToday+amount > limit.MaxDailyAmount {
		return errors.NewValidationError(fmt.Sprintf("daily withdrawal limit exceeded (%g %s)", limit.MaxDailyAmount, ticker))
	}

	if amount > snapshot.Available {
		return errors.NewValidationError("insufficient balance")
	}

	return nil
}
