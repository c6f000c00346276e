package services

import (
	"testing"
	"time"

	"github.com/moonrake/cashier-go/chain"
	"github.com/moonrake/cashier-go/config"
	"github.com/moonrake/cashier-go/errors"
	"github.com/moonrake/cashier-go/models"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func newTestPolicy(t *testing.T) (*WithdrawalPolicy, *chain.AddressCodec) {
	t.Helper()
	cfg := &config.Config{
		Wallet: config.WalletConfig{Mnemonic: testMnemonic},
	}
	codec, err := chain.NewAddressCodec(cfg)
	if err != nil {
		t.Fatalf("building codec: %v", err)
	}
	return NewWithdrawalPolicy(cfg, codec), codec
}

func testAddress(t *testing.T, codec *chain.AddressCodec, currency models.Currency) string {
	t.Helper()
	address, err := codec.DeriveAddress("destination", currency, 0)
	if err != nil {
		t.Fatalf("deriving %s address: %v", currency, err)
	}
	return address
}

func snapshotWith(available, withdrawnToday float64) *models.LedgerSnapshot {
	return &models.LedgerSnapshot{
		AccountID:      "acct-1",
		Currency:       models.BTC,
		Available:      available,
		WithdrawnToday: withdrawnToday,
		AsOf:           time.Now().UTC(),
	}
}

func expectReason(t *testing.T, err error, reason string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected rejection %q, got nil", reason)
	}
	appErr := errors.AsAppError(err)
	if appErr.Message != reason {
		t.Fatalf("got reason %q, want %q", appErr.Message, reason)
	}
}

func TestEvaluateAcceptsValidRequest(t *testing.T) {
	policy, codec := newTestPolicy(t)
	address := testAddress(t, codec, models.BTC)

	if err := policy.Evaluate(snapshotWith(1, 0), models.BTC, 0.01, address); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
}

func TestEvaluateRejectsNonPositiveAmount(t *testing.T) {
	policy, codec := newTestPolicy(t)
	address := testAddress(t, codec, models.BTC)

	expectReason(t, policy.Evaluate(snapshotWith(1, 0), models.BTC, 0, address), "amount must be greater than 0")
	expectReason(t, policy.Evaluate(snapshotWith(1, 0), models.BTC, -0.5, address), "amount must be greater than 0")
}

func TestEvaluateRejectsMalformedAddress(t *testing.T) {
	policy, _ := newTestPolicy(t)

	expectReason(t, policy.Evaluate(snapshotWith(1, 0), models.BTC, 0.01, "not-an-address"), "invalid BTC address format")
	expectReason(t, policy.Evaluate(snapshotWith(1, 0), models.ETH, 0.5, "not-an-address"), "invalid ETH address format")
}

func TestEvaluateRejectsBelowMinimum(t *testing.T) {
	policy, codec := newTestPolicy(t)
	address := testAddress(t, codec, models.BTC)

	expectReason(t, policy.Evaluate(snapshotWith(1, 0), models.BTC, 0.0005, address), "minimum withdrawal is 0.001 BTC")
}

func TestEvaluateDailyCapBoundaryInclusive(t *testing.T) {
	policy, codec := newTestPolicy(t)
	address := testAddress(t, codec, models.BTC)

	// 0.5 already used today; 0.5 more lands exactly on the 1 BTC cap
	if err := policy.Evaluate(snapshotWith(5, 0.5), models.BTC, 0.5, address); err != nil {
		t.Fatalf("request landing exactly on the cap rejected: %v", err)
	}

	expectReason(t, policy.Evaluate(snapshotWith(5, 0.5), models.BTC, 0.6, address), "daily withdrawal limit exceeded (1 BTC)")
}

func TestEvaluateRejectsInsufficientBalance(t *testing.T) {
	policy, codec := newTestPolicy(t)
	address := testAddress(t, codec, models.BTC)

	expectReason(t, policy.Evaluate(snapshotWith(0, 0), models.BTC, 0.01, address), "insufficient balance")
}

func TestEvaluateCheckOrder(t *testing.T) {
	policy, _ := newTestPolicy(t)

	// a request failing several checks reports the first one: address format
	// is ruled on before the minimum and the balance
	expectReason(t, policy.Evaluate(snapshotWith(0, 0), models.BTC, 0.0001, "junk"), "invalid BTC address format")
}

func TestConfigOverridesLimits(t *testing.T) {
	cfg := &config.Config{
		Wallet: config.WalletConfig{Mnemonic: testMnemonic},
		Cashier: config.CashierConfig{
			Limits: map[string]config.LimitConfig{
				"btc": {MinAmount: 0.01, MaxDailyAmount: 2},
			},
		},
	}
	codec, err := chain.NewAddressCodec(cfg)
	if err != nil {
		t.Fatalf("building codec: %v", err)
	}
	policy := NewWithdrawalPolicy(cfg, codec)

	limit := policy.Limit(models.BTC)
	if limit.MinAmount != 0.01 || limit.MaxDailyAmount != 2 {
		t.Fatalf("override not applied: %+v", limit)
	}

	// eth keeps its defaults
	limit = policy.Limit(models.ETH)
	if limit.MinAmount != 0.01 || limit.MaxDailyAmount != 10 {
		t.Fatalf("eth defaults lost: %+v", limit)
	}
}
