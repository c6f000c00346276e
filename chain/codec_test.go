package chain

import (
	"strings"
	"testing"

	"github.com/moonrake/cashier-go/config"
	"github.com/moonrake/cashier-go/models"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func newTestCodec(t *testing.T) *AddressCodec {
	t.Helper()
	codec, err := NewAddressCodec(&config.Config{
		Wallet: config.WalletConfig{Mnemonic: testMnemonic},
	})
	if err != nil {
		t.Fatalf("building codec: %v", err)
	}
	return codec
}

func TestDeriveAddressDeterministic(t *testing.T) {
	a := newTestCodec(t)
	b := newTestCodec(t)

	for _, currency := range models.Currencies {
		first, err := a.DeriveAddress("user-1", currency, 0)
		if err != nil {
			t.Fatalf("deriving %s address: %v", currency, err)
		}
		second, err := b.DeriveAddress("user-1", currency, 0)
		if err != nil {
			t.Fatalf("deriving %s address: %v", currency, err)
		}
		if first != second {
			t.Errorf("%s derivation not deterministic: %s vs %s", currency, first, second)
		}
	}
}

func TestDeriveAddressDistinctPerUserAndIndex(t *testing.T) {
	codec := newTestCodec(t)

	for _, currency := range models.Currencies {
		base, err := codec.DeriveAddress("user-1", currency, 0)
		if err != nil {
			t.Fatalf("deriving %s address: %v", currency, err)
		}
		otherUser, err := codec.DeriveAddress("user-2", currency, 0)
		if err != nil {
			t.Fatalf("deriving %s address: %v", currency, err)
		}
		otherIndex, err := codec.DeriveAddress("user-1", currency, 1)
		if err != nil {
			t.Fatalf("deriving %s address: %v", currency, err)
		}
		if base == otherUser {
			t.Errorf("%s: two users share an address: %s", currency, base)
		}
		if base == otherIndex {
			t.Errorf("%s: two indices share an address: %s", currency, base)
		}
	}
}

func TestDerivedAddressesValidate(t *testing.T) {
	codec := newTestCodec(t)

	for _, currency := range models.Currencies {
		for index := uint32(0); index < 3; index++ {
			address, err := codec.DeriveAddress("user-1", currency, index)
			if err != nil {
				t.Fatalf("deriving %s address: %v", currency, err)
			}
			if !codec.ValidateAddress(address, currency) {
				t.Errorf("derived %s address fails validation: %s", currency, address)
			}
		}
	}
}

func TestValidateAddressRejectsGarbage(t *testing.T) {
	codec := newTestCodec(t)

	for _, input := range []string{"", "not-an-address", "0x", "1234567890"} {
		for _, currency := range models.Currencies {
			if codec.ValidateAddress(input, currency) {
				t.Errorf("%q accepted as %s address", input, currency)
			}
		}
	}
}

func TestValidateAddressRejectsCrossCurrency(t *testing.T) {
	codec := newTestCodec(t)

	btc, err := codec.DeriveAddress("user-1", models.BTC, 0)
	if err != nil {
		t.Fatalf("deriving btc address: %v", err)
	}
	eth, err := codec.DeriveAddress("user-1", models.ETH, 0)
	if err != nil {
		t.Fatalf("deriving eth address: %v", err)
	}

	if codec.ValidateAddress(btc, models.ETH) {
		t.Errorf("btc address %s accepted as eth", btc)
	}
	if codec.ValidateAddress(eth, models.BTC) {
		t.Errorf("eth address %s accepted as btc", eth)
	}
}

func TestValidateETHAddressRequiresPrefix(t *testing.T) {
	codec := newTestCodec(t)

	address, err := codec.DeriveAddress("user-1", models.ETH, 0)
	if err != nil {
		t.Fatalf("deriving eth address: %v", err)
	}
	bare := strings.TrimPrefix(address, "0x")
	if codec.ValidateAddress(bare, models.ETH) {
		t.Errorf("eth address without 0x prefix accepted: %s", bare)
	}
}

func TestUnsupportedCurrencyPanics(t *testing.T) {
	codec := newTestCodec(t)

	defer func() {
		if recover() == nil {
			t.Error("expected panic for unsupported currency")
		}
	}()
	codec.ValidateAddress("whatever", models.Currency("doge"))
}
