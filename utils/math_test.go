package utils

import (
	"math/big"
	"testing"

	"github.com/moonrake/cashier-go/models"
)

func TestApproximateAmount(t *testing.T) {
	cases := []struct {
		currency models.Currency
		in, want float64
	}{
		{models.BTC, 0.123456789, 0.12345678},
		{models.BTC, 1, 1},
		{models.ETH, 0.1234567891, 0.123456},
		{models.Currency("usd"), 10.999, 10.99},
	}
	for _, c := range cases {
		if got := ApproximateAmount(c.currency, c.in); got != c.want {
			t.Errorf("ApproximateAmount(%s, %v) = %v, want %v", c.currency, c.in, got, c.want)
		}
	}
}

func TestToSatoshis(t *testing.T) {
	if got := ToSatoshis(0.00000001); got != 1 {
		t.Errorf("one satoshi: got %d", got)
	}
	if got := ToSatoshis(1); got != 100000000 {
		t.Errorf("one btc: got %d", got)
	}
}

func TestToWei(t *testing.T) {
	if got := ToWei(1); got.Cmp(big.NewInt(1e18)) != 0 {
		t.Errorf("one ether: got %s", got)
	}
	if got := ToWei(0.000001); got.Cmp(big.NewInt(1e12)) != 0 {
		t.Errorf("one micro ether: got %s", got)
	}
}
