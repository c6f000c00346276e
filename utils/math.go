package utils

import (
	"math"
	"math/big"

	"github.com/moonrake/cashier-go/models"
)

// ApproximateAmount floors an amount to the precision the cashier tracks
// per currency: satoshi-level for BTC, micro-ether for ETH.
func ApproximateAmount(currency models.Currency, amount float64) float64 {
	switch currency {
	case models.BTC:
		return math.Floor(amount*100000000) / 100000000
	case models.ETH:
		return math.Floor(amount*1000000) / 1000000
	default:
		return math.Floor(amount*100) / 100
	}
}

func ToSatoshis(amount float64) int64 {
	return int64(math.Floor(amount * 1e8))
}

func ToWei(amount float64) *big.Int {
	f := new(big.Float).Mul(big.NewFloat(amount), big.NewFloat(1e18))
	wei := new(big.Int)
	f.Int(wei)
	return wei
}
