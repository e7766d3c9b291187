package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// MaxDecimalPlaces is the scale of every stored quantity and price
const MaxDecimalPlaces = 8

// Upper bounds (exclusive) matching NUMERIC(28, 8) quantities and NUMERIC(20, 8) prices
var (
	MaxQuantity = decimal.New(1, 20)
	MaxPrice    = decimal.New(1, 12)

	maxGems = decimal.NewFromInt(math.MaxInt64)
)

// CheckQuantity validates a trade or holding quantity
func CheckQuantity(q decimal.Decimal) error {
	return checkAmount("Quantity", q, MaxQuantity)
}

// CheckPrice validates a trade or asset price
func CheckPrice(p decimal.Decimal) error {
	return checkAmount("Price", p, MaxPrice)
}

func checkAmount(field string, v, limit decimal.Decimal) error {
	if !v.IsPositive() {
		return Validation("%s must be positive", field)
	}
	if !v.Truncate(MaxDecimalPlaces).Equal(v) {
		return Validation("%s allows at most %d decimal places: %s", field, MaxDecimalPlaces, v.String())
	}
	if v.GreaterThanOrEqual(limit) {
		return Validation("%s must be less than %s: %s", field, limit.String(), v.String())
	}
	return nil
}

// GemCost returns quantity × price truncated to whole gems.
// It fails when the value does not fit a gem balance.
func GemCost(quantity, price decimal.Decimal) (int64, error) {
	notional := quantity.Mul(price)
	if notional.GreaterThan(maxGems) {
		return 0, Validation("Trade value exceeds the gem limit: %s", notional.String())
	}
	return notional.IntPart(), nil
}

// AddGems returns balance + delta, failing instead of wrapping around
func AddGems(balance, delta int64) (int64, error) {
	if (delta > 0 && balance > math.MaxInt64-delta) || (delta < 0 && balance < math.MinInt64-delta) {
		return 0, Validation("Gem balance would exceed the gem limit")
	}
	return balance + delta, nil
}
