package services

import "math"

// Round2 rounds to two-decimal currency precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// MinorUnits converts a currency amount to the gateway's integer minor
// units (500.00 PHP -> 50000).
func MinorUnits(v float64) int64 {
	return int64(math.Round(v * 100))
}

// ShippingFee is flat 100 below the free-shipping threshold.
func ShippingFee(subtotal float64) float64 {
	if subtotal > 1000 {
		return 0
	}
	return 100
}
