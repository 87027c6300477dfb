package expiry

import "math"

// maxIntervalMinutes caps auto-update intervals at roughly a year; anything
// beyond that is treated as garbage input.
const maxIntervalMinutes = 366 * 24 * 60

// NormalizeIntervalMinutes coerces a raw interval value, as it may arrive
// from an API payload or a config file, into a usable whole number of
// minutes. Fractions are truncated toward zero; NaN, infinities, values
// that truncate to zero or below, and absurdly large values all fall back
// to the supplied default.
func NormalizeIntervalMinutes(value float64, fallback int) int {
	t := math.Trunc(value)
	if math.IsNaN(t) || t <= 0 || t > maxIntervalMinutes {
		return fallback
	}
	return int(t)
}
