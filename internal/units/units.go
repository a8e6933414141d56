// Package units holds the pure unit conversions for activity metrics.
// Canonical internal units are miles (distance), feet (elevation),
// mph (speed) and minutes per mile (pace).
package units

const (
	MilesPerKm    = 0.621371
	MilesPerMeter = 0.000621371
	MilesPerYard  = 0.000568182
	FeetPerMeter  = 3.28084
	KmPerMile     = 1.60934
)

// Distance units accepted on the wire.
const (
	UnitMiles  = "miles"
	UnitKm     = "km"
	UnitMeters = "meters"
	UnitYards  = "yards"
	UnitFeet   = "feet"
	UnitMph    = "mph"
	UnitKph    = "kph"
	UnitMinMi  = "min/mile"
	UnitMinKm  = "min/km"
)

// ToMiles converts a distance value in the given unit to miles. Unknown
// units pass the value through unchanged and are treated as already
// canonical.
func ToMiles(value float64, unit string) float64 {
	switch unit {
	case UnitKm:
		return value * MilesPerKm
	case UnitMeters:
		return value * MilesPerMeter
	case UnitYards:
		return value * MilesPerYard
	default:
		return value
	}
}

// ToFeet converts an elevation value in the given unit to feet.
func ToFeet(value float64, unit string) float64 {
	if unit == UnitMeters {
		return value * FeetPerMeter
	}
	return value
}

// DistanceIn converts canonical miles into the target unit for comparison
// against a rule's declared unit.
func DistanceIn(miles float64, targetUnit string) float64 {
	if targetUnit == UnitKm {
		return miles / MilesPerKm
	}
	return miles
}

// ElevationIn converts canonical feet into the target unit.
func ElevationIn(feet float64, targetUnit string) float64 {
	if targetUnit == UnitMeters {
		return feet / FeetPerMeter
	}
	return feet
}

// SpeedIn converts canonical mph into the target unit.
func SpeedIn(mph float64, targetUnit string) float64 {
	if targetUnit == UnitKph {
		return mph * KmPerMile
	}
	return mph
}

// PaceIn converts canonical minutes-per-mile into the target unit.
func PaceIn(minPerMile float64, targetUnit string) float64 {
	if targetUnit == UnitMinKm {
		return minPerMile / KmPerMile
	}
	return minPerMile
}
