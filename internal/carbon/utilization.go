package carbon

// PowerPerNodeWatts interpolates the average power draw of one node between
// its idle and peak power, given the average utilization in percent.
//
//	power = idle + (peak - idle) × (utilization / 100)
//
// The utilization is not clamped here; the input layer keeps it within [0, 100].
func PowerPerNodeWatts(idleW, peakW, utilizationPct float64) float64 {
	return idleW + (peakW-idleW)*(utilizationPct/100.0)
}

// WattsToKilowatts converts watts to kilowatts.
func WattsToKilowatts(w float64) float64 {
	return w / WattsPerKilowatt
}

// Clamp restricts a value to the range [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
