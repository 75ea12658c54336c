// Package carbon estimates the energy use and carbon footprint of an HPC job
// from node count, duration, per-node power draw, datacenter PUE and the
// carbon intensity of the electricity grid.
package carbon

const (
	// CustomLocation is the reference table key that carries no fixed intensity.
	// Selecting it means the caller supplies the intensity interactively.
	CustomLocation = "Custom"

	// DefaultLocation is the location preselected by the presentation layer.
	DefaultLocation = "UK (Mixed, increasing Renewables)"

	// KmPerKgCO2e is the approximate distance driven by an average passenger car
	// per kg CO2e, assuming 0.175 kgCO2e per km.
	// Source: EPA GHG Equivalency Calculator (approximation).
	KmPerKgCO2e = 1 / 0.175

	// MilesPerKm converts kilometres to statute miles.
	MilesPerKm = 0.621371

	// TreesPerTonneCO2ePerYear is the number of tree-years of sequestration per
	// tonne CO2e. A mature tree sequesters roughly 20-25 kg CO2 per year, so
	// 40-50 trees cover one tonne; 45 is used.
	TreesPerTonneCO2ePerYear = 45

	// GramsPerKg converts grams to kilograms.
	GramsPerKg = 1000.0

	// KgPerTonne converts kilograms to metric tonnes.
	KgPerTonne = 1000.0

	// WattsPerKilowatt converts watts to kilowatts.
	WattsPerKilowatt = 1000.0
)
