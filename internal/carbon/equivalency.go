package carbon

// Equivalency expresses an emission in human-relatable terms.
// The factors are rough approximations for context only.
type Equivalency struct {
	// KmDriven is the distance an average passenger car drives for the same emission.
	KmDriven float64 `json:"km_driven"`

	// MilesDriven is KmDriven in miles.
	MilesDriven float64 `json:"miles_driven"`

	// TreeYears is the number of mature trees needed to sequester the emission in one year.
	TreeYears float64 `json:"tree_years"`
}

// Equivalencies derives driving distance and tree-years from an emission in kg CO2e.
func Equivalencies(co2Kg float64) Equivalency {
	km := co2Kg * KmPerKgCO2e
	tonnes := co2Kg / KgPerTonne
	return Equivalency{
		KmDriven:    km,
		MilesDriven: km * MilesPerKm,
		TreeYears:   tonnes * TreesPerTonneCO2ePerYear,
	}
}
