package carbon

import "sort"

// ComparisonRow is the emission of the same job on another location's grid.
type ComparisonRow struct {
	Location  string  `json:"location"`
	Intensity float64 `json:"carbon_intensity_gco2e_kwh"`
	CO2Kg     float64 `json:"estimated_emissions_kg"`
}

// Compare re-runs Estimate for every fixed location in the table, holding
// node count, duration, power and PUE from base and varying only the carbon
// intensity. Rows are sorted by ascending emissions; equal emissions keep
// table order.
func Compare(table *LocationTable, base JobParameters) []ComparisonRow {
	fixed := table.Fixed()
	rows := make([]ComparisonRow, 0, len(fixed))
	for _, loc := range fixed {
		impact := Estimate(base.WithIntensity(*loc.Intensity))
		rows = append(rows, ComparisonRow{
			Location:  loc.Name,
			Intensity: *loc.Intensity,
			CO2Kg:     impact.CO2Kg,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CO2Kg < rows[j].CO2Kg
	})
	return rows
}
