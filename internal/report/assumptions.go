package report

import (
	"fmt"

	"github.com/rshade/hpc-carbon-estimator/internal/carbon"
)

// Disclaimer is shown above every result.
const Disclaimer = "This is a simplified model for educational purposes. Real-world impacts depend on many more factors, " +
	"including specific hardware, real-time grid fluctuations, cooling efficiency details, and embodied carbon."

// LocationInfo returns the banner describing the selected location's average
// intensity, or "" for a custom intensity.
func LocationInfo(a *carbon.Assessment) string {
	if a.Scenario.IsCustom() {
		return ""
	}
	return fmt.Sprintf("Average Intensity for %s: %s gCO₂e/kWh", a.Scenario.Location, Plain(a.Intensity))
}

// Assumptions lists the simplifications behind an assessment, with the
// scenario's own values filled in.
func Assumptions(a *carbon.Assessment) []string {
	return []string{
		fmt.Sprintf("Constant Power Draw: Assumes nodes run at the calculated average power (%s W) for the entire job duration. Real power fluctuates.",
			Number(a.PowerPerNodeW, 1)),
		fmt.Sprintf("Average Carbon Intensity: Uses a single average carbon intensity value (%s gCO₂e/kWh for %s) for the grid. "+
			"Real-time intensity varies significantly based on time of day and grid load.",
			Plain(a.Intensity), a.Scenario.Location),
		fmt.Sprintf("Constant PUE: Assumes the selected PUE (%s) is constant. PUE can vary with load and external temperature.",
			Plain(a.Scenario.PUE)),
		"No Embodied Carbon: Excludes emissions from manufacturing hardware, building the datacentre, etc.",
		"Simplified Equivalencies: The driving and tree equivalencies are rough estimates for context.",
		"Hardware Homogeneity: Assumes all nodes have the same power characteristics.",
	}
}
