package carbon

// JobParameters holds the inputs of one estimation call.
// A nil field means the value has not been supplied yet.
type JobParameters struct {
	// NodeCount is the number of compute nodes used by the job.
	NodeCount *int

	// DurationHours is the wall-clock duration of the job.
	DurationHours *float64

	// PowerPerNodeKW is the average power draw of one node in kilowatts.
	PowerPerNodeKW *float64

	// PUE is the datacenter Power Usage Effectiveness (>= 1.0).
	PUE *float64

	// CarbonIntensity is the grid carbon intensity in gCO2e/kWh.
	CarbonIntensity *float64
}

// NewJobParameters returns parameters with every field present.
func NewJobParameters(nodeCount int, durationHours, powerPerNodeKW, pue, carbonIntensity float64) JobParameters {
	return JobParameters{
		NodeCount:       &nodeCount,
		DurationHours:   &durationHours,
		PowerPerNodeKW:  &powerPerNodeKW,
		PUE:             &pue,
		CarbonIntensity: &carbonIntensity,
	}
}

// WithIntensity returns a copy of p with only the carbon intensity replaced.
func (p JobParameters) WithIntensity(carbonIntensity float64) JobParameters {
	p.CarbonIntensity = &carbonIntensity
	return p
}

// complete reports whether every field is present.
func (p JobParameters) complete() bool {
	return p.NodeCount != nil &&
		p.DurationHours != nil &&
		p.PowerPerNodeKW != nil &&
		p.PUE != nil &&
		p.CarbonIntensity != nil
}

// ImpactResult is the outcome of one estimation.
type ImpactResult struct {
	// EnergyKWh is the datacenter energy including PUE overhead.
	EnergyKWh float64 `json:"total_energy_kwh"`

	// CO2Kg is the emitted mass in kg CO2e.
	CO2Kg float64 `json:"total_co2_kg"`
}

// Estimate calculates energy consumption and carbon emissions for a job.
//
// The calculation:
//  1. Node energy (kWh) = nodes × power per node (kW) × hours
//  2. Datacenter energy (kWh) = node energy × PUE
//  3. Carbon (gCO2e) = datacenter energy × grid intensity
//  4. Carbon (kgCO2e) = carbon (g) / 1000
//
// If any input is missing or the intensity is negative the result is (0, 0).
func Estimate(p JobParameters) ImpactResult {
	r, _ := EstimateOK(p)
	return r
}

// EstimateOK is Estimate, additionally reporting false when the zero result
// was produced because an input was missing or the intensity was negative.
func EstimateOK(p JobParameters) (ImpactResult, bool) {
	if !p.complete() {
		pkgLogger().Debug().Msg("estimate skipped: missing input")
		return ImpactResult{}, false
	}
	if *p.CarbonIntensity < 0 {
		pkgLogger().Debug().
			Float64("carbon_intensity", *p.CarbonIntensity).
			Msg("estimate skipped: negative carbon intensity")
		return ImpactResult{}, false
	}

	nodeEnergyKWh := float64(*p.NodeCount) * *p.PowerPerNodeKW * *p.DurationHours
	datacenterEnergyKWh := nodeEnergyKWh * *p.PUE
	co2Grams := datacenterEnergyKWh * *p.CarbonIntensity
	co2Kg := co2Grams / GramsPerKg

	return ImpactResult{
		EnergyKWh: datacenterEnergyKWh,
		CO2Kg:     co2Kg,
	}, true
}
