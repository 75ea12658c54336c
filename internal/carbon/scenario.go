package carbon

// Scenario is one set of user inputs describing a job, its hardware and its hosting location.
type Scenario struct {
	NodeCount      int     `json:"node_count"`
	DurationHours  float64 `json:"duration_hours"`
	UtilizationPct float64 `json:"utilization_pct"`
	IdleWatts      float64 `json:"power_idle_w"`
	PeakWatts      float64 `json:"power_peak_w"`
	PUE            float64 `json:"pue"`
	Location       string  `json:"location"`

	// CustomIntensity is only read when Location is CustomLocation.
	CustomIntensity *float64 `json:"custom_intensity_gco2e_kwh,omitempty"`
}

// IsCustom reports whether the scenario uses a caller-supplied intensity.
func (s Scenario) IsCustom() bool {
	return s.Location == CustomLocation
}

// Assessment is everything the presentation layer shows for a scenario.
type Assessment struct {
	Scenario Scenario `json:"scenario"`

	// Intensity is the resolved grid carbon intensity in gCO2e/kWh.
	Intensity float64 `json:"carbon_intensity_gco2e_kwh"`

	PowerPerNodeW  float64 `json:"power_per_node_w"`
	PowerPerNodeKW float64 `json:"power_per_node_kw"`

	Impact ImpactResult `json:"impact"`

	// Equivalency is nil when the job emits nothing.
	Equivalency *Equivalency `json:"equivalency,omitempty"`

	// Comparison holds the same job on every fixed location, ascending by emissions.
	Comparison []ComparisonRow `json:"comparison"`
}

// Parameters returns the estimator inputs for the assessed scenario.
func (a *Assessment) Parameters() JobParameters {
	return NewJobParameters(a.Scenario.NodeCount, a.Scenario.DurationHours, a.PowerPerNodeKW, a.Scenario.PUE, a.Intensity)
}

// Assess runs the full calculation for a scenario: intensity resolution, the
// validation gate, power interpolation, estimation, equivalencies and the
// location comparison.
//
// A validation failure returns a nil Assessment; no partial result is produced.
func Assess(table *LocationTable, s Scenario) (*Assessment, error) {
	intensity, err := ResolveIntensity(table, s.Location, s.CustomIntensity)
	if err != nil {
		return nil, err
	}
	if err := ValidateScenario(s, intensity); err != nil {
		return nil, err
	}

	powerW := PowerPerNodeWatts(s.IdleWatts, s.PeakWatts, s.UtilizationPct)
	a := &Assessment{
		Scenario:       s,
		Intensity:      *intensity,
		PowerPerNodeW:  powerW,
		PowerPerNodeKW: WattsToKilowatts(powerW),
	}

	params := a.Parameters()
	a.Impact = Estimate(params)
	if a.Impact.CO2Kg > 0 {
		eq := Equivalencies(a.Impact.CO2Kg)
		a.Equivalency = &eq
	}
	a.Comparison = Compare(table, params)

	pkgLogger().Debug().
		Str("location", s.Location).
		Float64("carbon_intensity", a.Intensity).
		Float64("power_per_node_w", a.PowerPerNodeW).
		Float64("energy_kwh", a.Impact.EnergyKWh).
		Float64("co2_kg", a.Impact.CO2Kg).
		Msg("scenario assessed")

	return a, nil
}
