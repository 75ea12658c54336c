// Package input is the input layer in front of the estimator: control
// defaults, control bounds and parsing of request parameters into a
// carbon.Scenario.
package input

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/rshade/hpc-carbon-estimator/internal/carbon"
)

// Control defaults, matching the calculator's initial state.
const (
	DefaultNodeCount       = 100
	DefaultDurationHours   = 24.0
	DefaultUtilizationPct  = 75.0
	DefaultIdleWatts       = 150.0
	DefaultPeakWatts       = 600.0
	DefaultPUE             = 1.5
	DefaultCustomIntensity = 400.0
)

// Control bounds. The estimator itself enforces none of these.
const (
	MinNodeCount      = 1
	MinDurationHours  = 0.1
	MinUtilizationPct = 0.0
	MaxUtilizationPct = 100.0
	UtilizationStep   = 5.0
	MinIdleWatts      = 10.0
	MinPeakWatts      = 50.0
	MinPUE            = 1.0
	MaxPUE            = 3.0
	PUEStep           = 0.05
)

// Query parameter names.
const (
	ParamNodes           = "nodes"
	ParamHours           = "hours"
	ParamUtilization     = "utilization"
	ParamIdleWatts       = "idle_w"
	ParamPeakWatts       = "peak_w"
	ParamPUE             = "pue"
	ParamLocation        = "location"
	ParamCustomIntensity = "custom_intensity"
)

// DefaultScenario returns the scenario shown before the user changes anything,
// preselecting the table's default location.
func DefaultScenario(table *carbon.LocationTable) carbon.Scenario {
	custom := DefaultCustomIntensity
	return carbon.Scenario{
		NodeCount:       DefaultNodeCount,
		DurationHours:   DefaultDurationHours,
		UtilizationPct:  DefaultUtilizationPct,
		IdleWatts:       DefaultIdleWatts,
		PeakWatts:       DefaultPeakWatts,
		PUE:             DefaultPUE,
		Location:        table.Default(),
		CustomIntensity: &custom,
	}
}

// Adjustment records an input that was moved into its control bounds.
type Adjustment struct {
	Field string  `json:"field"`
	From  float64 `json:"from"`
	To    float64 `json:"to"`
}

func (a Adjustment) String() string {
	return fmt.Sprintf("%s adjusted from %s to %s", a.Field,
		strconv.FormatFloat(a.From, 'f', -1, 64), strconv.FormatFloat(a.To, 'f', -1, 64))
}

// Normalize keeps every control within its bounds, the way the interactive
// controls would, and reports what changed. Idle/peak ordering and the carbon
// intensity are left alone; they belong to the validation gate.
func Normalize(s carbon.Scenario) (carbon.Scenario, []Adjustment) {
	var adjustments []Adjustment
	bound := func(field string, v *float64, min, max float64) {
		clamped := carbon.Clamp(*v, min, max)
		if clamped != *v {
			adjustments = append(adjustments, Adjustment{Field: field, From: *v, To: clamped})
			*v = clamped
		}
	}
	atLeast := func(field string, v *float64, min float64) {
		bound(field, v, min, math.Max(*v, min))
	}

	if s.NodeCount < MinNodeCount {
		adjustments = append(adjustments, Adjustment{Field: ParamNodes, From: float64(s.NodeCount), To: MinNodeCount})
		s.NodeCount = MinNodeCount
	}
	atLeast(ParamHours, &s.DurationHours, MinDurationHours)
	bound(ParamUtilization, &s.UtilizationPct, MinUtilizationPct, MaxUtilizationPct)
	atLeast(ParamIdleWatts, &s.IdleWatts, MinIdleWatts)
	atLeast(ParamPeakWatts, &s.PeakWatts, MinPeakWatts)
	bound(ParamPUE, &s.PUE, MinPUE, MaxPUE)

	return s, adjustments
}

// FromValues builds a scenario from query or form values. Absent or empty
// parameters keep their defaults; malformed numbers are an error.
// The result is not normalized.
func FromValues(table *carbon.LocationTable, v url.Values) (carbon.Scenario, error) {
	s := DefaultScenario(table)

	if raw := strings.TrimSpace(v.Get(ParamNodes)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return carbon.Scenario{}, fmt.Errorf("invalid %s %q: must be a whole number", ParamNodes, raw)
		}
		s.NodeCount = n
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{ParamHours, &s.DurationHours},
		{ParamUtilization, &s.UtilizationPct},
		{ParamIdleWatts, &s.IdleWatts},
		{ParamPeakWatts, &s.PeakWatts},
		{ParamPUE, &s.PUE},
	}
	for _, f := range floats {
		raw := strings.TrimSpace(v.Get(f.name))
		if raw == "" {
			continue
		}
		val, err := ParseFloat(raw)
		if err != nil {
			return carbon.Scenario{}, fmt.Errorf("invalid %s %q: must be a number", f.name, raw)
		}
		*f.dst = val
	}

	if loc := strings.TrimSpace(v.Get(ParamLocation)); loc != "" {
		s.Location = loc
	}

	if _, present := v[ParamCustomIntensity]; present {
		raw := strings.TrimSpace(v.Get(ParamCustomIntensity))
		if raw == "" {
			// An explicitly cleared custom value is undefined, not the default.
			s.CustomIntensity = nil
		} else {
			val, err := ParseFloat(raw)
			if err != nil {
				return carbon.Scenario{}, fmt.Errorf("invalid %s %q: must be a number", ParamCustomIntensity, raw)
			}
			s.CustomIntensity = &val
		}
	}

	return s, nil
}

// Values encodes s as query values, including only parameters that differ
// from the table's defaults, so shared links stay short.
func Values(table *carbon.LocationTable, s carbon.Scenario) url.Values {
	d := DefaultScenario(table)
	v := url.Values{}
	if s.NodeCount != d.NodeCount {
		v.Set(ParamNodes, strconv.Itoa(s.NodeCount))
	}
	setFloat := func(name string, val, def float64) {
		if val != def {
			v.Set(name, strconv.FormatFloat(val, 'f', -1, 64))
		}
	}
	setFloat(ParamHours, s.DurationHours, d.DurationHours)
	setFloat(ParamUtilization, s.UtilizationPct, d.UtilizationPct)
	setFloat(ParamIdleWatts, s.IdleWatts, d.IdleWatts)
	setFloat(ParamPeakWatts, s.PeakWatts, d.PeakWatts)
	setFloat(ParamPUE, s.PUE, d.PUE)
	if s.Location != d.Location {
		v.Set(ParamLocation, s.Location)
	}
	if s.IsCustom() {
		if s.CustomIntensity == nil {
			v.Set(ParamCustomIntensity, "")
		} else {
			setFloat(ParamCustomIntensity, *s.CustomIntensity, *d.CustomIntensity)
		}
	}
	return v
}

// ParseFloat parses a finite decimal number, accepting a comma as decimal separator.
func ParseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return f, nil
}
