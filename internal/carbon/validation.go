package carbon

import (
	"errors"
	"fmt"
)

// Configuration errors that stop an assessment. Unlike a missing input,
// which degrades to a zero estimate, these mean the inputs contradict each
// other and no result may be shown until they are corrected.
var (
	// ErrIdleExceedsPeak is returned when idle power is greater than peak power.
	ErrIdleExceedsPeak = errors.New("idle power exceeds peak power")

	// ErrInvalidIntensity is returned when the selected or custom intensity is
	// undefined or negative.
	ErrInvalidIntensity = errors.New("carbon intensity is undefined or negative")

	// ErrUnknownLocation is returned when the selected location is not in the table.
	ErrUnknownLocation = errors.New("unknown location")
)

// ResolveIntensity returns the carbon intensity for the selected location.
// For the custom location the caller-supplied value is returned as is, which
// may be nil. The result is not validated; see ValidateScenario.
func ResolveIntensity(table *LocationTable, location string, custom *float64) (*float64, error) {
	loc, ok := table.Lookup(location)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocation, location)
	}
	if loc.IsCustom() {
		return custom, nil
	}
	return loc.Intensity, nil
}

// ValidateScenario runs the validation gate for a set of inputs and the
// resolved intensity. It returns the first violated check.
func ValidateScenario(s Scenario, intensity *float64) error {
	if s.IdleWatts > s.PeakWatts {
		return fmt.Errorf("%w (idle %s W, peak %s W)", ErrIdleExceedsPeak, formatFloat(s.IdleWatts), formatFloat(s.PeakWatts))
	}
	if intensity == nil {
		return fmt.Errorf("%w (location %q has no intensity)", ErrInvalidIntensity, s.Location)
	}
	if *intensity < 0 {
		return fmt.Errorf("%w (got %s gCO2e/kWh)", ErrInvalidIntensity, formatFloat(*intensity))
	}
	return nil
}

// UserMessage returns the text shown to the user for a validation error.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrIdleExceedsPeak):
		return "Idle power cannot be greater than peak power."
	case errors.Is(err, ErrInvalidIntensity), errors.Is(err, ErrUnknownLocation):
		return "Please select a valid location or enter a non-negative custom carbon intensity."
	case err == nil:
		return ""
	default:
		return err.Error()
	}
}
