package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rshade/hpc-carbon-estimator/internal/carbon"
	"github.com/rshade/hpc-carbon-estimator/internal/input"
)

// Title is the heading of every report.
const Title = "HPC Job Carbon Footprint Estimator"

// Options controls optional parts of a text report.
type Options struct {
	// Adjustments are input corrections made before assessing.
	Adjustments []input.Adjustment
	// BarWidth is passed to BarChart; zero means DefaultBarWidth.
	BarWidth int
	// Now stamps the disclaimer; zero omits the date line.
	Now time.Time
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func (e *errWriter) section(title string) {
	e.printf("\n%s\n%s\n", title, strings.Repeat("-", len([]rune(title))))
}

// WriteText writes the full human-readable report for an assessment.
func WriteText(w io.Writer, a *carbon.Assessment, opts Options) error {
	ew := &errWriter{w: w}

	ew.printf("%s\n%s\n", Title, strings.Repeat("=", len(Title)))
	ew.printf("Disclaimer: %s\n", Disclaimer)
	if !opts.Now.IsZero() {
		ew.printf("Generated %s\n", opts.Now.Format("2006-01-02"))
	}

	for _, adj := range opts.Adjustments {
		ew.printf("Note: %s\n", adj)
	}
	if info := LocationInfo(a); info != "" {
		ew.printf("%s\n", info)
	}

	ew.section("Job Impact Summary")
	ew.printf("  Avg. Power / Node:      %s W\n", Number(a.PowerPerNodeW, 1))
	ew.printf("  Total Energy Consumed:  %s kWh\n", Number(a.Impact.EnergyKWh, 1))
	ew.printf("  Carbon Emissions:       %s kg CO₂e (%s)\n", Number(a.Impact.CO2Kg, 2), a.Scenario.Location)
	ew.printf("  Based on %s gCO₂e/kWh grid intensity.\n", Plain(a.Intensity))

	ew.section("Context & Equivalencies")
	if a.Equivalency == nil {
		ew.printf("  Run a simulation to see impact equivalencies.\n")
	} else {
		ew.printf("  Equivalent to driving approximately %s km (%s miles) in an average passenger car.\n",
			Number(a.Equivalency.KmDriven, 1), Number(a.Equivalency.MilesDriven, 1))
		ew.printf("  Roughly equivalent to the CO₂ sequestered by %s mature trees in one year.\n",
			Number(a.Equivalency.TreeYears, 1))
	}

	ew.section("Location Comparison (kg CO₂e, lowest first)")
	if ew.err != nil {
		return ew.err
	}
	if err := BarChart(w, a.Comparison, opts.BarWidth); err != nil {
		return err
	}

	ew.section("Model Assumptions & Simplifications")
	for _, line := range Assumptions(a) {
		ew.printf("  - %s\n", line)
	}
	return ew.err
}

// WriteValidationError writes the message shown in place of results when
// the validation gate stops an assessment.
func WriteValidationError(w io.Writer, err error) error {
	_, werr := fmt.Fprintf(w, "Configuration Error: %s\n", carbon.UserMessage(err))
	return werr
}

// WriteLocations writes the location table, one entry per line.
func WriteLocations(w io.Writer, table *carbon.LocationTable) error {
	for _, loc := range table.Entries() {
		intensity := "user supplied"
		if loc.Intensity != nil {
			intensity = Plain(*loc.Intensity) + " gCO₂e/kWh"
		}
		if _, err := fmt.Fprintf(w, "%-40s %s\n", loc.Name, intensity); err != nil {
			return err
		}
	}
	return nil
}
