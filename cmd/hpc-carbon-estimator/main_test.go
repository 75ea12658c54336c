package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/hpc-carbon-estimator/internal/carbon"
	"github.com/rshade/hpc-carbon-estimator/internal/report"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	clearEnv(t)
	t.Setenv(envLogLevel, "error")

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	// A nil slice would make cobra fall back to the test binary's os.Args.
	cmd.SetArgs(append([]string{}, args...))
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRun_TextDefaults(t *testing.T) {
	stdout, _, err := execute(t)
	require.NoError(t, err)

	assert.Contains(t, stdout, report.Title)
	assert.Contains(t, stdout, "487.5 W")
	assert.Contains(t, stdout, "1,755.0 kWh")
	assert.Contains(t, stdout, "368.55 kg CO₂e")
	assert.Contains(t, stdout, "Average Intensity for UK (Mixed, increasing Renewables): 210 gCO₂e/kWh")
}

func TestRun_JSON(t *testing.T) {
	stdout, _, err := execute(t,
		"--output", "json",
		"--nodes", "10", "--hours", "10", "--utilization", "100",
		"--idle-watts", "100", "--peak-watts", "500", "--pue", "1",
		"--location", carbon.CustomLocation, "--custom-intensity", "100",
	)
	require.NoError(t, err)

	var doc report.Document
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	require.NotNil(t, doc.Assessment)
	assert.InDelta(t, 50.0, doc.Impact.EnergyKWh, 1e-9)
	assert.InDelta(t, 5.0, doc.Impact.CO2Kg, 1e-9)
	assert.NotNil(t, doc.GeneratedAt)
}

func TestRun_ReportsAdjustments(t *testing.T) {
	stdout, _, err := execute(t, "--utilization", "120")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Note: utilization adjusted from 120 to 100")
	assert.Contains(t, stdout, "600.0 W")
}

func TestRun_ValidationStop(t *testing.T) {
	stdout, stderr, err := execute(t, "--idle-watts", "700", "--peak-watts", "600")

	require.ErrorIs(t, err, carbon.ErrIdleExceedsPeak)
	assert.Empty(t, stdout, "no partial result")
	assert.Contains(t, stderr, "Configuration Error: Idle power cannot be greater than peak power.")
}

func TestRun_ValidationStopJSON(t *testing.T) {
	stdout, _, err := execute(t, "--output", "json", "--location", "Custom", "--custom-intensity", "-1")

	require.ErrorIs(t, err, carbon.ErrInvalidIntensity)

	var doc report.ErrorDocument
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "Please select a valid location or enter a non-negative custom carbon intensity.", doc.Message)
}

func TestRun_UnknownLocation(t *testing.T) {
	_, _, err := execute(t, "--location", "Atlantis")
	assert.ErrorIs(t, err, carbon.ErrUnknownLocation)
}

func TestRun_UnsupportedOutput(t *testing.T) {
	_, _, err := execute(t, "--output", "yaml")
	assert.EqualError(t, err, `unsupported output "yaml": use text or json`)
}

func TestRun_RejectsArgs(t *testing.T) {
	_, _, err := execute(t, "extra")
	assert.Error(t, err)
}

func TestRun_ListLocations(t *testing.T) {
	stdout, _, err := execute(t, "--list-locations")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	assert.Len(t, lines, carbon.DefaultLocationTable().Len())
}

func TestRun_Version(t *testing.T) {
	stdout, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "hpc-carbon-estimator vdev\n", stdout)
}

func TestRun_LocationsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`locations:
  - name: "Lab Grid"
    intensity: 100
  - name: "Custom"
`), 0o600))

	clearEnv(t)
	t.Setenv(envLogLevel, "error")
	t.Setenv(envLocationsFile, path)

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"--location", "Lab Grid", "--output", "json"})
	require.NoError(t, cmd.Execute())

	var doc report.Document
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.InDelta(t, 100.0, doc.Intensity, 1e-9)
	require.Len(t, doc.Comparison, 1)
	assert.Equal(t, "Lab Grid", doc.Comparison[0].Location)
}

func TestRun_LocationsFileMissing(t *testing.T) {
	clearEnv(t)
	t.Setenv(envLogLevel, "error")
	t.Setenv(envLocationsFile, filepath.Join(t.TempDir(), "missing.yaml"))

	cmd := newRootCmd(&bytes.Buffer{}, &bytes.Buffer{})
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading HPC_CARBON_LOCATIONS_FILE")
}

// TestRun_LocationsFileDefault verifies a table without the built-in default
// location still assesses when --location is omitted.
func TestRun_LocationsFileDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`locations:
  - name: "Lab Grid"
    intensity: 100
  - name: "Custom"
`), 0o600))

	clearEnv(t)
	t.Setenv(envLogLevel, "error")
	t.Setenv(envLocationsFile, path)

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"--output", "json"})
	require.NoError(t, cmd.Execute(), errOut.String())

	var doc report.Document
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "Lab Grid", doc.Scenario.Location)
	assert.InDelta(t, 100.0, doc.Intensity, 1e-9)
}
