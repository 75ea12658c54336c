package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/hpc-carbon-estimator/internal/carbon"
	"github.com/rshade/hpc-carbon-estimator/internal/report"
)

func newTestServer(t *testing.T) (*httptest.Server, *Metrics) {
	t.Helper()
	m := NewMetrics()
	s := New(carbon.DefaultLocationTable(),
		WithMetrics(m),
		WithVersion("test"),
		WithClock(func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }),
	)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, m
}

func get(t *testing.T, rawURL string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(rawURL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func postJSON(t *testing.T, rawURL, payload string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(rawURL, "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestEstimateQuery_Defaults(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := get(t, ts.URL+"/api/v1/estimate")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	var doc struct {
		Intensity float64             `json:"carbon_intensity_gco2e_kwh"`
		PowerW    float64             `json:"power_per_node_w"`
		Impact    carbon.ImpactResult `json:"impact"`
		Equiv     *carbon.Equivalency `json:"equivalency"`
		Info      string `json:"location_info"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &doc))

	assert.InDelta(t, 210.0, doc.Intensity, 1e-9)
	assert.InDelta(t, 487.5, doc.PowerW, 1e-9)
	assert.InDelta(t, 1755.0, doc.Impact.EnergyKWh, 1e-9)
	assert.InDelta(t, 368.55, doc.Impact.CO2Kg, 1e-9)
	require.NotNil(t, doc.Equiv)
	assert.InDelta(t, 2106.0, doc.Equiv.KmDriven, 1e-6)
	assert.Contains(t, doc.Info, "UK (Mixed, increasing Renewables)")
}

func TestEstimateQuery_CustomIntensity(t *testing.T) {
	ts, _ := newTestServer(t)

	q := url.Values{}
	q.Set("location", carbon.CustomLocation)
	q.Set("custom_intensity", "100")
	q.Set("nodes", "10")
	q.Set("hours", "10")
	q.Set("utilization", "100")
	q.Set("idle_w", "100")
	q.Set("peak_w", "500")
	q.Set("pue", "1")

	resp, body := get(t, ts.URL+"/api/v1/estimate?"+q.Encode())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc report.Document
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	require.NotNil(t, doc.Assessment)
	assert.InDelta(t, 50.0, doc.Impact.EnergyKWh, 1e-9)
	assert.InDelta(t, 5.0, doc.Impact.CO2Kg, 1e-9)
	assert.Empty(t, doc.LocationInfo)
}

func TestEstimateQuery_Errors(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantError  string
		wantMsg    string
	}{
		{
			name:       "idle above peak",
			query:      "idle_w=700&peak_w=600",
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "idle power exceeds peak power",
			wantMsg:    "Idle power cannot be greater than peak power.",
		},
		{
			name:       "negative custom intensity",
			query:      "location=Custom&custom_intensity=-5",
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "carbon intensity is undefined or negative",
			wantMsg:    "Please select a valid location or enter a non-negative custom carbon intensity.",
		},
		{
			name:       "custom without intensity",
			query:      "location=Custom&custom_intensity=",
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "carbon intensity is undefined or negative",
		},
		{
			name:       "unknown location",
			query:      "location=Atlantis",
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "unknown location",
		},
		{
			name:       "unparsable number",
			query:      "hours=abc",
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid hours",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, _ := newTestServer(t)

			resp, body := get(t, ts.URL+"/api/v1/estimate?"+tt.query)
			require.Equal(t, tt.wantStatus, resp.StatusCode)

			var doc report.ErrorDocument
			require.NoError(t, json.Unmarshal([]byte(body), &doc))
			assert.Contains(t, doc.Error, tt.wantError)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, doc.Message)
			}
			assert.Equal(t, resp.Header.Get(RequestIDHeader), doc.RequestID)
		})
	}
}

func TestEstimateJSON(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := postJSON(t, ts.URL+"/api/v1/estimate", `{"node_count": 1, "duration_hours": 1, "utilization_pct": 0,
		"power_idle_w": 1000, "power_peak_w": 1000, "pue": 1, "location": "Custom", "custom_intensity_gco2e_kwh": 1000}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var doc report.Document
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.InDelta(t, 1.0, doc.Impact.EnergyKWh, 1e-9)
	assert.InDelta(t, 1.0, doc.Impact.CO2Kg, 1e-9)
	assert.Empty(t, doc.Adjustments)
	assert.Len(t, doc.Assumptions, 6)
}

func TestEstimateJSON_AppliesBounds(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := postJSON(t, ts.URL+"/api/v1/estimate", `{"pue": 5}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var doc report.Document
	require.NoError(t, json.Unmarshal(body, &doc))
	require.Len(t, doc.Adjustments, 1)
	assert.Equal(t, "pue", doc.Adjustments[0].Field)
	assert.Equal(t, 3.0, doc.Scenario.PUE)
}

func TestEstimateJSON_BadBody(t *testing.T) {
	ts, _ := newTestServer(t)

	for _, payload := range []string{`{`, `{"nodes": 3}`, `{"node_count": "many"}`} {
		resp, body := postJSON(t, ts.URL+"/api/v1/estimate", payload)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, payload)

		var doc report.ErrorDocument
		require.NoError(t, json.Unmarshal(body, &doc))
		assert.Contains(t, doc.Error, "decoding request body")
		assert.Empty(t, doc.Message)
	}
}

func TestLocations(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := get(t, ts.URL+"/api/v1/locations")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got LocationsResponse
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, carbon.DefaultLocation, got.Default)
	require.Len(t, got.Locations, carbon.DefaultLocationTable().Len())
	assert.Equal(t, "Iceland (Hydro/Geo)", got.Locations[0].Name)

	last := got.Locations[len(got.Locations)-1]
	assert.Equal(t, carbon.CustomLocation, last.Name)
	assert.Nil(t, last.Intensity)
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := get(t, ts.URL+"/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok","version":"test"}`, body)
}

func TestRequestID_Propagated(t *testing.T) {
	ts, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "abc-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
}

func TestMethodNotAllowed(t *testing.T) {
	ts, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/v1/estimate", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestIndexPage(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := get(t, ts.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	assert.Contains(t, body, report.Title)
	assert.Contains(t, body, "2026-10-19")
	assert.Contains(t, body, "487.5 W")
	assert.Contains(t, body, "1,755.0 kWh")
	assert.Contains(t, body, "368.55 kg CO₂e")
	assert.Contains(t, body, "2,106.0 km")
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, `fill="#67000d"`, "dirtiest grid gets the darkest shade")
	assert.Contains(t, body, "selected>UK (Mixed, increasing Renewables)")
	assert.NotContains(t, body, "Configuration Error")
}

func TestIndexPage_ValidationStop(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := get(t, ts.URL+"/?idle_w=700&peak_w=600")
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	assert.Contains(t, body, "Configuration Error: Idle power cannot be greater than peak power.")
	assert.NotContains(t, body, "Job Impact Summary")
	assert.NotContains(t, body, "<svg")
}

func TestIndexPage_ZeroEmissions(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := get(t, ts.URL+"/?location=Custom&custom_intensity=0")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Run a simulation to see impact equivalencies.")
}

func TestIndexPage_Notes(t *testing.T) {
	ts, _ := newTestServer(t)

	_, body := get(t, ts.URL+"/?utilization=150")
	assert.Contains(t, body, "utilization adjusted from 150 to 100")
}

func TestCalc_RedirectsWithNonDefaults(t *testing.T) {
	ts, _ := newTestServer(t)

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}

	form := url.Values{}
	form.Set("nodes", "100")
	form.Set("hours", "48")
	form.Set("location", "Norway (Hydro)")

	resp, err := client.PostForm(ts.URL+"/calc", form)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/", loc.Path)
	assert.Equal(t, "48", loc.Query().Get("hours"))
	assert.Equal(t, "Norway (Hydro)", loc.Query().Get("location"))
	assert.False(t, loc.Query().Has("nodes"))
}

func TestCalc_BadInput(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.PostForm(ts.URL+"/calc", url.Values{"nodes": {"lots"}, "pue": {"1.2"}})
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "Configuration Error: invalid nodes")
	assert.Contains(t, string(body), `value="1.2"`)
}

func TestMetrics(t *testing.T) {
	ts, _ := newTestServer(t)

	get(t, ts.URL+"/api/v1/estimate")
	get(t, ts.URL+"/api/v1/estimate?idle_w=700&peak_w=600")

	resp, body := get(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Contains(t, body, `hpc_carbon_estimates_total{location="UK (Mixed, increasing Renewables)"} 1`)
	assert.Contains(t, body, `hpc_carbon_validation_failures_total{reason="idle_exceeds_peak"} 1`)
	assert.Contains(t, body, "hpc_carbon_estimated_emissions_kg_count 1")
	assert.Contains(t, body, `hpc_carbon_http_request_duration_seconds_count{code="200",method="GET",route="/api/v1/estimate"} 1`)
}

func TestBuildChart(t *testing.T) {
	assert.Nil(t, buildChart(nil))

	chart := buildChart([]carbon.ComparisonRow{
		{Location: "A", Intensity: 10, CO2Kg: 10},
		{Location: "B", Intensity: 20, CO2Kg: 20},
	})
	require.NotNil(t, chart)
	require.Len(t, chart.Bars, 2)
	assert.Equal(t, chartBarArea/2, chart.Bars[0].Width)
	assert.Equal(t, chartBarArea, chart.Bars[1].Width)
	assert.Equal(t, "#fff5f0", chart.Bars[0].Color)
	assert.Equal(t, "#67000d", chart.Bars[1].Color)
	assert.Equal(t, 2*chartRowHeight, chart.Height)
}

func TestFailureReason(t *testing.T) {
	assert.Equal(t, "idle_exceeds_peak", failureReason(carbon.ErrIdleExceedsPeak))
	assert.Equal(t, "invalid_intensity", failureReason(carbon.ErrInvalidIntensity))
	assert.Equal(t, "unknown_location", failureReason(carbon.ErrUnknownLocation))
	assert.Equal(t, "other", failureReason(io.EOF))
}

func newLabServer(t *testing.T) *httptest.Server {
	t.Helper()
	table, err := carbon.ParseLocationTable([]byte(`locations:
  - name: "Lab Grid"
    intensity: 100
  - name: "Custom"
`))
	require.NoError(t, err)
	ts := httptest.NewServer(New(table).Handler())
	t.Cleanup(ts.Close)
	return ts
}

// TestOverrideTable_DefaultLocation verifies the page, the API and the
// location list all start from a location the loaded table contains.
func TestOverrideTable_DefaultLocation(t *testing.T) {
	ts := newLabServer(t)

	resp, body := get(t, ts.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "Configuration Error")
	assert.Contains(t, body, "selected>Lab Grid (100 g/kWh)")

	resp, body = get(t, ts.URL+"/api/v1/estimate")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var doc report.Document
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	assert.Equal(t, "Lab Grid", doc.Scenario.Location)
	assert.InDelta(t, 100.0, doc.Intensity, 1e-9)

	_, body = get(t, ts.URL+"/api/v1/locations")
	var got LocationsResponse
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, "Lab Grid", got.Default)
}

func TestIndexPage_BadInputKeepsValues(t *testing.T) {
	ts, _ := newTestServer(t)

	q := url.Values{}
	q.Set("nodes", "lots")
	q.Set("hours", "48")
	q.Set("location", "Norway (Hydro)")

	resp, body := get(t, ts.URL+"/?"+q.Encode())
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Configuration Error: invalid nodes")
	assert.Contains(t, body, `value="lots"`)
	assert.Contains(t, body, `value="48"`)
	assert.Contains(t, body, "selected>Norway (Hydro)")
	assert.NotContains(t, body, "selected>UK (Mixed, increasing Renewables)")
}

func TestCalc_MalformedBodyRendersPage(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/calc", "application/x-www-form-urlencoded", strings.NewReader("hours=48&nodes=%zz"))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "Configuration Error: invalid URL escape")
	assert.Contains(t, string(body), `value="48"`)
}
