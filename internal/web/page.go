package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rshade/hpc-carbon-estimator/internal/carbon"
	"github.com/rshade/hpc-carbon-estimator/internal/input"
	"github.com/rshade/hpc-carbon-estimator/internal/report"
)

// Chart geometry in SVG user units.
const (
	chartLabelWidth = 260
	chartBarArea    = 420
	chartValueWidth = 90
	chartRowHeight  = 26
	chartBarHeight  = 18
)

type formValues struct {
	Nodes           string
	Hours           string
	Utilization     string
	IdleWatts       string
	PeakWatts       string
	PUE             string
	CustomIntensity string

	UtilizationStep string
	PUEStep         string
	MinPUE          string
	MaxPUE          string
}

type locationOption struct {
	Name     string
	Label    string
	Selected bool
}

type equivalencyView struct {
	Km    string
	Miles string
	Trees string
}

type chartBar struct {
	Label  string
	Value  string
	Color  string
	Title  string
	Y      int
	TextY  int
	Width  int
	ValueX int
}

type chartView struct {
	Width  int
	Height int
	BarX   int
	Bars   []chartBar
}

type pageData struct {
	Title      string
	Disclaimer string
	Date       string
	Version    string

	Form      formValues
	Locations []locationOption
	IsCustom  bool

	Error string
	Notes []string
	Info  string

	HasResult   bool
	PowerW      string
	EnergyKWh   string
	CO2Kg       string
	Location    string
	Intensity   string
	Equivalency *equivalencyView
	Chart       *chartView
	Assumptions []string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sc, err := input.FromValues(s.table, r.URL.Query())
	if err != nil {
		s.renderInputError(w, r, r.URL.Query(), err)
		return
	}

	sc, adjustments := input.Normalize(sc)
	data := s.newPageData(sc)
	for _, adj := range adjustments {
		data.Notes = append(data.Notes, adj.String())
	}

	a, err := carbon.Assess(s.table, sc)
	if err != nil {
		s.metrics.observeValidationFailure(err)
		data.Error = carbon.UserMessage(err)
		s.renderPage(w, r, http.StatusUnprocessableEntity, data)
		return
	}
	s.metrics.observeAssessment(a)

	fillResult(&data, a)
	s.renderPage(w, r, http.StatusOK, data)
}

// handleCalc accepts the form post and redirects to the GET URL carrying
// only non-default parameters, so results are shareable.
func (s *Server) handleCalc(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderInputError(w, r, r.PostForm, err)
		return
	}
	sc, err := input.FromValues(s.table, r.PostForm)
	if err != nil {
		s.renderInputError(w, r, r.PostForm, err)
		return
	}

	target := "/"
	if q := input.Values(s.table, sc).Encode(); q != "" {
		target += "?" + q
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// renderInputError redisplays the form with the values as submitted, so a
// typo in one field does not discard the others.
func (s *Server) renderInputError(w http.ResponseWriter, r *http.Request, v url.Values, err error) {
	s.logger.Warn().
		Err(err).
		Str("request_id", RequestID(r.Context())).
		Msg("request failed")

	data := s.newPageData(input.DefaultScenario(s.table))
	data.Error = err.Error()

	raw := func(name string, dst *string) {
		if val := strings.TrimSpace(v.Get(name)); val != "" {
			*dst = val
		}
	}
	raw(input.ParamNodes, &data.Form.Nodes)
	raw(input.ParamHours, &data.Form.Hours)
	raw(input.ParamUtilization, &data.Form.Utilization)
	raw(input.ParamIdleWatts, &data.Form.IdleWatts)
	raw(input.ParamPeakWatts, &data.Form.PeakWatts)
	raw(input.ParamPUE, &data.Form.PUE)
	if _, present := v[input.ParamCustomIntensity]; present {
		data.Form.CustomIntensity = strings.TrimSpace(v.Get(input.ParamCustomIntensity))
	}
	if loc := strings.TrimSpace(v.Get(input.ParamLocation)); loc != "" {
		data.IsCustom = loc == carbon.CustomLocation
		for i := range data.Locations {
			data.Locations[i].Selected = data.Locations[i].Name == loc
		}
	}

	s.renderPage(w, r, http.StatusBadRequest, data)
}

func (s *Server) newPageData(sc carbon.Scenario) pageData {
	data := pageData{
		Title:      report.Title,
		Disclaimer: report.Disclaimer,
		Date:       s.now().Format("2006-01-02"),
		Version:    s.version,
		IsCustom:   sc.IsCustom(),
		Form: formValues{
			Nodes:           strconv.Itoa(sc.NodeCount),
			Hours:           report.Plain(sc.DurationHours),
			Utilization:     report.Plain(sc.UtilizationPct),
			IdleWatts:       report.Plain(sc.IdleWatts),
			PeakWatts:       report.Plain(sc.PeakWatts),
			PUE:             report.Plain(sc.PUE),
			UtilizationStep: report.Plain(input.UtilizationStep),
			PUEStep:         report.Plain(input.PUEStep),
			MinPUE:          report.Plain(input.MinPUE),
			MaxPUE:          report.Plain(input.MaxPUE),
		},
	}
	if sc.CustomIntensity != nil {
		data.Form.CustomIntensity = report.Plain(*sc.CustomIntensity)
	}

	for _, loc := range s.table.Entries() {
		label := loc.Name
		if loc.Intensity != nil {
			label += " (" + report.Plain(*loc.Intensity) + " g/kWh)"
		}
		data.Locations = append(data.Locations, locationOption{
			Name:     loc.Name,
			Label:    label,
			Selected: loc.Name == sc.Location,
		})
	}
	return data
}

func fillResult(data *pageData, a *carbon.Assessment) {
	data.HasResult = true
	data.Info = report.LocationInfo(a)
	data.PowerW = report.Number(a.PowerPerNodeW, 1)
	data.EnergyKWh = report.Number(a.Impact.EnergyKWh, 1)
	data.CO2Kg = report.Number(a.Impact.CO2Kg, 2)
	data.Location = a.Scenario.Location
	data.Intensity = report.Plain(a.Intensity)
	data.Assumptions = report.Assumptions(a)

	if a.Equivalency != nil {
		data.Equivalency = &equivalencyView{
			Km:    report.Number(a.Equivalency.KmDriven, 1),
			Miles: report.Number(a.Equivalency.MilesDriven, 1),
			Trees: report.Number(a.Equivalency.TreeYears, 1),
		}
	}
	data.Chart = buildChart(a.Comparison)
}

// buildChart lays out a horizontal bar per comparison row, colored by the
// row's grid intensity. It returns nil when there is nothing to draw.
func buildChart(rows []carbon.ComparisonRow) *chartView {
	if len(rows) == 0 {
		return nil
	}

	minI, maxI := report.IntensityRange(rows)
	maxKg := report.MaxEmissions(rows)

	chart := &chartView{
		Width:  chartLabelWidth + chartBarArea + chartValueWidth,
		Height: len(rows) * chartRowHeight,
		BarX:   chartLabelWidth,
	}
	for i, row := range rows {
		width := 0
		if maxKg > 0 {
			width = int(row.CO2Kg / maxKg * chartBarArea)
		}
		y := i * chartRowHeight
		chart.Bars = append(chart.Bars, chartBar{
			Label:  row.Location,
			Value:  report.Number(row.CO2Kg, 1),
			Color:  report.IntensityColor(row.Intensity, minI, maxI),
			Title:  row.Location + ": " + report.Number(row.CO2Kg, 2) + " kg CO₂e at " + report.Plain(row.Intensity) + " gCO₂e/kWh",
			Y:      y + (chartRowHeight-chartBarHeight)/2,
			TextY:  y + chartRowHeight/2 + 4,
			Width:  width,
			ValueX: chartLabelWidth + width + 6,
		})
	}
	return chart
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Error().Err(err).Str("request_id", RequestID(r.Context())).Msg("failed to render page")
	}
}
