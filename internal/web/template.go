package web

const pageHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <style>
    body { font-family: system-ui, sans-serif; margin: 0; padding: 24px; max-width: 1100px; box-sizing: border-box; }
    * { box-sizing: border-box; }
    h1 { margin-top: 0; font-weight: 600; }
    h2 { font-weight: 600; margin: 0 0 10px 0; }
    .layout { display: grid; grid-template-columns: 300px 1fr; gap: 0 32px; }
    @media (max-width: 800px) { .layout { grid-template-columns: 1fr; } }
    .err { color: #b00020; margin: 12px 0; padding: 10px; background: #ffebee; border-radius: 6px; }
    .info { color: #0d47a1; margin: 12px 0; padding: 10px; background: #e3f2fd; border-radius: 6px; }
    .note { color: #6d4c00; margin: 8px 0; padding: 8px 10px; background: #fff8e1; border-radius: 6px; font-size: 0.9em; }
    .disclaimer { color: #666; font-size: 0.9em; margin-bottom: 16px; }
    .card { border: 1px solid #e0e0e0; border-radius: 10px; padding: 16px; margin: 16px 0; background: #fafafa; }
    .metrics { display: grid; grid-template-columns: repeat(3, 1fr); gap: 16px; }
    .metric .k { color: #555; font-size: 0.9em; }
    .metric .v { font-size: 1.6em; font-weight: 600; }
    .hint { color: #666; font-size: 0.9em; margin-top: 4px; }
    .form-section-title { font-size: 0.85em; font-weight: 600; text-transform: uppercase; letter-spacing: 0.04em; color: #555; margin: 12px 0; padding-bottom: 6px; border-bottom: 1px solid #e0e0e0; }
    .field { margin-bottom: 14px; }
    .field label { display: block; font-weight: 500; color: #333; margin-bottom: 4px; font-size: 0.95em; }
    .field input, .field select { padding: 8px 10px; font-size: 1em; border: 1px solid #ccc; border-radius: 6px; width: 100%; }
    .field input:focus, .field select:focus { outline: none; border-color: #1976d2; box-shadow: 0 0 0 2px rgba(25,118,210,0.2); }
    button[type="submit"] { padding: 10px 20px; font-size: 1em; font-weight: 500; background: #1976d2; color: #fff; border: none; border-radius: 6px; cursor: pointer; width: 100%; }
    button[type="submit"]:hover { background: #1565c0; }
    svg text { font-size: 12px; fill: #333; }
    footer { margin-top: 40px; color: #666; font-size: 0.9em; text-align: center; }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <div class="disclaimer">Disclaimer: {{.Disclaimer}} ({{.Date}})</div>

  <div class="layout">
    <form method="POST" action="/calc">
      <div class="form-section-title">Job Configuration</div>
      <div class="field">
        <label for="nodes">Number of Compute Nodes</label>
        <input id="nodes" name="nodes" type="number" min="1" step="1" value="{{.Form.Nodes}}" required>
      </div>
      <div class="field">
        <label for="hours">Job Duration (hours)</label>
        <input id="hours" name="hours" type="number" min="0.1" step="0.1" value="{{.Form.Hours}}" required>
      </div>
      <div class="field">
        <label for="utilization">Average CPU Utilization (%)</label>
        <input id="utilization" name="utilization" type="range" min="0" max="100" step="{{.Form.UtilizationStep}}" value="{{.Form.Utilization}}">
        <div class="hint">{{.Form.Utilization}}%</div>
      </div>

      <div class="form-section-title">Hardware Power Profile (per node)</div>
      <div class="field">
        <label for="idle_w">Idle Power (Watts)</label>
        <input id="idle_w" name="idle_w" type="number" min="10" step="10" value="{{.Form.IdleWatts}}" required>
      </div>
      <div class="field">
        <label for="peak_w">Peak Power (Watts)</label>
        <input id="peak_w" name="peak_w" type="number" min="50" step="10" value="{{.Form.PeakWatts}}" required>
      </div>

      <div class="form-section-title">Datacentre Efficiency &amp; Location</div>
      <div class="field">
        <label for="pue">Power Usage Effectiveness (PUE)</label>
        <input id="pue" name="pue" type="range" min="{{.Form.MinPUE}}" max="{{.Form.MaxPUE}}" step="{{.Form.PUEStep}}" value="{{.Form.PUE}}">
        <div class="hint">PUE {{.Form.PUE}}. Ratio of total facility power to IT equipment power; 1.0 is perfect.</div>
      </div>
      <div class="field">
        <label for="location">Hosting Location / Grid Mix</label>
        <select id="location" name="location">
          {{range .Locations}}<option value="{{.Name}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
          {{end}}
        </select>
      </div>
      <div class="field">
        <label for="custom_intensity">Custom Carbon Intensity (gCO₂e/kWh)</label>
        <input id="custom_intensity" name="custom_intensity" type="number" min="0" step="10" value="{{.Form.CustomIntensity}}">
        <div class="hint">Used only when "Custom" is selected.</div>
      </div>

      <button type="submit">Calculate</button>
    </form>

    <main>
      {{range .Notes}}<div class="note">{{.}}</div>
      {{end}}
      {{if .Error}}<div class="err">Configuration Error: {{.Error}}</div>{{end}}
      {{if .Info}}<div class="info">{{.Info}}</div>{{end}}

      {{if .HasResult}}
      <div class="card">
        <h2>Job Impact Summary</h2>
        <div class="metrics">
          <div class="metric"><div class="k">Avg. Power / Node</div><div class="v">{{.PowerW}} W</div></div>
          <div class="metric"><div class="k">Total Energy Consumed</div><div class="v">{{.EnergyKWh}} kWh</div></div>
          <div class="metric"><div class="k">Carbon Emissions ({{.Location}})</div><div class="v">{{.CO2Kg}} kg CO₂e</div></div>
        </div>
        <div class="hint">Based on {{.Intensity}} gCO₂e/kWh grid intensity.</div>
      </div>

      <div class="card">
        <h2>Context &amp; Equivalencies</h2>
        {{with .Equivalency}}
        <p>Equivalent to driving approximately <strong>{{.Km}} km</strong> ({{.Miles}} miles) in an average passenger car.</p>
        <p>Roughly equivalent to the CO₂ sequestered by <strong>{{.Trees}}</strong> mature trees in one year.</p>
        {{else}}
        <p>Run a simulation to see impact equivalencies.</p>
        {{end}}
      </div>

      <div class="card">
        <h2>Location Comparison</h2>
        {{with .Chart}}
        <svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}" role="img" aria-label="Estimated emissions by location">
          {{$x := .BarX}}
          {{range .Bars}}<g>
            <title>{{.Title}}</title>
            <text x="0" y="{{.TextY}}">{{.Label}}</text>
            <rect x="{{$x}}" y="{{.Y}}" width="{{.Width}}" height="18" fill="{{.Color}}" stroke="#999" stroke-width="0.5"></rect>
            <text x="{{.ValueX}}" y="{{.TextY}}">{{.Value}} kg</text>
          </g>
          {{end}}
        </svg>
        <div class="hint">Bars are shaded by grid carbon intensity, lightest for the cleanest grid.</div>
        {{else}}
        <div class="note">Could not generate location comparison data.</div>
        {{end}}
      </div>

      <div class="card">
        <h2>Model Assumptions &amp; Simplifications</h2>
        <ul>
          {{range .Assumptions}}<li>{{.}}</li>
          {{end}}
        </ul>
      </div>
      {{end}}
    </main>
  </div>

  <footer>hpc-carbon-estimator {{.Version}}</footer>
</body>
</html>`
