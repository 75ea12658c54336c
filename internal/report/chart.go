package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/rshade/hpc-carbon-estimator/internal/carbon"
)

// DefaultBarWidth is the width in characters of the longest text bar.
const DefaultBarWidth = 40

// Sequential red scale, light to dark, used to color bars by intensity.
var redScale = [][3]uint8{
	{0xff, 0xf5, 0xf0},
	{0xfe, 0xe0, 0xd2},
	{0xfc, 0xbb, 0xa1},
	{0xfc, 0x92, 0x72},
	{0xfb, 0x6a, 0x4a},
	{0xef, 0x3b, 0x2c},
	{0xcb, 0x18, 0x1d},
	{0xa5, 0x0f, 0x15},
	{0x67, 0x00, 0x0d},
}

// IntensityColor maps intensity linearly onto the red scale between min and
// max and returns a "#rrggbb" color.
func IntensityColor(intensity, min, max float64) string {
	t := 0.0
	if max > min {
		t = carbon.Clamp((intensity-min)/(max-min), 0, 1)
	}
	pos := t * float64(len(redScale)-1)
	i := int(math.Floor(pos))
	if i >= len(redScale)-1 {
		c := redScale[len(redScale)-1]
		return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
	}
	frac := pos - float64(i)
	lo, hi := redScale[i], redScale[i+1]
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + (float64(b)-float64(a))*frac))
	}
	return fmt.Sprintf("#%02x%02x%02x", mix(lo[0], hi[0]), mix(lo[1], hi[1]), mix(lo[2], hi[2]))
}

// IntensityRange returns the smallest and largest intensity among rows.
func IntensityRange(rows []carbon.ComparisonRow) (min, max float64) {
	if len(rows) == 0 {
		return 0, 0
	}
	min, max = rows[0].Intensity, rows[0].Intensity
	for _, r := range rows[1:] {
		min = math.Min(min, r.Intensity)
		max = math.Max(max, r.Intensity)
	}
	return min, max
}

// MaxEmissions returns the largest emission among rows.
func MaxEmissions(rows []carbon.ComparisonRow) float64 {
	max := 0.0
	for _, r := range rows {
		max = math.Max(max, r.CO2Kg)
	}
	return max
}

// BarChart writes a horizontal bar chart of rows in the order given,
// scaling the largest emission to width characters.
func BarChart(w io.Writer, rows []carbon.ComparisonRow, width int) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "Could not generate location comparison data.")
		return err
	}
	if width <= 0 {
		width = DefaultBarWidth
	}

	labelWidth := 0
	for _, r := range rows {
		if n := len([]rune(r.Location)); n > labelWidth {
			labelWidth = n
		}
	}

	maxKg := MaxEmissions(rows)
	for _, r := range rows {
		n := 0
		if maxKg > 0 {
			n = int(math.Round(r.CO2Kg / maxKg * float64(width)))
		}
		pad := strings.Repeat(" ", labelWidth-len([]rune(r.Location)))
		if _, err := fmt.Fprintf(w, "  %s%s │%s %s kg (%s g/kWh)\n",
			r.Location, pad, strings.Repeat("█", n), Number(r.CO2Kg, 2), Plain(r.Intensity)); err != nil {
			return err
		}
	}
	return nil
}
