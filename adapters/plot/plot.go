package plot

import (
	"fmt"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"gazelab/domain/metrics"
	"gazelab/internal/errors"
)

// Fixed canvas so every metric's figure lands at the same physical size.
const (
	chartWidth  = 1280
	chartHeight = 720
)

var conditionColors = []drawing.Color{
	chart.ColorBlue,
	chart.ColorAlternateGreen,
	chart.ColorOrange,
}

// RenderComparison draws a grouped bar chart of group means, one bar per
// (tracker, condition), colored by condition. White background, PNG output.
func RenderComparison(path, title string, groups []metrics.GroupStats) error {
	if len(groups) == 0 {
		return errors.New("NO_GROUPS", "nothing to plot for "+title)
	}

	colorByCondition := map[string]drawing.Color{}
	bars := make([]chart.Value, 0, len(groups))
	for _, group := range groups {
		color, ok := colorByCondition[group.Condition]
		if !ok {
			color = conditionColors[len(colorByCondition)%len(conditionColors)]
			colorByCondition[group.Condition] = color
		}
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s\n%s", shortLabel(group.Tracker), group.Condition),
			Value: group.Mean,
			Style: chart.Style{
				FillColor:   color,
				StrokeColor: color,
				StrokeWidth: 0,
			},
		})
	}

	graph := chart.BarChart{
		Title:      title,
		Width:      chartWidth,
		Height:     chartHeight,
		DPI:        300,
		BarWidth:   48,
		BarSpacing: 24,
		Background: chart.Style{
			FillColor: drawing.ColorWhite,
			Padding:   chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 24},
		},
		Canvas: chart.Style{FillColor: drawing.ColorWhite},
		Bars:   bars,
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create plot directory for %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return errors.Wrapf(err, "failed to render %s", path)
	}
	return nil
}

// shortLabel trims long device names so bar labels stay legible.
func shortLabel(tracker string) string {
	if len(tracker) <= 14 {
		return tracker
	}
	return tracker[:14]
}
