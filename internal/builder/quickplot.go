package builder

import (
	"fmt"

	"github.com/streamplot/streamplot/internal/telemetry"
)

// quickPlotFrame synthesizes a disposable frame from N ordered raw fields.
// Structure is rebuilt from scratch on every message: a datagrid group with
// every channel, a multiplot group when there is more than one channel, and
// an individual-plots group where a lone channel is promoted to the overview.
func quickPlotFrame(fields []string) telemetry.Frame {
	channels := make([]telemetry.Dataset, 0, len(fields))
	for i, field := range fields {
		channels = append(channels, telemetry.Dataset{
			GroupID: 0,
			Index:   i + 1,
			Title:   fmt.Sprintf("Channel %d", i+1),
			Value:   field,
		})
	}

	frame := telemetry.Frame{Title: "Quick Plot"}

	frame.Groups = append(frame.Groups, telemetry.Group{
		ID:       0,
		Title:    "Quick Plot Data",
		Widget:   "datagrid",
		Datasets: channels,
	})

	if len(channels) > 1 {
		multiplot := telemetry.Group{
			ID:       1,
			Title:    "Multiple Plots",
			Widget:   "multiplot",
			Datasets: append([]telemetry.Dataset(nil), channels...),
		}
		for i := range multiplot.Datasets {
			multiplot.Datasets[i].GroupID = 1
		}
		frame.Groups = append(frame.Groups, multiplot)
	}

	plots := telemetry.Group{
		ID:       2,
		Title:    "Individual Plots",
		Widget:   "",
		Datasets: append([]telemetry.Dataset(nil), channels...),
	}
	for i := range plots.Datasets {
		plots.Datasets[i].GroupID = 2
		plots.Datasets[i].Graph = true
		plots.Datasets[i].DisplayInOverview = len(plots.Datasets) == 1
	}
	frame.Groups = append(frame.Groups, plots)

	return frame
}
