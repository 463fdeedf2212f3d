package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Chart writes an HTML page plotting hit ratio against capacity,
// one series per policy.
func Chart(w io.Writer, title string, table [][]Result) error {
	if len(table) == 0 || len(table[0]) == 0 {
		return errEmptyTable
	}
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithXAxisOpts(opts.XAxis{
			Name: "capacity",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "hit ratio",
			AxisLabel: &opts.AxisLabel{
				Formatter: "{value}%",
			},
		}),
		charts.WithTitleOpts(opts.Title{
			Title: title,
			Right: "50%",
		}),
		charts.WithLegendOpts(opts.Legend{
			Orient: "vertical",
			Right:  "0%",
			Top:    "10%",
		}),
	)
	capacities := make([]int, 0, len(table[0]))
	for _, r := range table[0] {
		capacities = append(capacities, r.Capacity)
	}
	line = line.SetXAxis(capacities)
	for _, results := range table {
		lineData := make([]opts.LineData, 0, len(results))
		for _, r := range results {
			lineData = append(lineData, opts.LineData{
				Value: r.Ratio(),
			})
		}
		line = line.AddSeries(string(results[0].Policy), lineData)
	}
	line.SetSeriesOptions(charts.WithLineChartOpts(
		opts.LineChart{
			Smooth: opts.Bool(true),
		}),
	)
	if err := line.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
