package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

var errEmptyTable = errors.New("no results to report")

// Table writes one row per policy and one column per capacity.
// Each cell holds the hit count and the hit ratio.
func Table(w io.Writer, table [][]Result) error {
	if len(table) == 0 || len(table[0]) == 0 {
		return errEmptyTable
	}
	capacities := make([]string, 0, len(table[0]))
	for _, r := range table[0] {
		capacities = append(capacities, strconv.Itoa(r.Capacity))
	}
	writer := tablewriter.NewWriter(w).Options(tablewriter.WithRendition(tw.Rendition{
		Borders: tw.Border{
			Left:   tw.On,
			Top:    tw.Off,
			Right:  tw.On,
			Bottom: tw.Off,
		},
	}), tablewriter.WithHeader(append([]string{"Policy"}, capacities...)))
	for _, results := range table {
		row := make([]any, 0, len(results)+1)
		row = append(row, string(results[0].Policy))
		for _, r := range results {
			row = append(row, fmt.Sprintf("%d (%0.2f%%)", r.Hits, r.Ratio()))
		}
		if err := writer.Append(row...); err != nil {
			return err
		}
	}
	return writer.Render()
}
