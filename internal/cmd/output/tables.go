package output

import (
	"strconv"
	"strings"

	"github.com/agentstation/ncreconcile/pkg/check"
	"github.com/agentstation/ncreconcile/pkg/constants"
	"github.com/agentstation/ncreconcile/pkg/ncml"
	"github.com/agentstation/ncreconcile/pkg/schema"
)

// CheckToTableData converts a check run into one row per station.
func CheckToTableData(result *check.Result) Data {
	data := Data{
		Headers: []string{"Station", "Status", "Files", "Unchanged", "Backfilled", "Rebuilt", "Failed", "Grid", "Error"},
		ColumnAlignment: []Align{
			AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight, AlignLeft, AlignLeft,
		},
	}
	for _, st := range result.Stations {
		c := st.Counts()
		grid := "-"
		if st.Grid != nil {
			grid = st.Grid.Axis + " x" + strconv.Itoa(st.Grid.Count())
		}
		data.Rows = append(data.Rows, []string{
			st.Name,
			string(st.Status()),
			strconv.Itoa(c.Files),
			strconv.Itoa(c.Unchanged),
			strconv.Itoa(c.Backfill),
			strconv.Itoa(c.Rebuilt),
			strconv.Itoa(c.Failed),
			grid,
			dash(st.Error),
		})
	}
	return data
}

// AggregateToTableData converts written descriptors into one row per station.
func AggregateToTableData(results []ncml.StationResult) Data {
	data := Data{
		Headers:         []string{"Station", "Descriptor", "Files", "Coverage Start", "ID", "Note"},
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignLeft, AlignLeft, AlignLeft},
	}
	for _, r := range results {
		start := "-"
		if !r.Start.Time.IsZero() {
			start = r.Start.Time.Format(constants.TimeFormatCoverage)
		}
		note := r.Error
		if r.Skipped {
			note = "exists, skipped"
		}
		data.Rows = append(data.Rows, []string{
			r.Station,
			r.Path,
			strconv.Itoa(r.Files),
			start,
			dash(r.ID),
			dash(note),
		})
	}
	return data
}

// SchemaToTableData converts schema variables into one row per variable.
func SchemaToTableData(vars []schema.Variable) Data {
	data := Data{
		Headers: []string{"Variable", "Standard Name", "Units", "Type", "Dimensions", "Missing Value"},
	}
	for _, v := range vars {
		missing := "-"
		if v.HasMissingValue {
			missing = strconv.FormatFloat(v.MissingValue, 'g', -1, 64)
		}
		data.Rows = append(data.Rows, []string{
			v.Name,
			dash(v.StandardName),
			dash(v.Units),
			string(v.Type),
			dash(strings.Join(v.Dimensions, ", ")),
			missing,
		})
	}
	return data
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
