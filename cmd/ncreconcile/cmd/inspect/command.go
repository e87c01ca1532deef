// Package inspect provides the inspect command, which prints the schema and
// vertical grid of a single station file.
package inspect

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/ncreconcile/cmd/application"
	"github.com/agentstation/ncreconcile/internal/cmd/output"
	"github.com/agentstation/ncreconcile/pkg/dataset"
	"github.com/agentstation/ncreconcile/pkg/schema"
	"github.com/agentstation/ncreconcile/pkg/vertical"
)

// Inspection describes one file.
type Inspection struct {
	Path        string            `json:"path" yaml:"path"`
	FeatureType string            `json:"feature_type,omitempty" yaml:"feature_type,omitempty"`
	TimeSteps   int               `json:"time_steps" yaml:"time_steps"`
	Variables   []schema.Variable `json:"variables" yaml:"variables"`
	Grid        *vertical.Grid    `json:"grid,omitempty" yaml:"grid,omitempty"`

	// Problems lists what would stop the file from serving as a reference.
	Problems []string `json:"problems,omitempty" yaml:"problems,omitempty"`
}

// NewCommand creates the inspect command using app context.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "inspect FILE",
		GroupID: "management",
		Short:   "Show the schema and vertical grid of a station file",
		Args:    cobra.ExactArgs(1),
		Example: `  ncreconcile inspect /data/stations/SN18700/2024/SN18700_2024.nc
  ncreconcile inspect -o yaml SN18701_2023.nc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Execute(cmd.Context(), app, args[0], cmd.OutOrStdout())
		},
	}
}

// Execute loads path and prints its description.
func Execute(_ context.Context, app application.Application, path string, w io.Writer) error {
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}

	ds, err := app.Codec().Load(path)
	if err != nil {
		return err
	}
	in := Inspect(ds, app.Settings().ProfileVariables)

	format = output.DetectFormat(string(format))
	if format != output.FormatTable {
		return output.NewFormatter(format).Format(w, in)
	}

	fmt.Fprintf(w, "%s\n", in.Path)
	if in.FeatureType != "" {
		fmt.Fprintf(w, "featureType: %s, %d time steps\n", in.FeatureType, in.TimeSteps)
	}
	if in.Grid != nil {
		fmt.Fprintf(w, "vertical grid: %s (%d levels)\n", in.Grid, in.Grid.Count())
	}
	if err := output.NewFormatter(output.FormatTable).Format(w, output.SchemaToTableData(in.Variables)); err != nil {
		return err
	}
	for _, p := range in.Problems {
		fmt.Fprintf(w, "problem: %s\n", p)
	}
	return nil
}

// Inspect describes ds. Variables whose schema cannot be read are listed
// by name with the reason recorded as a problem.
func Inspect(ds *dataset.Dataset, profileVars []string) Inspection {
	in := Inspection{Path: ds.Path}

	featureType, err := ds.FeatureType()
	if err != nil {
		in.Problems = append(in.Problems, err.Error())
	} else {
		in.FeatureType = string(featureType)
	}
	if n, err := ds.TimeLength(); err == nil {
		in.TimeSteps = n
	} else {
		in.Problems = append(in.Problems, err.Error())
	}

	for _, v := range ds.Variables() {
		s, err := schema.FromVariable(v)
		if err != nil {
			in.Problems = append(in.Problems, err.Error())
			s = schema.Variable{Name: v.Name, Dimensions: v.Dimensions}
			s.Type, _ = v.Type()
		}
		in.Variables = append(in.Variables, s)
	}

	if featureType == dataset.ProfileSeries {
		if grid, err := vertical.Detect(ds, profileVars); err == nil {
			in.Grid = &grid
		} else {
			in.Problems = append(in.Problems, err.Error())
		}
	}
	return in
}
