// Package aggregate provides the aggregate command, which writes the NcML
// aggregation descriptor of every station.
package aggregate

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/ncreconcile/cmd/application"
	"github.com/agentstation/ncreconcile/internal/cmd/output"
	"github.com/agentstation/ncreconcile/pkg/archive"
	"github.com/agentstation/ncreconcile/pkg/errors"
	"github.com/agentstation/ncreconcile/pkg/logging"
	"github.com/agentstation/ncreconcile/pkg/ncml"
)

// Flags holds the aggregate command flags.
type Flags struct {
	Dest      string
	Overwrite bool
	EndTime   bool
}

// NewCommand creates the aggregate command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "aggregate",
		GroupID: "management",
		Short:   "Write NcML aggregation descriptors for every station",
		Args:    cobra.NoArgs,
		Long: `Aggregate writes STATION/STATION-aggregated.ncml for every station below
--dest. The descriptor joins the station files along time and carries the
earliest time of the station as time_coverage_start.

Existing descriptors are left alone unless --overwrite is given; an
overwritten descriptor keeps its id.`,
		Example: `  ncreconcile aggregate --dest /data/stations
  ncreconcile aggregate --dest /data/stations --overwrite --end-time`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings := app.Settings()
			if !cmd.Flags().Changed("dest") {
				flags.Dest = settings.Dest
			}
			return Execute(cmd.Context(), app, flags, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&flags.Dest, "dest", "", "archive root holding the station directories (required)")
	cmd.Flags().BoolVar(&flags.Overwrite, "overwrite", false, "rewrite existing descriptors, keeping their id")
	cmd.Flags().BoolVar(&flags.EndTime, "end-time", false, "add an empty time_coverage_end for ongoing stations")

	return cmd
}

// Execute writes the descriptors and prints one row per station.
func Execute(ctx context.Context, app application.Application, flags *Flags, stdout, stderr io.Writer) error {
	if flags.Dest == "" {
		return errors.NewValidationError("dest", flags.Dest, "an archive root is required (--dest)")
	}
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}

	settings := app.Settings()
	ctx = logging.WithOperation(logging.WithLogger(ctx, app.Logger()), "aggregate")

	writer := ncml.NewWriter(app.Codec(),
		archive.New(archive.WithStationPrefix(settings.StationPrefix)),
		ncml.WithOverwrite(flags.Overwrite),
		ncml.WithEndTime(flags.EndTime),
	)
	results, err := writer.Run(ctx, flags.Dest)
	if err != nil {
		return err
	}

	if err := output.Print(stdout, output.DetectFormat(string(format)), output.AggregateToTableData(results), results); err != nil {
		return err
	}

	var written, skipped, failed int
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
		case r.Skipped:
			skipped++
		default:
			written++
		}
	}
	fmt.Fprintf(stderr, "%d descriptors written, %d skipped, %d failed\n", written, skipped, failed)
	return nil
}
