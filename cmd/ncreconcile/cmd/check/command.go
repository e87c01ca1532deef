// Package check provides the check command, which reconciles every station
// of an archive against its reference schema and vertical grid.
package check

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/ncreconcile/cmd/application"
)

// Flags holds the check command flags.
type Flags struct {
	Dest         string
	LogDir       string
	Overwrite    bool
	KeepRejected bool
	DryRun       bool
	Report       string
}

// NewCommand creates the check command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "check",
		GroupID: "core",
		Short:   "Reconcile station files with their reference schema and vertical grid",
		Args:    cobra.NoArgs,
		Long: `Check walks every station directory below --dest and makes the files of
each station consistent with each other.

The command will:
• Take the newest file of a station as its reference schema
• Add variables missing from older files, filled with missing values
• Rebuild profile files whose vertical level count differs from the station grid

Rebuilt files only replace the original with --overwrite. Without it the
station stops at the first file that needs a rebuild and the file is left
untouched (with --keep-rejected the rebuilt copy is kept as FILE-updated).`,
		Example: `  ncreconcile check --dest /data/stations --log /var/log/ncreconcile
  ncreconcile check --dest /data/stations --log ./logs --overwrite
  ncreconcile check --dest /data/stations --log ./logs --dry-run --report run.md
  ncreconcile check --dest /data/stations --log ./logs -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolve(cmd, flags, app.Settings())
			return Execute(cmd.Context(), app, flags, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&flags.Dest, "dest", "", "archive root holding the station directories (required)")
	cmd.Flags().StringVar(&flags.LogDir, "log", "", "directory for the log file (required)")
	cmd.Flags().BoolVar(&flags.Overwrite, "overwrite", false, "replace files rebuilt on the station vertical grid")
	cmd.Flags().BoolVar(&flags.KeepRejected, "keep-rejected", false, "keep rebuilt files as FILE-updated when not overwriting")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "report what would change without writing files")
	cmd.Flags().StringVar(&flags.Report, "report", "", "write a markdown report of the run to this file")

	return cmd
}

// resolve fills flags the user did not set from the configured settings.
func resolve(cmd *cobra.Command, flags *Flags, settings application.Settings) {
	if !cmd.Flags().Changed("dest") {
		flags.Dest = settings.Dest
	}
	if !cmd.Flags().Changed("log") {
		flags.LogDir = settings.LogDir
	}
	if !cmd.Flags().Changed("overwrite") {
		flags.Overwrite = settings.Overwrite
	}
	if !cmd.Flags().Changed("keep-rejected") {
		flags.KeepRejected = settings.KeepRejected
	}
}
