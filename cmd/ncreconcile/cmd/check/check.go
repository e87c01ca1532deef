package check

import (
	"context"
	"fmt"
	"io"

	"github.com/agentstation/ncreconcile/cmd/application"
	"github.com/agentstation/ncreconcile/internal/cmd/output"
	"github.com/agentstation/ncreconcile/internal/report"
	"github.com/agentstation/ncreconcile/pkg/archive"
	pkgcheck "github.com/agentstation/ncreconcile/pkg/check"
	"github.com/agentstation/ncreconcile/pkg/errors"
	"github.com/agentstation/ncreconcile/pkg/logging"
	"github.com/agentstation/ncreconcile/pkg/replace"
)

// Execute runs the check over flags.Dest and prints the per-station results.
// Only a failure to list the archive or a cancellation is returned as an
// error; station failures are reported in the output.
func Execute(ctx context.Context, app application.Application, flags *Flags, stdout, stderr io.Writer) error {
	if flags.Dest == "" {
		return errors.NewValidationError("dest", flags.Dest, "an archive root is required (--dest)")
	}
	if flags.LogDir == "" {
		return errors.NewValidationError("log", flags.LogDir, "a log directory is required (--log)")
	}
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}

	logger, err := app.LogTo(flags.LogDir)
	if err != nil {
		return err
	}
	ctx = logging.WithOperation(logging.WithLogger(ctx, logger), "check")

	settings := app.Settings()
	codec := app.Codec()
	checker := pkgcheck.New(codec,
		pkgcheck.WithWalker(archive.New(archive.WithStationPrefix(settings.StationPrefix))),
		pkgcheck.WithProfileVariables(settings.ProfileVariables...),
		pkgcheck.WithCoordinator(replace.New(codec,
			replace.WithOverwrite(flags.Overwrite),
			replace.WithKeepRejected(flags.KeepRejected),
			replace.WithDryRun(flags.DryRun),
		)),
	)

	result, err := checker.Run(ctx, flags.Dest)
	if err != nil {
		return err
	}

	if err := output.Print(stdout, output.DetectFormat(string(format)), output.CheckToTableData(result), result); err != nil {
		return err
	}
	fmt.Fprintln(stderr, result.Summary())

	if flags.Report != "" {
		if err := report.WriteFile(flags.Report, result); err != nil {
			return err
		}
		logging.FromContext(ctx).Info().Str("report", flags.Report).Msg("Wrote run report")
	}
	return nil
}
