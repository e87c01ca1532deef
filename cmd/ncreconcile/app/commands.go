package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/ncreconcile/cmd/ncreconcile/cmd/aggregate"
	"github.com/agentstation/ncreconcile/cmd/ncreconcile/cmd/check"
	"github.com/agentstation/ncreconcile/cmd/ncreconcile/cmd/inspect"
	"github.com/agentstation/ncreconcile/cmd/ncreconcile/cmd/version"
)

// CreateCheckCommand creates the check command with app dependencies.
func (a *App) CreateCheckCommand() *cobra.Command {
	return check.NewCommand(a)
}

// CreateAggregateCommand creates the aggregate command with app dependencies.
func (a *App) CreateAggregateCommand() *cobra.Command {
	return aggregate.NewCommand(a)
}

// CreateInspectCommand creates the inspect command with app dependencies.
func (a *App) CreateInspectCommand() *cobra.Command {
	return inspect.NewCommand(a)
}

// CreateVersionCommand creates the version command with app dependencies.
func (a *App) CreateVersionCommand() *cobra.Command {
	return version.NewCommand(a)
}
