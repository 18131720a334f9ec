// Package cli wires the node service into the chainledger command-line
// interface.
package cli

import (
	"context"
	"os"
	"strconv"

	"github.com/gabapcia/chainledger/internal/node"

	"github.com/urfave/cli/v3"
)

// Run initializes and executes the chainledger CLI application.
//
// It registers all available command groups, including:
//
//   - `chain`: ledger lifecycle operations (init, status, seal, start).
//   - `update`: economic parameter updates (difficulty, reward, fee).
//   - `wallet`: wallet registration and lookups.
//   - `tx`: transaction submission and lookups.
//
// Parameters:
//   - ctx: Context used to control the lifecycle of the CLI application.
//   - n: The node service implementation used by every command.
//
// This function sets up shell completion and invokes the CLI framework to parse and run commands.
func Run(ctx context.Context, n node.Service) error {
	app := &cli.Command{
		EnableShellCompletion: true,
		Name:                  "chainledger",
		Description:           "Command-line interface for operating a chainledger node.",
		Usage:                 "chainledger [command] [flags]",
		Commands: []*cli.Command{
			chainCommand(n),
			updateParametersCommand(n),
			walletCommand(n),
			transactionCommand(n),
		},
	}

	return app.Run(ctx, os.Args)
}

// formatAmount renders a chain amount without trailing zeros.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
