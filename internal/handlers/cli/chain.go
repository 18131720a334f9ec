package cli

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gabapcia/chainledger/internal/node"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v3"
)

// chainCommand groups the ledger lifecycle operations: creation, status,
// manual sealing and the periodic sealing loop.
//
// Usage example:
//
//	chainledger chain init --difficulty 2 --reward 100 --fee 0.01
func chainCommand(n node.Service) *cli.Command {
	return &cli.Command{
		Name:        "chain",
		Description: "Manage the ledger lifecycle: creation, status, manual sealing and the periodic sealing loop.",
		Usage:       "chain [command] [flags]",
		Commands: []*cli.Command{
			initChainCommand(n),
			chainStatusCommand(n),
			sealBlockCommand(n),
			startSealingCommand(n),
		},
	}
}

// initChainCommand returns a CLI command that creates the ledger with the
// given economic parameters and seals its genesis block.
//
// Usage example:
//
//	chainledger chain init --difficulty 2 --reward 100 --fee 0.01
func initChainCommand(n node.Service) *cli.Command {
	return &cli.Command{
		Name:        "init",
		Description: "Create the ledger, seal its genesis block and persist the first snapshot.",
		Usage:       "Initializes the ledger. Fails when the ledger already exists.",
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:  "difficulty",
				Usage: "Number of leading zeros a sealed block digest must carry",
			},
			&cli.FloatFlag{
				Name:  "reward",
				Usage: "Amount minted to the chain address at each sealing",
			},
			&cli.FloatFlag{
				Name:  "fee",
				Usage: "Rate charged on top of every transfer",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			var (
				difficulty = c.Float("difficulty")
				reward     = c.Float("reward")
				fee        = c.Float("fee")
			)

			status, err := n.InitChain(ctx, difficulty, reward, fee)
			if err != nil {
				return err
			}

			pterm.Success.Printfln("Ledger initialized at address %s", status.Address)
			return renderChainStatus(status)
		},
	}
}

// chainStatusCommand returns a CLI command that prints the persisted ledger
// state: the chain address, economic parameters and growth counters.
//
// Usage example:
//
//	chainledger chain status
func chainStatusCommand(n node.Service) *cli.Command {
	return &cli.Command{
		Name:        "status",
		Description: "Summarize the persisted ledger state.",
		Usage:       "Prints the chain address, economic parameters and growth counters.",
		Action: func(ctx context.Context, c *cli.Command) error {
			status, err := n.Status(ctx)
			if err != nil {
				return err
			}

			return renderChainStatus(status)
		},
	}
}

// sealBlockCommand returns a CLI command that mines a single block onto the
// chain at the current difficulty.
//
// Usage example:
//
//	chainledger chain seal
func sealBlockCommand(n node.Service) *cli.Command {
	return &cli.Command{
		Name:        "seal",
		Description: "Mine a single block onto the chain at the current difficulty.",
		Usage:       "Seals one block and prints it.",
		Action: func(ctx context.Context, c *cli.Command) error {
			sealed, err := n.SealBlock(ctx)
			if err != nil {
				return err
			}

			pterm.Success.Printfln("Block %d sealed", sealed.Height)
			return renderSealedBlock(sealed)
		},
	}
}

// startSealingCommand returns a CLI command that runs the periodic sealing
// loop, mining one block per interval and notifying each sealed block.
//
// Usage example:
//
//	chainledger chain start --interval 1m
//
// The process runs indefinitely until it receives an interrupt (SIGINT or SIGTERM).
func startSealingCommand(n node.Service) *cli.Command {
	return &cli.Command{
		Name:        "start",
		Description: "Run the periodic sealing loop, mining one block per interval.",
		Usage:       "Starts the sealing loop. Terminates gracefully on Ctrl+C or termination signals.",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "Time between two consecutive seals",
				Value: time.Minute,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			quit := make(chan os.Signal, 1)
			defer close(quit)

			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			interval := c.Duration("interval")
			if err := n.Start(ctx, interval); err != nil {
				return err
			}
			defer n.Close()

			pterm.Info.Printfln("Sealing a block every %s. Press Ctrl+C to stop.", interval)

			<-quit
			return nil
		},
	}
}

// renderChainStatus prints the chain summary as a two-column table.
func renderChainStatus(status node.ChainStatus) error {
	return pterm.DefaultTable.WithData(pterm.TableData{
		{"Address", status.Address},
		{"Difficulty", formatAmount(status.Difficulty)},
		{"Reward", formatAmount(status.Reward)},
		{"Fee", formatAmount(status.Fee)},
		{"Blocks", strconv.Itoa(status.BlockCount)},
		{"Wallets", strconv.Itoa(status.WalletCount)},
		{"Transactions", strconv.Itoa(status.TransactionCount)},
		{"Last hash", status.LastHash},
	}).Render()
}

// renderSealedBlock prints the sealed block header followed by the
// transactions it carries.
func renderSealedBlock(block node.SealedBlock) error {
	err := pterm.DefaultTable.WithData(pterm.TableData{
		{"Height", strconv.Itoa(block.Height)},
		{"Hash", block.Hash},
		{"Previous hash", block.Header.PreviousHash},
		{"Merkle root", block.Header.Merkle},
		{"Nonce", strconv.FormatUint(block.Header.Nonce, 10)},
	}).Render()
	if err != nil {
		return err
	}

	return renderTransactions(block.Transactions)
}
