package cli

import (
	"context"
	"time"

	"github.com/gabapcia/chainledger/internal/ledger"
	"github.com/gabapcia/chainledger/internal/node"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v3"
)

// transactionCommand groups the transaction operations: submission, lookup
// and listing.
//
// Usage example:
//
//	chainledger tx send --from <address> --to <address> --amount 100
func transactionCommand(n node.Service) *cli.Command {
	return &cli.Command{
		Name:        "tx",
		Description: "Manage transactions: submission, lookup and listing.",
		Usage:       "tx [command] [flags]",
		Commands: []*cli.Command{
			sendTransactionCommand(n),
			showTransactionCommand(n),
			listTransactionsCommand(n),
		},
	}
}

// sendTransactionCommand returns a CLI command that admits a transfer
// between two wallets, charging the sender the chain fee on top.
//
// Usage example:
//
//	chainledger tx send --from <address> --to <address> --amount 100
func sendTransactionCommand(n node.Service) *cli.Command {
	return &cli.Command{
		Name:        "send",
		Description: "Admit a fee-charged transfer between two wallets.",
		Usage:       "Sends a transaction. Must provide sender, receiver and amount.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "from",
				Usage:    "Sender wallet address",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "to",
				Usage:    "Receiver wallet address",
				Required: true,
			},
			&cli.FloatFlag{
				Name:     "amount",
				Usage:    "Amount credited to the receiver, before fees",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			var (
				from   = c.String("from")
				to     = c.String("to")
				amount = c.Float("amount")
			)

			transaction, err := n.SendTransaction(ctx, from, to, amount)
			if err != nil {
				return err
			}

			pterm.Success.Printfln("Transaction %s admitted", transaction.Hash)
			return renderTransactions([]ledger.Transaction{transaction})
		},
	}
}

// showTransactionCommand returns a CLI command that prints an admitted
// transaction by hash.
//
// Usage example:
//
//	chainledger tx show --hash <hash>
func showTransactionCommand(n node.Service) *cli.Command {
	return &cli.Command{
		Name:        "show",
		Description: "Print an admitted transaction by hash.",
		Usage:       "Shows a transaction. Must provide the transaction hash.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "hash",
				Usage:    "Transaction hash to look up",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			transaction, err := n.Transaction(ctx, c.String("hash"))
			if err != nil {
				return err
			}

			return renderTransactions([]ledger.Transaction{transaction})
		},
	}
}

// listTransactionsCommand returns a CLI command that prints one page of the
// chain wide transaction index, in admission order.
//
// Usage example:
//
//	chainledger tx list --page 1 --size 10
func listTransactionsCommand(n node.Service) *cli.Command {
	return &cli.Command{
		Name:        "list",
		Description: "Print one page of the chain wide transaction index, in admission order.",
		Usage:       "Lists admitted transactions.",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "page",
				Usage: "1-indexed page number",
				Value: 1,
			},
			&cli.IntFlag{
				Name:  "size",
				Usage: "Maximum entries per page",
				Value: 10,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			var (
				page = int(c.Int("page"))
				size = int(c.Int("size"))
			)

			transactions, err := n.Transactions(ctx, page, size)
			if err != nil {
				return err
			}

			return renderTransactions(transactions)
		},
	}
}

// renderTransactions prints transactions as a table, one row per record.
func renderTransactions(transactions []ledger.Transaction) error {
	data := pterm.TableData{
		{"Hash", "From", "To", "Fee", "Amount", "Time"},
	}
	for _, tx := range transactions {
		data = append(data, []string{
			tx.Hash,
			tx.From,
			tx.To,
			formatAmount(tx.Fee),
			formatAmount(tx.Amount),
			time.Unix(0, tx.Timestamp).UTC().Format(time.RFC3339),
		})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
