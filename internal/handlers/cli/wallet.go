package cli

import (
	"context"
	"strconv"

	"github.com/gabapcia/chainledger/internal/ledger"
	"github.com/gabapcia/chainledger/internal/node"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v3"
)

// walletCommand groups the wallet operations: registration, lookup, balance
// and transaction history.
//
// Usage example:
//
//	chainledger wallet create --email owner@example.com
func walletCommand(n node.Service) *cli.Command {
	return &cli.Command{
		Name:        "wallet",
		Description: "Manage wallets: registration, lookup, balance and transaction history.",
		Usage:       "wallet [command] [flags]",
		Commands: []*cli.Command{
			createWalletCommand(n),
			showWalletCommand(n),
			walletBalanceCommand(n),
			walletTransactionsCommand(n),
		},
	}
}

// createWalletCommand returns a CLI command that registers a new wallet
// owned by the given email and prints the generated address.
//
// Usage example:
//
//	chainledger wallet create --email owner@example.com
func createWalletCommand(n node.Service) *cli.Command {
	return &cli.Command{
		Name:        "create",
		Description: "Register a new wallet under a freshly generated address.",
		Usage:       "Creates a wallet. Must provide the owner email.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "email",
				Usage:    "Owner email attached to the wallet",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			wallet, err := n.CreateWallet(ctx, c.String("email"))
			if err != nil {
				return err
			}

			pterm.Success.Printfln("Wallet %s created", wallet.Address)
			return renderWallet(wallet)
		},
	}
}

// showWalletCommand returns a CLI command that prints the wallet registered
// under the given address.
//
// Usage example:
//
//	chainledger wallet show --address <address>
func showWalletCommand(n node.Service) *cli.Command {
	return &cli.Command{
		Name:        "show",
		Description: "Print the wallet registered under the given address.",
		Usage:       "Shows a wallet. Must provide the wallet address.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "address",
				Usage:    "Wallet address to look up",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			wallet, err := n.Wallet(ctx, c.String("address"))
			if err != nil {
				return err
			}

			return renderWallet(wallet)
		},
	}
}

// walletBalanceCommand returns a CLI command that prints the current balance
// of a wallet.
//
// Usage example:
//
//	chainledger wallet balance --address <address>
func walletBalanceCommand(n node.Service) *cli.Command {
	return &cli.Command{
		Name:        "balance",
		Description: "Print the current balance of a wallet.",
		Usage:       "Shows a wallet balance. Must provide the wallet address.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "address",
				Usage:    "Wallet address to look up",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			balance, err := n.WalletBalance(ctx, c.String("address"))
			if err != nil {
				return err
			}

			pterm.Info.Printfln("Balance: %s", formatAmount(balance))
			return nil
		},
	}
}

// walletTransactionsCommand returns a CLI command that prints one page of a
// wallet's transaction history, oldest first.
//
// Usage example:
//
//	chainledger wallet transactions --address <address> --page 1 --size 10
func walletTransactionsCommand(n node.Service) *cli.Command {
	return &cli.Command{
		Name:        "transactions",
		Description: "Print one page of a wallet's transaction history, oldest first.",
		Usage:       "Lists wallet transactions. Must provide the wallet address.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "address",
				Usage:    "Wallet address to look up",
				Required: true,
			},
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
				address = c.String("address")
				page    = int(c.Int("page"))
				size    = int(c.Int("size"))
			)

			transactions, err := n.WalletTransactions(ctx, address, page, size)
			if err != nil {
				return err
			}

			return renderTransactions(transactions)
		},
	}
}

// renderWallet prints the wallet record as a two-column table.
func renderWallet(wallet ledger.Wallet) error {
	return pterm.DefaultTable.WithData(pterm.TableData{
		{"ID", wallet.ID.String()},
		{"Email", wallet.Email},
		{"Address", wallet.Address},
		{"Balance", formatAmount(wallet.Balance)},
		{"Transactions", strconv.Itoa(len(wallet.TransactionHashes))},
	}).Render()
}
