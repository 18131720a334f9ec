package cli

import (
	"context"

	"github.com/gabapcia/chainledger/internal/node"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v3"
)

// updateParametersCommand groups the economic parameter updates. Each update
// only affects future seals and transfers; already sealed blocks keep the
// parameters they were mined with.
//
// Usage example:
//
//	chainledger update difficulty --value 3
func updateParametersCommand(n node.Service) *cli.Command {
	return &cli.Command{
		Name:        "update",
		Description: "Update the economic parameters used by future seals and transfers.",
		Usage:       "update [command] --value <value>",
		Commands: []*cli.Command{
			updateDifficultyCommand(n),
			updateRewardCommand(n),
			updateFeeCommand(n),
		},
	}
}

// updateDifficultyCommand returns a CLI command that replaces the sealing
// difficulty used by future blocks.
//
// Usage example:
//
//	chainledger update difficulty --value 3
func updateDifficultyCommand(n node.Service) *cli.Command {
	return &cli.Command{
		Name:        "difficulty",
		Description: "Replace the sealing difficulty used by future blocks.",
		Usage:       "Sets the number of leading zeros a sealed block digest must carry.",
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:     "value",
				Usage:    "New difficulty, in leading zero characters",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			value := c.Float("value")

			if err := n.UpdateDifficulty(ctx, value); err != nil {
				return err
			}

			pterm.Success.Printfln("Difficulty updated to %s", formatAmount(value))
			return nil
		},
	}
}

// updateRewardCommand returns a CLI command that replaces the amount minted
// by future reward transactions.
//
// Usage example:
//
//	chainledger update reward --value 50
func updateRewardCommand(n node.Service) *cli.Command {
	return &cli.Command{
		Name:        "reward",
		Description: "Replace the amount minted by future reward transactions.",
		Usage:       "Sets the amount credited to the chain address at each sealing.",
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:     "value",
				Usage:    "New reward amount",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			value := c.Float("value")

			if err := n.UpdateReward(ctx, value); err != nil {
				return err
			}

			pterm.Success.Printfln("Reward updated to %s", formatAmount(value))
			return nil
		},
	}
}

// updateFeeCommand returns a CLI command that replaces the rate charged on
// future transfers.
//
// Usage example:
//
//	chainledger update fee --value 0.02
func updateFeeCommand(n node.Service) *cli.Command {
	return &cli.Command{
		Name:        "fee",
		Description: "Replace the rate charged on future transfers.",
		Usage:       "Sets the fee rate applied to every admitted transfer.",
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:     "value",
				Usage:    "New fee rate",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			value := c.Float("value")

			if err := n.UpdateFee(ctx, value); err != nil {
				return err
			}

			pterm.Success.Printfln("Fee updated to %s", formatAmount(value))
			return nil
		},
	}
}
