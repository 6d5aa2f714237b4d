package cmd

import (
	"fmt"
	"strings"

	sdkmath "cosmossdk.io/math"
	"github.com/spf13/cobra"

	"pokerarena/internal/app"
	"pokerarena/internal/arenacrypto"
	"pokerarena/internal/bank"
)

func genesisCmd() *cobra.Command {
	var accounts []string
	cmd := &cobra.Command{
		Use:   "genesis",
		Short: "Print an app_state for the CometBFT genesis file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gs := app.DefaultGenesis()
			for _, acc := range accounts {
				b, err := parseAccount(acc)
				if err != nil {
					return err
				}
				gs.Bank.Balances = append(gs.Bank.Balances, b)
			}
			if err := gs.Validate(); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), gs)
		},
	}
	cmd.Flags().StringArrayVar(&accounts, "account", nil, "funded account as <address>=<amount"+bank.NativeDenom+">, repeatable")
	return cmd
}

func parseAccount(s string) (bank.Balance, error) {
	addrStr, amountStr, ok := strings.Cut(s, "=")
	if !ok {
		return bank.Balance{}, fmt.Errorf("account %q: want <address>=<amount>", s)
	}
	addr, err := arenacrypto.ParseAddress(addrStr)
	if err != nil {
		return bank.Balance{}, fmt.Errorf("account %q: %w", s, err)
	}
	amount, ok := sdkmath.NewIntFromString(strings.TrimSuffix(amountStr, bank.NativeDenom))
	if !ok {
		return bank.Balance{}, fmt.Errorf("account %q: invalid amount", s)
	}
	return bank.Balance{Address: addr, Amount: amount}, nil
}
