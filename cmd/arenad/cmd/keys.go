package cmd

import (
	"github.com/spf13/cobra"

	"pokerarena/internal/arenacrypto"
)

type keyOutput struct {
	Address string `json:"address"`
	Secret  string `json:"secret,omitempty"`
}

func keysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Create and inspect ed25519 signing keys",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "new",
			Short: "Generate a key and print its secret and address",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				k := arenacrypto.GenPrivKey()
				return printJSON(cmd.OutOrStdout(), keyOutput{Address: k.Address().String(), Secret: k.Hex()})
			},
		},
		&cobra.Command{
			Use:   "show <secret-hex>",
			Short: "Print the address of a secret key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				k, err := arenacrypto.PrivKeyFromHex(args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), keyOutput{Address: k.Address().String()})
			},
		},
	)
	return cmd
}
