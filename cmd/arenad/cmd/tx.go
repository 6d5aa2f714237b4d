package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"pokerarena/internal/arenacrypto"
	"pokerarena/internal/codec"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Build transactions",
	}
	cmd.AddCommand(txSignCmd())
	return cmd
}

func txSignCmd() *cobra.Command {
	var (
		secret string
		nonce  uint64
	)
	cmd := &cobra.Command{
		Use:   "sign <type> <value-json|->",
		Short: "Sign a message and print the tx envelope",
		Long: "Sign a message and print the JSON tx envelope, ready for broadcast_tx.\n" +
			"Pass - as the value to read it from stdin.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("ARENAD_SIGNER_SECRET")
			}
			if secret == "" {
				return fmt.Errorf("--secret or ARENAD_SIGNER_SECRET is required")
			}
			key, err := arenacrypto.PrivKeyFromHex(secret)
			if err != nil {
				return err
			}

			raw := []byte(args[1])
			if args[1] == "-" {
				if raw, err = io.ReadAll(cmd.InOrStdin()); err != nil {
					return err
				}
			}
			if !json.Valid(raw) {
				return fmt.Errorf("value is not valid JSON")
			}

			txBytes, err := codec.EncodeTx(key, args[0], json.RawMessage(raw), nonce)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(txBytes))
			return err
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "hex ed25519 secret of the signer")
	cmd.Flags().Uint64Var(&nonce, "nonce", 1, "tx nonce, greater than the signer's last accepted nonce")
	return cmd
}
