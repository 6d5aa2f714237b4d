package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"pokerarena/internal/arena/types"
)

type resultsHashOutput struct {
	ResultsHash string          `json:"results_hash"`
	Standings   types.Standings `json:"standings"`
}

func resultsHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "results-hash <standings.json|->",
		Short: "Compute the results hash committed by finalize_tournament",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw []byte
				err error
			)
			if args[0] == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			var s types.Standings
			if err := json.Unmarshal(raw, &s); err != nil {
				return fmt.Errorf("decode standings: %w", err)
			}
			hash, err := s.Hash()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resultsHashOutput{ResultsHash: hash.String(), Standings: s.Canonical()})
		},
	}
}
