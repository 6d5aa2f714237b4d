package app

import "pokerarena/internal/bank"

// GenesisState is the app_state section of the CometBFT genesis file.
type GenesisState struct {
	Bank bank.GenesisState `json:"bank"`
}

func DefaultGenesis() GenesisState {
	return GenesisState{Bank: bank.GenesisState{Balances: []bank.Balance{}}}
}

func (gs GenesisState) Validate() error {
	return gs.Bank.Validate()
}
