package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"pokerarena/cmd/arenad/cmd"
)

func main() {
	// A missing .env is fine; ARENAD_* may come from the real environment.
	_ = godotenv.Load()

	rootCmd := cmd.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}
