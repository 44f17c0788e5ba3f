package main

import (
	"fmt"
	"os"

	"github.com/jask/walletshell/cmd/walletshell/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "walletshell:", err)
		os.Exit(1)
	}
}
