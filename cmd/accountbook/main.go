// Package main is the entry point for the accountbook CLI.
package main

import (
	"os"

	"github.com/drasla/my-own-accountbook/cmd/accountbook/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
