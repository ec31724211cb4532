// Package main provides the entry point for the bufwords CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/bufwords/cmd/bufwords/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
