package main

import (
	"os"

	"github.com/wonny/qualis/cmd/qualis/commands"
)

// main is the entry point for the Qualis CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/qualis [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
