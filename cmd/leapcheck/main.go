// Package main provides the leapcheck CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/leapcheck/internal/cli"

	// Register database adapters.
	_ "github.com/leapstack-labs/leapcheck/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapcheck/pkg/adapters/mysql"
	_ "github.com/leapstack-labs/leapcheck/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leapcheck/pkg/adapters/sqlite"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
