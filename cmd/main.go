// Package main provides the CLI entry point for the access log analyzer
// This tool provides three commands:
// 1. analyze - Download an access log and produce the JSON reports and charts
// 2. load    - Parse an access log and store the records in SQLite
// 3. query   - Execute read-only SQL queries against the stored records
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"access-log-analyzer/internal/commands"
	"access-log-analyzer/internal/config"
)

func main() {
	config.Init()

	// Root command defines the base command when called without any subcommands
	var rootCmd = &cobra.Command{
		Use:   "access-log-analyzer",
		Short: "A CLI tool for analyzing web-server access logs",
		Long: `Access Log Analyzer downloads a web-server access log, parses each line
into a structured record and produces summary statistics, charts and a
JSON report.

The analyze command runs the whole pipeline in one pass. For ad-hoc
exploration, the load command stores the parsed records in a SQLite
database and the query command runs read-only SQL against it.`,
	}

	// Add subcommands
	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewLoadCommand())
	rootCmd.AddCommand(commands.NewQueryCommand())

	// Execute the root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
