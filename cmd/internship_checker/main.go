// Package main provides the entry point for the internship requirement checker.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "internship_checker",
	Short: "Internship requirement checker",
	Long: `Reads the internship portal's company directory, infers whether each posting asks for a CV,
a transcript and a minimum GPA, and stores one requirement record per posting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config.json file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Development logging and per-posting output")
	rootCmd.PersistentFlags().String("base-url", "", "Internship portal base URL (defaults to DIRECTORY_BASE_URL env var)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "HTTP request timeout (default none)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
