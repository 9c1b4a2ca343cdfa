// Package main runs unattended combats for balance checks.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Curtain Call combat simulator",
	Long:  `Plays combats with a greedy policy and reports outcomes, for balancing content and difficulty levels.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
}
