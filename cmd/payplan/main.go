// Package main implements the payplan CLI: one-shot extraction from files or
// stdin, and an HTTP server exposing the same engine.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "time/tzdata"
)

var (
	// configPath overrides ~/.config/payplan/config.yaml
	configPath string
	// logLevel overrides logging.level when set
	logLevel string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "payplan",
	Short: "Extract BNPL installments from payment emails",
	Long: `payplan reads pasted Buy Now Pay Later emails (Klarna, Affirm, Afterpay,
PayPal Pay in 4, Zip, Sezzle) and extracts each installment: provider,
installment number, due date, amount, autopay and late fee.

Blocks that cannot be extracted are reported as issues with a redacted
snippet; raw email text is never logged.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/payplan/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (trace, debug, info, warn, error)")
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(reparseCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the payplan version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "payplan %s\n", version)
	},
}
