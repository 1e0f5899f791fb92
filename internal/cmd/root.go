package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "omnipos-order",
	Short: "OmniPOS order service - pricing, confirmation and sales reports",
	Long: `omnipos-order prices orders, confirms them against product stock and
builds sales reports.

Run "serve" to start the HTTP and gRPC servers together with the Kafka
command listener, or use the one-shot commands for reports and maintenance.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
