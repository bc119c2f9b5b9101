package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Show provider configuration and failover order",
	RunE: func(cmd *cobra.Command, args []string) error {
		known := []string{"anthropic", "gemini", "deepseek"}

		fmt.Printf("%-12s %-12s %s\n", "PROVIDER", "STATUS", "MODEL")
		for _, id := range known {
			p, _ := cfg.Provider(id)
			status := "missing key"
			if p.Configured() {
				status = "configured"
			}
			fmt.Printf("%-12s %-12s %s\n", id, status, p.Model)
		}
		fmt.Printf("\nfailover order: %s\n", strings.Join(cfg.Pipeline.Priority, " -> "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}
