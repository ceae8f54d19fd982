package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bizmanager",
	Short: "BizManager is a USSD business assistant for micro-businesses",
	Long: `BizManager serves an interactive USSD dialog that lets business owners
register, log revenue and expenses, manage inventory and check the
health of their business from any feature phone.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to the YAML config file")
}
