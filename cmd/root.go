package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/customer-xref/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "customer-xref",
	Short: "Cross-dataset company/address reconciliation",
	Long:  "Reconciles two company/address datasets without a shared identifier: normalizes identity and location fields, blocks by postal/city, fuzzy-matches names, and produces a merged company view plus coverage metrics.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
