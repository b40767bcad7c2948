package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/payroll-check/internal/core/services"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete expired and consumed authorization states",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		st, err := openStores(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := services.NewStateRegistry(st.states, cfg.StateTTL()).Cleanup(cmd.Context()); err != nil {
			return err
		}
		log.Println("Authorization states cleaned up")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}
