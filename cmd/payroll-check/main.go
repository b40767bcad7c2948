package main

// @title           payroll-check API
// @version         1.0
// @description     Connects to freee with OAuth2 and checks monthly payroll statements for anomalies.

// @host      localhost:10000
// @BasePath  /
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Operator JWT. Format: "Bearer {token}"

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/payroll-check/internal/config"
)

var version = "dev"

// global flags
var configFile string

var rootCmd = &cobra.Command{
	Use:           "payroll-check",
	Short:         "freee payroll statement checker",
	Long:          "Authorizes against freee with OAuth2, fetches monthly payroll statements and reports rule violations.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadEnvFiles()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", os.Getenv("CONFIG_FILE"),
		"YAML configuration file (env: CONFIG_FILE)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("payroll-check: %v", err)
	}
}
