package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/payroll-check/internal/config"
	"github.com/custodia-labs/payroll-check/internal/core/domain"
)

var (
	checkYear  int
	checkMonth int
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check one month of payroll statements and print the result as JSON",
	Long: "Runs the payroll checks once using the credential in the configured store.\n" +
		"Needs a shared store (redis or postgres) authorized through a running server.",
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().IntVar(&checkYear, "year", 0, "Target year")
	checkCmd.Flags().IntVar(&checkMonth, "month", 0, "Target month")
	_ = checkCmd.MarkFlagRequired("year")
	_ = checkCmd.MarkFlagRequired("month")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Freee.CompanyID == "" {
		return errors.New("FREEE_COMPANY_ID is required")
	}
	if cfg.Store.Backend == config.BackendMemory {
		return errors.New("check needs STORE_BACKEND=redis or postgres; the memory store holds no credential outside the server")
	}
	logger := newLogger(cfg)

	period, err := domain.ParsePeriod(strconv.Itoa(checkYear), strconv.Itoa(checkMonth))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	result, err := newCheckService(cfg, st, logger).Check(ctx, period)
	if err != nil {
		if errors.Is(err, domain.ErrNoCredential) {
			return fmt.Errorf("%w: open /auth on the server first", err)
		}
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
