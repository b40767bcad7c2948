package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	_ "github.com/custodia-labs/payroll-check/docs"
	"github.com/custodia-labs/payroll-check/internal/adapters/driven/auth"
	"github.com/custodia-labs/payroll-check/internal/adapters/driven/freee"
	"github.com/custodia-labs/payroll-check/internal/adapters/driving/http"
	"github.com/custodia-labs/payroll-check/internal/core/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newLogger(cfg)

	log.Printf("payroll-check %s starting", version)

	ctx := context.Background()
	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	oauthService := services.NewOAuthService(services.OAuthServiceConfig{
		States:       services.NewStateRegistry(st.states, cfg.StateTTL()),
		TokenStore:   st.tokens,
		Exchanger:    freee.NewOAuthClient(freeeConfig(cfg)),
		ClientID:     cfg.Freee.ClientID,
		ClientSecret: cfg.Freee.ClientSecret,
		RedirectURI:  cfg.Freee.RedirectURI,
		Scopes:       cfg.Freee.Scopes,
		Prompt:       cfg.Freee.Prompt,
		Logger:       logger,
	})

	svc := http.Services{
		OAuth: oauthService,
		Check: newCheckService(cfg, st, logger),
		Backends: map[string]http.Pinger{
			"states": st.states,
			"tokens": st.tokens,
		},
		Logger: logger,
	}
	if cfg.Auth.OperatorTokenSecret != "" {
		svc.Auth = services.NewAuthService(auth.NewAdapter(cfg.Auth.OperatorTokenSecret))
		log.Println("Operator token required on /check")
	}

	server := http.NewServer(http.Config{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        version,
		StaticDir:      cfg.Server.StaticDir,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		TrustProxy:     cfg.Server.TrustProxy,
	}, svc)

	log.Printf("Open http://localhost:%d/auth in a browser to authorize with freee", cfg.Server.Port)
	return server.Start()
}
