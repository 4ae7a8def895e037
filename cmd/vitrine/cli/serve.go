package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vitrinecms/vitrine/internal/auth"
	"github.com/vitrinecms/vitrine/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		host string
		dev  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the CMS API server",
		Long:  "Start the HTTP server that exposes the public content API and the admin API for every configured region.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(host, port, dev)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP listen port")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "HTTP listen host")
	cmd.Flags().BoolVar(&dev, "dev", false, "Enable development mode (verbose logging, no TLS enforcement)")

	viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", cmd.Flags().Lookup("host"))

	return cmd
}

func runServe(host string, port int, dev bool) error {
	logLevel := slog.LevelInfo
	if dev {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	st, err := openStore()
	if err != nil {
		return err
	}
	logger.Info("store initialized", "driver", viper.GetString("store.driver"))

	regions, err := loadRegions()
	if err != nil {
		return err
	}
	codes := make([]string, 0, len(regions.Regions))
	for _, r := range regions.Regions {
		codes = append(codes, r.Code)
	}
	logger.Info("regions configured", "codes", codes, "default", regions.Default)

	secret := viper.GetString("auth.token_secret")
	if secret == "" {
		if !dev {
			return fmt.Errorf("auth.token_secret is required (set VITRINE_AUTH_TOKEN_SECRET or the config file)")
		}
		secret = "vitrine-dev-secret-change-me"
		logger.Warn("using development token secret")
	}
	tokens := auth.NewTokenService(secret, auth.DefaultTokenTTL)

	hasAdmin, err := st.HasAnyAdmin(context.Background())
	if err != nil {
		logger.Warn("failed to check for admin", "error", err)
	}
	if !hasAdmin {
		logger.Warn("no admin account found - run: vitrine admin create")
	}

	srvCfg := server.DefaultConfig()
	srvCfg.Host = host
	srvCfg.Port = port
	srvCfg.EnforceTLS = !dev && viper.GetBool("server.enforce_tls")
	if origins := viper.GetStringSlice("server.cors_origins"); len(origins) > 0 {
		srvCfg.CORSOrigins = origins
	}
	if timeout := viper.GetDuration("server.shutdown_timeout"); timeout > 0 {
		srvCfg.ShutdownTimeout = timeout
	}

	srv := server.New(srvCfg, st, tokens, regions, logger)

	fmt.Printf("→ Vitrine CMS\n")
	fmt.Printf("→ Listening on http://%s:%d\n", host, port)
	for _, r := range regions.Regions {
		fmt.Printf("→ Region %s:  http://%s:%d%s\n", r.Code, host, port, r.PathPrefix)
	}
	fmt.Printf("→ Health:     http://%s:%d/healthz\n", host, port)
	fmt.Println()

	start := time.Now()
	err = srv.ListenAndServe()
	logger.Info("server exited", "uptime", time.Since(start).Round(time.Second))
	return err
}
