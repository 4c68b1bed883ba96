package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shelfserve/shelfserve"
	"github.com/shelfserve/shelfserve/config"
	shelfhttp "github.com/shelfserve/shelfserve/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the shelfserve HTTP server over the configured content root.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("address", "0.0.0.0", "bind address")
	serveCmd.Flags().Int("port", 1131, "HTTP server port")
	serveCmd.Flags().String("root-dir", ".", "contents root directory")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	configFiles, _ := cmd.Flags().GetStringSlice("config")

	cfg, err := config.Load(configFiles, cmd.Flags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	setupLogging(cfg.Log.Level, os.Getenv("SHELFSERVE_ENV"))

	root, err := os.OpenRoot(cfg.RootDir)
	if err != nil {
		return fmt.Errorf("open content root: %w", err)
	}
	defer func() { _ = root.Close() }()

	service, err := shelfserve.NewService(root, cfg.Cache.TOCSize, cfg.Cache.ContentSize)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	var verifier shelfhttp.CredentialVerifier
	if cfg.Auth.Enabled() {
		verifier = shelfserve.NewAuthenticator(cfg.Auth.Username, cfg.Auth.PasswordHash)
		slog.Info("basic authentication enabled", "user", cfg.Auth.Username)
	}

	handlerConfig := shelfhttp.HandlerConfig{
		Verifier: verifier,
		CORS:     cfg.CORS,
	}
	handler := shelfhttp.NewHandler(&handlerConfig, service, root)

	addr := net.JoinHostPort(cfg.Server.Address, strconv.Itoa(cfg.Server.Port))
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
	}()

	slog.Info("starting server", "addr", addr, "root", cfg.RootDir, "tls", cfg.TLS.Enabled())

	if cfg.TLS.Enabled() {
		err = server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
	} else {
		err = server.ListenAndServe()
	}
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
