package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/notepad/internal/server"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the notes dashboard and editor over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if servePort != "" {
			cfg.Port = servePort
		}

		ns, closeNotes, err := openNotes()
		if err != nil {
			return err
		}
		defer closeNotes()

		srv := server.New(ns, logger,
			server.WithTrustProxy(cfg.TrustProxy),
			server.WithOriginPatterns(cfg.AllowedOrigins),
		)

		httpServer := &http.Server{
			Addr:        ":" + cfg.Port,
			Handler:     srv.Router(),
			ReadTimeout: 5 * time.Second,
			IdleTimeout: 120 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go srv.RateLimiter().Run(ctx, 5*time.Minute)

		errCh := make(chan error, 1)
		go func() {
			logger.Info("notepad running", "addr", "http://localhost:"+cfg.Port, "mode", cfg.Mode, "db", cfg.DBPath)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		srv.Hub().CloseAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to listen on (overrides config)")
}
