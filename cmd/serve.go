package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/theirongolddev/cxdash/internal/config"
	"github.com/theirongolddev/cxdash/internal/httpapi"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var (
	flagServeAddr         string
	flagServeEventsBuffer int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard data as a JSON HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "Listen address (default from config, 127.0.0.1:8787)")
	serveCmd.Flags().IntVar(&flagServeEventsBuffer, "events-buffer", 0, "Import events kept for /v1/events (default from config, 200)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if flagQuiet {
		level = slog.LevelWarn
	}
	if flagVerbose {
		level = slog.LevelDebug
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	st, err := loadStore(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	addr := cfg.Server.Addr
	if flagServeAddr != "" {
		addr = flagServeAddr
	}
	buffer := cfg.Server.EventsBuffer
	if flagServeEventsBuffer > 0 {
		buffer = flagServeEventsBuffer
	}

	srv := httpapi.New(httpapi.Options{
		Store:        st,
		Remote:       newRemote(cfg),
		Logger:       log,
		Addr:         addr,
		PageSize:     cfg.General.PageSize,
		EventsBuffer: buffer,
		Forward:      cfg.Remote.ForwardImports,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
