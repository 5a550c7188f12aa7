package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/coder-muller/calculadora-bacen/internal/server"

	"github.com/spf13/cobra"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calculator as a local web page and JSON API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default from config, 127.0.0.1:8087)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	e, err := loadEnv(false)
	if err != nil {
		return err
	}
	defer e.close()

	addr := e.cfg.Server.Addr
	if flagAddr != "" {
		addr = flagAddr
	}

	srv, err := server.New(e.svc, server.Config{
		Addr:          addr,
		Logger:        e.logger,
		LookupTimeout: e.cfg.SGSTimeout(),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Serving on http://%s  (Ctrl+C to stop)\n", srv.Addr())
	}
	return srv.Run(ctx)
}
