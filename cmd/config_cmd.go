// Package cmd implements the calcbacen CLI commands.
package cmd

import (
	"context"
	"fmt"

	"github.com/coder-muller/calculadora-bacen/internal/cli"
	"github.com/coder-muller/calculadora-bacen/internal/config"
	"github.com/coder-muller/calculadora-bacen/internal/sgs"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	e, err := loadEnv(false)
	if err != nil {
		return err
	}
	defer e.close()
	cfg := e.cfg

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Data directory: %s\n", cfg.DataDir())
	fmt.Printf("    Preferences:    %s\n", cfg.PrefsPath())
	fmt.Println()

	fmt.Println("  [SGS]")
	baseURL := cfg.SGS.BaseURL
	if baseURL == "" {
		baseURL = sgs.DefaultBaseURL + " (default)"
	}
	fmt.Printf("    Base URL: %s\n", baseURL)
	fmt.Printf("    Timeout:  %s\n", cfg.SGSTimeout())
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Logging]")
	fmt.Printf("    Level:  %s\n", cfg.Logging.Level)
	fmt.Printf("    Format: %s\n", cfg.Logging.Format)
	if cfg.Logging.OutputFile != "" {
		fmt.Printf("    File:   %s\n", cfg.Logging.OutputFile)
	}
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address: %s\n", cfg.Server.Addr)
	fmt.Println()

	fmt.Println("  [Catalog]")
	if cfg.Catalog.File != "" {
		fmt.Printf("    File:   %s\n", cfg.Catalog.File)
	} else {
		fmt.Println("    File:   built-in")
	}
	fmt.Printf("    Series: %d\n", e.svc.Catalog().Len())
	fmt.Println()

	fmt.Println("  [Margin]")
	fmt.Printf("    Allowed: %s\n", cli.FormatMargin(e.svc.Margin(context.Background())))
	fmt.Println()

	fmt.Println("  Run `calcbacen setup` to reconfigure.")
	return nil
}
