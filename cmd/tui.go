package cmd

import (
	"fmt"
	"time"

	"github.com/coder-muller/calculadora-bacen/internal/config"
	"github.com/coder-muller/calculadora-bacen/internal/tui"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive calculator",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	e, err := loadEnv(true)
	if err != nil {
		return err
	}
	defer e.close()

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	if err := tui.Run(e.svc, tui.Options{
		Config:     e.cfg,
		NeedSetup:  !config.Exists(),
		SaveConfig: config.Save,
		Logger:     e.logger,
		Now:        time.Now,
	}); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
