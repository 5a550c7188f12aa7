package cmd

import (
	"context"
	"fmt"

	"github.com/coder-muller/calculadora-bacen/internal/cli"
	"github.com/coder-muller/calculadora-bacen/internal/margin"
	"github.com/coder-muller/calculadora-bacen/internal/prefs"
	"github.com/coder-muller/calculadora-bacen/internal/rate"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var marginCmd = &cobra.Command{
	Use:   "margin",
	Short: "Show the allowed margin",
	Args:  cobra.NoArgs,
	RunE:  runMarginShow,
}

var marginSetCmd = &cobra.Command{
	Use:     "set <percent>",
	Short:   "Save the allowed margin",
	Example: "  calcbacen margin set 30\n  calcbacen margin set 27,5",
	Args:    cobra.ExactArgs(1),
	RunE:    runMarginSet,
}

var marginResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the saved margin and go back to the default",
	Args:  cobra.NoArgs,
	RunE:  runMarginReset,
}

func init() {
	marginCmd.AddCommand(marginSetCmd, marginResetCmd)
	rootCmd.AddCommand(marginCmd)
}

func runMarginShow(_ *cobra.Command, _ []string) error {
	e, err := loadEnv(false)
	if err != nil {
		return err
	}
	defer e.close()

	ctx := context.Background()
	m := e.svc.Margin(ctx)
	fmt.Printf("\n  Margem permitida: %s\n", cli.FormatMargin(m))
	if flagMargin != "" {
		fmt.Println("  (--margin for this run; not saved)")
		fmt.Println()
		return nil
	}

	at, saved, err := prefs.MarginSavedAt(ctx, e.prefs)
	if err != nil {
		e.logger.Warn("margin timestamp unavailable", zap.Error(err))
	}
	switch {
	case saved:
		fmt.Printf("  (salvo em %s)\n", cli.FormatDate(at.Local()))
	case m.Equal(margin.DefaultMargin):
		fmt.Println("  (default)")
	}
	fmt.Println()
	return nil
}

func runMarginSet(_ *cobra.Command, args []string) error {
	m, err := rate.ParsePercent(args[0])
	if err != nil {
		return fmt.Errorf("margin: %w", err)
	}

	e, err := loadEnv(false)
	if err != nil {
		return err
	}
	defer e.close()

	if err := e.svc.SaveMargin(context.Background(), m); err != nil {
		return fmt.Errorf("saving margin: %w", err)
	}
	fmt.Printf("\n  Margem salva: %s\n", cli.FormatMargin(m))
	if flagNoPersist {
		fmt.Println("  (--no-persist: kept in memory for this run only)")
	}
	fmt.Println()
	return nil
}

func runMarginReset(_ *cobra.Command, _ []string) error {
	e, err := loadEnv(false)
	if err != nil {
		return err
	}
	defer e.close()

	if err := e.svc.ResetMargin(context.Background()); err != nil {
		return fmt.Errorf("resetting margin: %w", err)
	}
	fmt.Printf("\n  Margem restaurada: %s\n\n", cli.FormatMargin(margin.DefaultMargin))
	return nil
}
