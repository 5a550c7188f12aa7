package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/coder-muller/calculadora-bacen/internal/cli"
	"github.com/coder-muller/calculadora-bacen/internal/config"
	"github.com/coder-muller/calculadora-bacen/internal/rate"
	"github.com/coder-muller/calculadora-bacen/internal/tui/theme"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	reader := bufio.NewReader(os.Stdin)

	e, err := loadEnv(false)
	if err != nil {
		return err
	}
	defer e.close()
	cfg := e.cfg
	ctx := context.Background()

	fmt.Println()
	fmt.Println("  Welcome to calcbacen!")
	fmt.Println()

	// 1. Margin
	current := e.svc.Margin(ctx)
	fmt.Println("  1. Margem permitida (%)")
	fmt.Println("     How far the charged rate may exceed the BACEN rate.")
	fmt.Printf("     Current: %s  (Enter keeps it)\n", cli.FormatMargin(current))
	for {
		fmt.Print("     > ")
		line, _ := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		m, err := rate.ParsePercent(line)
		if err != nil {
			fmt.Printf("     Invalid margin %q, try again.\n", line)
			continue
		}
		if err := e.svc.SaveMargin(ctx, m); err != nil {
			return fmt.Errorf("saving margin: %w", err)
		}
		break
	}
	fmt.Println()

	// 2. Theme
	fmt.Println("  2. Color theme")
	for i, t := range theme.All {
		suffix := ""
		if t.Name == cfg.Appearance.Theme {
			suffix = " [current]"
		}
		fmt.Printf("     (%d) %s%s\n", i+1, t.Name, suffix)
	}
	fmt.Print("     > ")
	choice, _ := reader.ReadString('\n')
	var idx int
	if _, err := fmt.Sscanf(strings.TrimSpace(choice), "%d", &idx); err == nil && idx >= 1 && idx <= len(theme.All) {
		cfg.Appearance.Theme = theme.All[idx-1].Name
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Margin: %s\n", cli.FormatMargin(e.svc.Margin(ctx)))
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `calcbacen setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}
