package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/coder-muller/calculadora-bacen/internal/calculator"
	"github.com/coder-muller/calculadora-bacen/internal/cli"
	"github.com/coder-muller/calculadora-bacen/internal/rate"

	"github.com/spf13/cobra"
)

var flagJSON bool

var checkCmd = &cobra.Command{
	Use:   "check <base> <charged>",
	Short: "Compare a charged rate against a base rate you already know",
	Long: "Compare a charged rate against a base rate.\n\n" +
		"Rates accept \"5,47\", \"5.47\" or keypad digits (\"547\" is 5,47%).",
	Example: "  calcbacen check 5,47 8,00\n  calcbacen check 547 800 --margin 50",
	Args:    cobra.ExactArgs(2),
	RunE:    runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the result as JSON")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, args []string) error {
	base, err := rate.Parse(args[0])
	if err != nil {
		return fmt.Errorf("base rate: %w", err)
	}
	charged, err := rate.Parse(args[1])
	if err != nil {
		return fmt.Errorf("charged rate: %w", err)
	}

	e, err := loadEnv(false)
	if err != nil {
		return err
	}
	defer e.close()

	out, err := e.svc.Direct(context.Background(), calculator.DirectInput{Base: base, Charged: charged})
	if err != nil {
		return userError(err)
	}
	return printOutcome("CALCULAR COM A TAXA", out)
}

// printOutcome writes the result card, or JSON with --json.
func printOutcome(title string, out calculator.Outcome) error {
	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()
	fmt.Print(cli.RenderOutcome(out))
	fmt.Println()
	return nil
}

// userError turns a submission error into the message the user sees.
func userError(err error) error {
	if !flagJSON {
		fmt.Fprint(os.Stderr, "\n"+cli.RenderNotice(calculator.Notice(err)))
	}
	return err
}
