package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/coder-muller/calculadora-bacen/internal/calculator"
	"github.com/coder-muller/calculadora-bacen/internal/catalog"
	"github.com/coder-muller/calculadora-bacen/internal/cli"
	"github.com/coder-muller/calculadora-bacen/internal/config"
	"github.com/coder-muller/calculadora-bacen/internal/rate"
	"github.com/coder-muller/calculadora-bacen/internal/sgs"

	"github.com/spf13/cobra"
)

var (
	flagFrom        string
	flagTo          string
	flagMonth       string
	flagDescription string
)

var seriesCmd = &cobra.Command{
	Use:   "series <code> <charged>",
	Short: "Compare a charged rate against a BACEN series observation",
	Long: "Look up the single observation of an SGS series in a period and compare\n" +
		"the charged rate against it. The period defaults to today.",
	Example: "  calcbacen series 25471 8,00 --month 03/2024\n" +
		"  calcbacen series 25471 8,00 --from 01/03/2024 --to 31/03/2024",
	Args: cobra.ExactArgs(2),
	RunE: runSeries,
}

var seriesSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the series catalog by code or description",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSeriesSearch,
}

var seriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every series in the catalog",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runSeriesSearch(nil, nil)
	},
}

func init() {
	seriesCmd.Flags().StringVar(&flagFrom, "from", "", "Start date (dd/mm/yyyy)")
	seriesCmd.Flags().StringVar(&flagTo, "to", "", "End date (dd/mm/yyyy)")
	seriesCmd.Flags().StringVar(&flagMonth, "month", "", "Whole month (mm/yyyy), instead of --from/--to")
	seriesCmd.Flags().StringVar(&flagDescription, "description", "", "Description for a code not in the catalog")
	seriesCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the result as JSON")
	seriesCmd.MarkFlagsMutuallyExclusive("month", "from")
	seriesCmd.MarkFlagsMutuallyExclusive("month", "to")

	seriesCmd.AddCommand(seriesSearchCmd, seriesListCmd)
	rootCmd.AddCommand(seriesCmd)
}

func runSeries(_ *cobra.Command, args []string) error {
	code, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return fmt.Errorf("series code %q: must be a number", args[0])
	}
	charged, err := rate.Parse(args[1])
	if err != nil {
		return fmt.Errorf("charged rate: %w", err)
	}
	from, to, err := periodFromFlags(time.Now())
	if err != nil {
		return err
	}

	e, err := loadEnv(false)
	if err != nil {
		return err
	}
	defer e.close()

	in := calculator.SeriesInput{
		Code:        code,
		Description: flagDescription,
		From:        from,
		To:          to,
		Charged:     charged,
	}
	if !flagQuiet && !flagJSON {
		fmt.Fprintf(os.Stderr, "  Consultando série %d...\n", code)
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.SGSTimeout()+5*time.Second)
	defer cancel()

	out, err := e.svc.Series(ctx, in)
	if err != nil {
		return userError(err)
	}
	return printOutcome("CALCULAR COM A SÉRIE", out)
}

// periodFromFlags resolves --month or --from/--to. Missing dates default
// to today, as the form does.
func periodFromFlags(now time.Time) (time.Time, time.Time, error) {
	if flagMonth != "" {
		p, err := sgs.Month(flagMonth)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--month: %w", err)
		}
		return p.From, p.To, nil
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	from, to := today, today
	if flagFrom != "" {
		t, err := sgs.ParseDate(flagFrom)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--from: %w", err)
		}
		from = t
	}
	if flagTo != "" {
		t, err := sgs.ParseDate(flagTo)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--to: %w", err)
		}
		to = t
	}
	return from, to, nil
}

func runSeriesSearch(_ *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	matches := cat.Search(query)
	if len(matches) == 0 {
		fmt.Printf("\n  No series matching %q.\n\n", query)
		return nil
	}

	rows := make([][]string, len(matches))
	for i, s := range matches {
		rows[i] = []string{strconv.Itoa(s.Code), cli.Truncate(s.Description, 60)}
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SÉRIES SGS  %d", len(matches))))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Código", "Descrição"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}

// loadCatalog reads only what the catalog commands need; no preference
// store or network client.
func loadCatalog() (*catalog.Catalog, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return catalog.Load(cfg.Catalog.File)
}
