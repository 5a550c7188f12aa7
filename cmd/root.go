package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	flagDataDir   string
	flagQuiet     bool
	flagMargin    string
	flagLogLevel  string
	flagNoPersist bool
)

var rootCmd = &cobra.Command{
	Use:   "calcbacen",
	Short: "Calculadora de taxa contratual x BACEN",
	Long: "Compare a contractual interest rate against the Banco Central (SGS)\n" +
		"reference rate and tell whether it exceeds the allowed margin.",
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Directory for the preference database (default: XDG data dir)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVarP(&flagMargin, "margin", "m", "", "Use this margin (%) for this run without saving it")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flagNoPersist, "no-persist", false, "Keep the margin preference in memory only")
}
