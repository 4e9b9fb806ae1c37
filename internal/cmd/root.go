package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "survbayes",
	Short: "Bayesian Weibull survival analysis for right-censored data",
	Long: `survbayes fits a Bayesian Weibull proportional-hazards model to
right-censored time-to-event data and reports posterior survival curves,
hazard ratios and credible intervals.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.HiddenDefaultCmd = false
}
