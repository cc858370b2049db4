package commands

import (
	"github.com/spf13/cobra"

	"github.com/yhseo-kgs/chatbot-proxy/cmd/portal-cli/ui"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "portal",
	Short: "KGS safety portal client - QnA chatbot and vessel lookup",
	Long: `portal talks to the same knowledge base as the portal API.
It answers gas-safety questions from the local QnA dataset, falls back to
CLOVA Studio for questions the dataset does not cover, and looks up
pressure vessels by their QR code.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ui.InitUI(noColor, verbose)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
