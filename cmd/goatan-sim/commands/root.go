package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "goatan-sim",
	Short: "Goatan - offline bot-vs-bot game simulator",
	Long: `goatan-sim plays seeded games between bots through the same engine the
Nakama module runs, which makes it useful for checking rules and bot tuning
without a server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}
