package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "hirectl",
	Short:         "Interview question generation toolkit",
	Long:          "hirectl generates interview questions with the configured LLM provider and issues API tokens.",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if envFile != "" {
			if _, err := os.Stat(envFile); err == nil {
				return godotenv.Load(envFile)
			}
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("env-file", "configs/.env", "Optional dotenv file loaded before reading configuration")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(tokenCmd)
}
