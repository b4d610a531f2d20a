/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/longkey1/chatbox/internal/answer"
	"github.com/spf13/cobra"
)

// modelsCmd represents the models command
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models available to the answer server",
	Long: `List the chat models the configured OpenAI API key can use.
Fetches the model list directly from the API using the ANSWER_* settings
(see 'chatbox serve --help').

Example:
  chatbox models
  chatbox models --env .env`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := answer.LoadConfig(envFile)
		if err != nil {
			return fmt.Errorf("loading server config: %w", err)
		}
		if cfg.Backend != answer.BackendOpenAI {
			return fmt.Errorf("backend %s has no model list", cfg.Backend)
		}

		ids, err := answer.NewOpenAIBackend(cfg).ListModels(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing models: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Available models (%d found):\n\n", len(ids))
		for _, id := range ids {
			marker := " "
			if id == cfg.Model {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %s\n", marker, id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)

	modelsCmd.Flags().StringVar(&envFile, "env", "", "Load ANSWER_* variables from this .env file")
}
