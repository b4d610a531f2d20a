/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/longkey1/chatbox/internal/answer/prompt"
	"github.com/spf13/cobra"
)

var (
	promptInput string
	promptVars  []string
)

// promptCmd represents the prompt command
var promptCmd = &cobra.Command{
	Use:   "prompt [file]",
	Short: "Show the prompt template used by the answer server",
	Long: `Show the prompt template the answer server sends to its backend.
Without a file the built-in template is shown.

The prompt file should be in TOML format with the following structure:
system = "System prompt with optional {{input}} placeholder"
user = "User prompt with optional {{input}} placeholder"
model = "optional-model-name"  # Optional: overrides ANSWER_MODEL

Use --input to preview the rendered prompt, and --var key:value to fill
extra placeholders.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var file string
		if len(args) > 0 {
			file = args[0]
		}

		tmpl, err := prompt.Load(file)
		if err != nil {
			return fmt.Errorf("loading prompt: %w", err)
		}
		vars, err := prompt.ParseVars(promptVars)
		if err != nil {
			return err
		}
		return printPrompt(cmd.OutOrStdout(), tmpl, promptInput, vars)
	},
}

func printPrompt(w io.Writer, tmpl *prompt.Prompt, input string, vars map[string]string) error {
	system, user := tmpl.System, tmpl.User
	if input != "" {
		var err error
		system, user, err = tmpl.Format(input, vars)
		if err != nil {
			return fmt.Errorf("formatting prompt: %w", err)
		}
	}

	fmt.Fprintf(w, "System: %s\n\nUser: %s\n", system, user)
	if tmpl.Model != nil {
		fmt.Fprintf(w, "\nModel: %s\n", *tmpl.Model)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(promptCmd)

	promptCmd.Flags().StringVarP(&promptInput, "input", "i", "", "Render the template with this input")
	promptCmd.Flags().StringArrayVar(&promptVars, "var", []string{}, "Key-value pairs for the template (format: key:value)")
}
