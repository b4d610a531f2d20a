/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/longkey1/chatbox/internal/chatbox/config"
	"github.com/longkey1/chatbox/internal/logx"
	"github.com/longkey1/chatbox/internal/tui"
	"github.com/spf13/cobra"
)

var noMarkdown bool

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive chat UI",
	Long: `Start an interactive chat in the terminal.

Type a message and press Enter (or ctrl+s) to send it to the answering
endpoint. The input stays editable while a reply is pending but a second
message cannot be sent until the first one is answered.
Press esc or ctrl+c to quit.

Logs are written to log_file when it is configured, and discarded otherwise.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		closeLog, err := setupTUILogging(cfg.LogFile)
		if err != nil {
			return err
		}
		defer closeLog()

		coord := newCoordinator(cfg)
		defer coord.Close()

		markdown := cfg.Markdown && !noMarkdown
		p := tea.NewProgram(tui.New(coord, tui.WithMarkdown(markdown)), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running chat UI: %w", err)
		}
		return nil
	},
}

// setupTUILogging keeps log output off the terminal while the UI owns it.
func setupTUILogging(path string) (func(), error) {
	if path == "" {
		logx.Discard()
		return func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	logx.Init(logx.Config{Debug: verbose, Pretty: false, Output: f})
	return func() { f.Close() }, nil
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().BoolVar(&noMarkdown, "no-markdown", false, "Show bot replies as plain text")
}
