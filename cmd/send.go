/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/longkey1/chatbox/internal/chatbox/config"
	"github.com/longkey1/chatbox/internal/chatbox/coordinator"
	"github.com/spf13/cobra"
)

var (
	errNothingToSend = errors.New("message is empty")
	errSendFailed    = errors.New(coordinator.ErrorText)
)

var transcript bool

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send [message]",
	Short: "Send one message and print the reply",
	Long: `Send one message to the answering endpoint and print the reply.

If no message is provided as an argument, it reads from stdin.
The command exits with a non-zero status when the request fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		var message string
		if len(args) > 0 {
			message = strings.Join(args, " ")
		} else {
			input, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading from stdin: %w", err)
			}
			message = strings.TrimRight(string(input), "\n")
		}

		coord := newCoordinator(cfg)
		defer coord.Close()

		return runSend(cmd.Context(), coord, message, cmd.OutOrStdout())
	},
}

// runSend runs one coordinator cycle for message and writes the reply to w.
func runSend(ctx context.Context, coord *coordinator.Coordinator, message string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	coord.SetInput(message)
	if !coord.Send(ctx) {
		return errNothingToSend
	}

	if transcript {
		for _, msg := range coord.Conversation().Render() {
			fmt.Fprintf(w, "%s: %s\n", msg.Sender, msg.Text)
		}
	} else if last, ok := coord.Conversation().Last(); ok {
		fmt.Fprintln(w, last.Text)
	}

	if coord.LastError() != "" {
		return errSendFailed
	}
	return nil
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().BoolVarP(&transcript, "transcript", "t", false, "Print the whole conversation instead of the reply only")
}

