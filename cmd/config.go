package cmd

import (
	"fmt"
	"strings"

	"github.com/longkey1/chatbox/internal/chatbox/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const configFields = "configfile, endpoint_url, request_timeout, markdown, log_file"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config [field]",
	Short: "Display current configuration",
	Long: `Display the current configuration values.
This command shows all configuration values loaded from the config file and environment variables.

If a field name is specified, only that field's value is displayed.
Available fields: ` + configFields + `

Examples:
  chatbox config                  # Show all configuration
  chatbox config endpoint_url     # Show only the endpoint URL
  chatbox config request_timeout  # Show only the request timeout`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(args) > 0 {
			value, err := configField(cfg, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, value)
			return nil
		}

		fmt.Fprintf(out, "ConfigFile: %s\n", viper.ConfigFileUsed())
		fmt.Fprintf(out, "EndpointURL: %s\n", cfg.EndpointURL)
		fmt.Fprintf(out, "RequestTimeout: %s\n", cfg.RequestTimeout)
		fmt.Fprintf(out, "Markdown: %v\n", cfg.Markdown)
		fmt.Fprintf(out, "LogFile: %s\n", cfg.LogFile)
		return nil
	},
}

func configField(cfg *config.Config, name string) (string, error) {
	switch strings.ToLower(name) {
	case "configfile":
		return viper.ConfigFileUsed(), nil
	case "endpoint_url", "endpointurl":
		return cfg.EndpointURL, nil
	case "request_timeout", "requesttimeout":
		return cfg.RequestTimeout, nil
	case "markdown":
		return fmt.Sprint(cfg.Markdown), nil
	case "log_file", "logfile":
		return cfg.LogFile, nil
	}
	return "", fmt.Errorf("unknown field: %s (available fields: %s)", name, configFields)
}

func init() {
	rootCmd.AddCommand(configCmd)
}
