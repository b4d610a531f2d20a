/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/longkey1/chatbox/internal/chatbox/config"
	"github.com/longkey1/chatbox/internal/logx"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chatbox",
	Short: "A chat client for a remote answering endpoint",
	Long: `chatbox sends your messages to an answering endpoint and shows the conversation.

Run 'chatbox chat' for the terminal UI, 'chatbox send' for a one-shot message
and 'chatbox serve' to run a local answering endpoint.
You can configure the client using a TOML configuration file.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/chatbox/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	logx.Init(logx.Config{Debug: verbose, Pretty: true})

	// Set environment variable prefix and automatic env
	viper.SetEnvPrefix("CHATBOX")
	viper.AutomaticEnv()

	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	userConfigDir := filepath.Join(home, ".config", "chatbox")

	defaultConfig := config.NewDefaultConfig()
	viper.SetDefault("endpoint_url", defaultConfig.EndpointURL)
	viper.SetDefault("request_timeout", defaultConfig.RequestTimeout)
	viper.SetDefault("markdown", defaultConfig.Markdown)
	viper.SetDefault("log_file", defaultConfig.LogFile)

	// Bind environment variables
	viper.BindEnv("endpoint_url", "CHATBOX_ENDPOINT_URL")
	viper.BindEnv("request_timeout", "CHATBOX_REQUEST_TIMEOUT")
	viper.BindEnv("markdown", "CHATBOX_MARKDOWN")
	viper.BindEnv("log_file", "CHATBOX_LOG_FILE")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			log.Error().Err(err).Str("file", cfgFile).Msg("error reading config file")
		}
	} else {
		// System-wide config first (lower priority)
		for _, path := range []string{"/etc/chatbox", "/usr/local/etc/chatbox"} {
			viper.AddConfigPath(path)
		}
		viper.SetConfigType("toml")
		viper.SetConfigName("config")

		systemConfigLoaded := false
		if err := viper.ReadInConfig(); err == nil {
			systemConfigLoaded = true
			log.Debug().Str("file", viper.ConfigFileUsed()).Msg("loaded system-wide config")
		}

		// User config (higher priority) merged on top
		viper.AddConfigPath(userConfigDir)
		var notFound viper.ConfigFileNotFoundError
		if systemConfigLoaded {
			if err := viper.MergeInConfig(); err != nil {
				if !errors.As(err, &notFound) {
					log.Error().Err(err).Msg("error merging user config file")
				}
			} else {
				log.Debug().Str("file", viper.ConfigFileUsed()).Msg("merged user config")
			}
		} else if err := viper.ReadInConfig(); err != nil {
			if !errors.As(err, &notFound) {
				log.Error().Err(err).Msg("error reading config file")
			}
		}
	}

	log.Debug().
		Str("config_file", viper.ConfigFileUsed()).
		Str("endpoint_url", viper.GetString("endpoint_url")).
		Str("request_timeout", viper.GetString("request_timeout")).
		Bool("markdown", viper.GetBool("markdown")).
		Str("log_file", viper.GetString("log_file")).
		Msg("configuration")
}
