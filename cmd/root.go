package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "n8n-timings",
	Short: "n8n looped node execution analyzer",
	Long: `A command line tool for analysing n8n workflow executions.
Fetches an execution with its run data and summarises how often and how long
every node ran, including nodes executed many times inside loops.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default $HOME/.n8n-timings.yaml)")
	rootCmd.PersistentFlags().String("base-url", "", "n8n base URL (overrides N8N_BASE_URL)")
	rootCmd.PersistentFlags().String("api-key", "", "n8n API key (overrides N8N_API_KEY)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "HTTP timeout per request (default 30s)")
	rootCmd.PersistentFlags().Duration("retry-timeout", 0, "Give up retrying after this long (default 1m)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text/json)")
	viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	viper.BindPFlag("api_key", rootCmd.PersistentFlags().Lookup("api-key"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("retry_timeout", rootCmd.PersistentFlags().Lookup("retry-timeout"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	// .env in the working directory is optional
	_ = gotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := homedir.Dir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".n8n-timings")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("N8N")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("timeout", "30s")
	viper.SetDefault("retry_timeout", "1m")
	viper.SetDefault("debug", false)
	viper.SetDefault("log_format", "text")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Warning: failed to read config: %v\n", err)
		}
	}
}

func checkError(err error) {
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
