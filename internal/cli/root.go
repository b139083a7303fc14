package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	verbose  bool
	userFlag string
)

var rootCmd = &cobra.Command{
	Use:   "engram",
	Short: "Durable memory for conversational assistants",
	Long: `engram - structured long-term memory for assistants.

A namespaced key-value store with three memory kinds (semantic facts,
episodic interactions, procedural step sequences) and bounded context
generation for prompt building.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./engram.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "user identifier (overrides config)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(rememberCmd)
	rootCmd.AddCommand(teachCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(recallCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("engram")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("ENGRAM")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
