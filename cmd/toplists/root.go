package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
	cfgFile string
)

// rootCmd serves the addon when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "toplists",
	Short: "Stremio catalog addon for top lists",
	Long: `Toplists serves two catalogs to Stremio: the IMDb Top 250 films loaded
from a local CSV file, and the current Netflix NL top 10 series scraped live.`,
	Version: version,
	RunE:    runServe,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or $HOME/.toplists.yaml)")
	flags.String("csv", "", "path to the top 250 CSV file")
	flags.String("host", "", "address to listen on")
	flags.Int("port", 0, "port to listen on")
	flags.String("log-level", "", "log level (trace, debug, info, warn, error)")

	viper.BindPFlag("csv_path", flags.Lookup("csv"))
	viper.BindPFlag("host", flags.Lookup("host"))
	viper.BindPFlag("port", flags.Lookup("port"))
	viper.BindPFlag("log_level", flags.Lookup("log-level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("TOPLISTS")
	viper.AutomaticEnv()
	// Hosting platforms hand out the listen port as plain PORT.
	viper.BindEnv("port", "TOPLISTS_PORT", "PORT")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
