// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the search-refiner CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/search-refiner/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd runs one refinement session.
var rootCmd = &cobra.Command{
	Use:   "search-refiner [flags] [--] <keyword>... <precision> <clientID>",
	Short: "Interactively refine a web search until enough results are relevant",
	Long: `search-refiner searches the web for the given keywords, shows each result
of the first page and asks whether it is relevant. When fewer results than the
target precision are relevant, the query is refined and searched again.

Precision is written 0.D and means at least D relevant results out of 10.
The client ID is the search provider application ID. Pass "-" to read it
from the search-appid file in the secrets directory (default .secrets/).

Before each search the parameters are shown, and after each page a feedback
summary compares the precision reached with the one desired (--quiet hides
both).

Keywords that start with "-" or that name a subcommand such as "version"
must follow "--", which ends flag parsing.

Exit status is 0 when the target was met, 2 when the search was exhausted,
and 1 on any other failure.`,
	Example: `  search-refiner golang generics 0.3 MY-APP-ID
  search-refiner --strategy prompt rust async 0.5 MY-APP-ID
  search-refiner --record session.yaml golang 0.3 -
  search-refiner --replay session.yaml --json go 0.2 offline
  search-refiner -- -fx version 0.2 MY-APP-ID`,
	Args:          validateArgs,
	RunE:          runRefine,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./search-refiner.yaml or ~/.config/search-refiner/search-refiner.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug output to stderr")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("search-refiner")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "search-refiner"))
		}
	}

	bindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		logger.Log.WithField("file", viper.ConfigFileUsed()).Debug("using config file")
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "reading config %s: %v\n", cfgFile, err)
	}
}

// exitError carries a process exit status for a run whose report has
// already been written.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func main() {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
