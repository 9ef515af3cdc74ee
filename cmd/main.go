package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glefebvre/cinescout/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "cinescout",
	Short: "Cinescout aggregates and ranks movie search results",
	Long: `Cinescout searches an OMDb-style movie catalog with genre and
regional fan-out strategies, enriches the results with full records,
and serves ranked top lists through a session-based HTTP API.`,
	Run: func(cmd *cobra.Command, args []string) {
		runServe()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of Cinescout",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Cinescout v0.1.0")
	},
}

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./config.yaml)")
	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}

func initConfig() {
	// Skip config loading for version command
	if len(os.Args) > 1 && os.Args[1] == "version" {
		return
	}

	if err := config.LoadFile(configFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
