// Package cmd is for command line interactions with the betseq application
package cmd

import (
	"log"

	"github.com/maraf10/BET-seq/config"
	"github.com/maraf10/BET-seq/internal/betseq"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose  bool
	settings string
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use: "betseq",
	Short: `Analyze simulated BET-seq binding and sequencing tables.
Derive free-energy differences, fit per-condition regressions, render charts`,
	Version: "0.1.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if settings != "" {
			viper.SetConfigFile(settings)
			if err := viper.ReadInConfig(); err != nil {
				log.Fatalf("failed to read settings file: %v", err)
			}
		}

		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err := zc.Build()
		if err != nil {
			log.Fatalf("failed to build logger: %v", err)
		}
		betseq.SetLogger(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug detail to stderr")
	RootCmd.PersistentFlags().StringVarP(&settings, "settings", "s", "", "path to a YAML settings file")

	config.SetDefaults()
}
