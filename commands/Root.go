// Package commands implements the carrace command line
package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/environment/envconfig"
)

var (
	configFile string
	logLevel   string
	seed       uint64
)

// Root returns the root command with every subcommand added
func Root() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "carrace",
		Short:         "Design tracks and train agents to drive around them",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCommand.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"Environment configuration file (YAML); defaults are used if empty")
	rootCommand.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log level: debug, info, warn or error")
	rootCommand.PersistentFlags().Uint64Var(&seed, "seed", 1,
		"Seed for starting states and agents")

	// adding the subcommands here
	rootCommand.AddCommand(DesignCommand())
	rootCommand.AddCommand(RunCommand())
	rootCommand.AddCommand(RenderCommand())
	rootCommand.AddCommand(ConfigCommand())
	rootCommand.AddCommand(ViewCommand())
	return rootCommand
}

// newLogger returns a stderr logger at the level given by --log-level
func newLogger() (*log.Logger, error) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "carrace",
		ReportTimestamp: true,
	})
	logger.SetLevel(level)
	return logger, nil
}

// loadEnv returns the configuration named by --config, or the default
// configuration
func loadEnv() (envconfig.Config, error) {
	if configFile == "" {
		return envconfig.Default(), nil
	}
	return envconfig.Load(configFile)
}
