package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/experiment"
)

// RunCommand trains Q-learning agents on the configured track for
// every test of a bench configuration
func RunCommand() *cobra.Command {
	var (
		benchFile string
		dir       string
		quiet     bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Train agents for every test of a bench",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}

			c, err := loadEnv()
			if err != nil {
				return err
			}

			bench := experiment.DefaultBench()
			if benchFile != "" {
				if bench, err = experiment.LoadBench(benchFile); err != nil {
					return err
				}
			}
			if dir != "" {
				bench.Dir = dir
			}

			var progress io.Writer = os.Stderr
			if quiet {
				progress = nil
			}

			b, err := experiment.NewBench(bench, c, logger, progress)
			if err != nil {
				return err
			}

			logger.Info("running bench", "tests", len(bench.Tests),
				"trials", bench.Trials, "timesteps", bench.Timesteps,
				"dir", bench.Dir)
			results, err := b.Run(cmd.Context(), seed)
			if err != nil {
				return err
			}

			for _, r := range results {
				returns := r.MeanReturns()
				if len(returns) == 0 {
					logger.Warn("no episode finished in every trial",
						"test", r.Name)
					continue
				}
				logger.Info("test finished", "test", r.Name,
					"episodes", len(returns),
					"final mean return", returns[len(returns)-1])
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&benchFile, "bench", "b", "",
		"Bench configuration file (YAML); the learning rate sweep is used "+
			"if empty")
	cmd.Flags().StringVarP(&dir, "dir", "d", "",
		"Override the bench's output directory")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false,
		"Do not draw a progress bar")
	return cmd
}
