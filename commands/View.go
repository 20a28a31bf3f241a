package commands

import (
	"github.com/spf13/cobra"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/agent"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/agent/linear/qlearning"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/agent/random"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/agent/schedule"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/environment/carrace"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/environment/carrace/display"
)

// ViewCommand shows a trained agent, or a random one, driving the
// configured track
func ViewCommand() *cobra.Command {
	var (
		weights string
		scale   float64
		tps     int
	)

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Watch an agent drive the configured track",
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

			env, _, err := c.Create(cmd.Context(), nil, seed,
				carrace.WithLogger(logger))
			if err != nil {
				return err
			}

			var policy agent.Policy
			if weights == "" {
				if policy, err = random.New(env, seed); err != nil {
					return err
				}
			} else {
				q, err := qlearning.New(env, qlearning.Config{
					LearningRate: schedule.Constant(0),
				}, seed)
				if err != nil {
					return err
				}
				if err := q.Load(weights); err != nil {
					return err
				}
				q.Eval()
				policy = q
			}

			viewer := &display.Viewer{
				Env:    env,
				Policy: policy,
				Title:  "carrace",
				Scale:  scale,
				TPS:    tps,
				Logger: logger,
			}
			return viewer.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&weights, "weights", "w", "",
		"Weights saved by a bench run; a random agent drives if empty")
	cmd.Flags().Float64Var(&scale, "scale", 1, "Pixels per track unit")
	cmd.Flags().IntVar(&tps, "tps", 30, "Environment steps per second")
	return cmd
}
