package commands

import (
	"github.com/spf13/cobra"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/environment/carrace"
)

// RenderCommand draws the configured track and car at its starting
// pose to a PNG file
func RenderCommand() *cobra.Command {
	var (
		out   string
		scale float64
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the configured track to a PNG file",
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

			if err := carrace.SavePNG(env.Track(), out, scale); err != nil {
				return err
			}
			logger.Info("track rendered", "file", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "track.png", "Output PNG file")
	cmd.Flags().Float64Var(&scale, "scale", 1, "Pixels per track unit")
	return cmd
}
