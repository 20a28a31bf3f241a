package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/environment/carrace"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/environment/carrace/display"
)

// DesignCommand opens the track designer and writes the configuration
// with the designed layout as YAML
func DesignCommand() *cobra.Command {
	var (
		out   string
		scale float64
		edit  bool
	)

	cmd := &cobra.Command{
		Use:   "design",
		Short: "Carve a track with the mouse and save it as a configuration",
		Long: "Opens a window showing the track. Hold the left mouse " +
			"button to carve tiles and press escape to save.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}

			c, err := loadEnv()
			if err != nil {
				return err
			}
			if !edit {
				c.Layout = nil
			}

			designer := &display.Designer{
				Title:  "carrace: design",
				Scale:  scale,
				Logger: logger,
			}
			env, _, err := c.Create(cmd.Context(), designer, seed,
				carrace.WithLogger(logger))
			if err != nil {
				return err
			}

			grid := env.Track().Grid()
			var start []carrace.Index
			if tile, ok := grid.TileAt(env.Car().Center()); ok {
				start = append(start, tile)
			}
			c.Layout = carrace.FormatLayout(grid, start...)

			w := cmd.OutOrStdout()
			if out != "" {
				file, err := os.Create(out)
				if err != nil {
					return err
				}
				defer file.Close()
				w = file
			}

			if err := c.WriteYAML(w); err != nil {
				return err
			}
			logger.Info("track designed", "tiles", grid.Tiles(), "file", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "",
		"Write the configuration to this file instead of stdout")
	cmd.Flags().Float64Var(&scale, "scale", 1, "Pixels per track unit")
	cmd.Flags().BoolVar(&edit, "edit", false,
		"Start from the configured layout instead of a solid block")
	return cmd
}
