package commands

import (
	"github.com/spf13/cobra"
	"github.com/tse-jeff/OpenAI-Gym-Car-Race/experiment"
)

// ConfigCommand prints the environment configuration, or the default
// bench configuration, as YAML
func ConfigCommand() *cobra.Command {
	var bench bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the environment configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if bench {
				return experiment.DefaultBench().WriteYAML(cmd.OutOrStdout())
			}

			c, err := loadEnv()
			if err != nil {
				return err
			}
			return c.WriteYAML(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&bench, "bench", false,
		"Print the default bench configuration instead")
	return cmd
}
