package commands

import "github.com/spf13/cobra"

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [targets...]",
		Short: "Compile and link extension targets",
		Long:  "Compile and link the named extension targets, or every target when none is named.",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := runOptions(cmd, args)
			opts.Jobs, _ = cmd.Flags().GetInt("jobs")
			opts.Force, _ = cmd.Flags().GetBool("force")
			return c.app.Build(cmd.Context(), opts)
		},
	}
	cmd.Flags().IntP("jobs", "j", 0, "Maximum number of concurrent steps (default: number of CPUs)")
	cmd.Flags().BoolP("force", "f", false, "Rebuild every step even when its output is up to date")
	return cmd
}

func (c *CLI) newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan [targets...]",
		Short: "Print the commands a build would run",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Plan(cmd.Context(), runOptions(cmd, args), cmd.OutOrStdout())
		},
	}
}

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [targets...]",
		Short: "Build, then rebuild targets whenever their sources change",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := runOptions(cmd, args)
			opts.Jobs, _ = cmd.Flags().GetInt("jobs")
			return c.app.Watch(cmd.Context(), opts)
		},
	}
	cmd.Flags().IntP("jobs", "j", 0, "Maximum number of concurrent steps (default: number of CPUs)")
	return cmd
}
