// Package commands implements the CLI commands for cubuild.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/cubuild/internal/app"
	"go.trai.ch/cubuild/internal/build"
)

// CLI represents the command line interface for cubuild.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, opts app.RunOptions) error
	Plan(ctx context.Context, opts app.RunOptions, w io.Writer) error
	Watch(ctx context.Context, opts app.RunOptions) error
	Clean(ctx context.Context, opts app.RunOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "cubuild",
		Short:         "Build CUDA extension modules with nvcc as compiler and linker",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Config file, or directory to search upwards for cubuild.yaml")
	flags.StringP("mode", "m", "", "Build mode declared in the config file")
	flags.StringArray("env-file", nil, "Dotenv file to read variables from (repeatable)")
	flags.StringP("output", "o", "auto", "Progress output: auto, tui, or linear")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newPlanCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// runOptions reads the persistent flags shared by every command.
func runOptions(cmd *cobra.Command, targets []string) app.RunOptions {
	configPath, _ := cmd.Flags().GetString("config")
	mode, _ := cmd.Flags().GetString("mode")
	envFiles, _ := cmd.Flags().GetStringArray("env-file")
	output, _ := cmd.Flags().GetString("output")

	return app.RunOptions{
		ConfigPath: configPath,
		Mode:       mode,
		EnvFiles:   envFiles,
		Targets:    targets,
		Output:     output,
	}
}
