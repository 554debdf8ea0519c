package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/geocraft/sldcat/pkg/log"
)

const (
	cmdName = "sldcat"
	cmdDesc = `Rule-based style evaluator and TUI for SLD stylesheets.`

	cmdExamples = `  # Browse the default stylesheet:
  sldcat

  # Browse a stylesheet, reloading when it changes:
  sldcat ./styles/demographic_number.sld --watch

  # Classify values:
  sldcat eval ./styles/demographic_number.yaml 300000 10000 60000

  # Check a stylesheet for authoring defects:
  sldcat lint ./styles/demographic_number.sld

  # Print a legend:
  sldcat legend ./styles/demographic_number.yaml

  # Convert SLD XML to the YAML kind:
  sldcat convert ./styles/demographic_number.sld --to yaml`
)

type RootArgs struct {
	LogLevel  string
	LogFormat string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))

	var err error

	err = cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()
	browseArgs := NewBrowseArgs(args)

	browseCmd := NewBrowseCmd(browseArgs)
	cmd := &cobra.Command{
		Use:               cmdName + " [path]",
		Short:             cmdDesc,
		Example:           cmdExamples,
		PersistentPreRunE: setupLogging(args),
		Args:              browseCmd.Args,
		RunE:              browseCmd.RunE,
	}

	args.AddFlags(cmd)
	browseArgs.AddFlags(cmd)

	cmd.AddCommand(
		browseCmd,
		NewEvalCmd(args),
		NewLintCmd(args),
		NewLegendCmd(args),
		NewConvertCmd(args),
	)

	return cmd
}

func setupLogging(rc *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logHandler, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), rc.LogLevel, rc.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(logHandler))

		return nil
	}
}
