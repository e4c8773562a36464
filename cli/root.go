// Package cli implements the sepal command line: check, render and eval
// subcommands over the expression language.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/petal-labs/sepal"
)

// NewRootCmd creates the sepal root command with all subcommands attached.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "sepal",
		Short: "Sepal filter expression CLI",
		Long:  "Sepal parses, inspects and evaluates boolean filter expressions against records.",
		// SilenceUsage prevents printing usage on every error
		SilenceUsage: true,
	}

	root.PersistentFlags().Bool("verbose", false, "Enable verbose/debug logging")
	root.PersistentFlags().Bool("quiet", false, "Suppress all output except errors")

	root.Version = version
	root.SetVersionTemplate(fmt.Sprintf("sepal version %s\n", version))

	root.AddCommand(NewCheckCmd())
	root.AddCommand(NewRenderCmd())
	root.AddCommand(NewEvalCmd())

	return root
}

// newLogger builds a slog logger honoring the root --verbose and --quiet
// flags, writing to the command's stderr stream.
func newLogger(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")

	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// addLimitFlags registers the shared parse-limit flags on a subcommand.
func addLimitFlags(cmd *cobra.Command) {
	defaults := sepal.DefaultLimits()
	cmd.Flags().Int("max-conditions", defaults.MaxConditions, "Maximum condition count (0 disables)")
	cmd.Flags().Int("max-depth", defaults.MaxDepth, "Maximum tree depth (0 disables)")
}

func limitsFromFlags(cmd *cobra.Command) sepal.Limits {
	maxConditions, _ := cmd.Flags().GetInt("max-conditions")
	maxDepth, _ := cmd.Flags().GetInt("max-depth")
	return sepal.Limits{MaxConditions: maxConditions, MaxDepth: maxDepth}
}

// pluralize returns the singular or plural form of a word based on count.
func pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	return word + "s"
}
