package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petal-labs/sepal"
)

// NewRenderCmd creates the "render" subcommand.
func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <expression>",
		Short: "Render a parsed expression as canonical text or an indented tree",
		Args:  cobra.ExactArgs(1),
		RunE:  runRender,
	}

	cmd.Flags().Bool("tree", false, "Print one indented line per node instead of canonical text")
	addLimitFlags(cmd)

	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	root, err := sepal.ParseWithLimits(args[0], limitsFromFlags(cmd))
	if err != nil {
		return exitError(exitParse, "parsing expression: %v", err)
	}

	tree, _ := cmd.Flags().GetBool("tree")
	if tree {
		for _, line := range root.PrettyLines() {
			fmt.Fprintln(out, line)
		}
		return nil
	}

	fmt.Fprintln(out, root.String())
	return nil
}
