package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petal-labs/sepal"
)

// NewCheckCmd creates the "check" subcommand.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <expression>...",
		Short: "Check expressions for syntax and limit violations without evaluating",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCheck,
	}

	cmd.Flags().String("format", "text", "Output format: text | json")
	addLimitFlags(cmd)

	return cmd
}

type checkResult struct {
	Expression string `json:"expression"`
	Valid      bool   `json:"valid"`
	Error      string `json:"error,omitempty"`
	Conditions int    `json:"conditions"`
	Depth      int    `json:"depth,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	limits := limitsFromFlags(cmd)
	out := cmd.OutOrStdout()
	logger := newLogger(cmd)

	results := make([]checkResult, 0, len(args))
	failed := 0
	for _, expression := range args {
		res := checkResult{Expression: expression, Valid: true}
		res.Conditions = len(sepal.SplitConditions(sepal.Tokenize(expression)))

		root, err := sepal.ParseWithLimits(expression, limits)
		if err != nil {
			res.Valid = false
			res.Error = err.Error()
			failed++
			logger.Debug("parse failed", "expression", expression, "err", err)
		} else {
			res.Depth = root.Depth()
		}
		results = append(results, res)
	}

	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		_ = enc.Encode(results)
	} else {
		for _, res := range results {
			if res.Valid {
				fmt.Fprintf(out, "ok: %s (%d %s, depth %d)\n",
					res.Expression, res.Conditions, pluralize("condition", res.Conditions), res.Depth)
			} else {
				fmt.Fprintf(out, "error: %s: %s\n", res.Expression, res.Error)
			}
		}
	}

	if failed > 0 {
		return exitError(exitParse, "%d of %d %s failed",
			failed, len(args), pluralize("expression", len(args)))
	}
	return nil
}
