package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/petal-labs/sepal"
	"github.com/petal-labs/sepal/loader"
)

// NewEvalCmd creates the "eval" subcommand.
func NewEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an expression against a record document",
		Args:  cobra.ExactArgs(1),
		RunE:  runEval,
	}

	cmd.Flags().StringP("record", "r", "", "Record document (YAML or JSON) mapping fields to values")
	cmd.Flags().StringP("shape", "s", "", "Shape document (YAML or JSON) mapping fields to kinds; inferred from the record when omitted")
	cmd.Flags().Bool("exit-status", false, "Exit with code 5 when the record does not match")
	addLimitFlags(cmd)

	_ = cmd.MarkFlagRequired("record")

	return cmd
}

// runEval loads the record (and shape, explicit or inferred), parses and
// compiles the expression, evaluates it and prints true or false.
func runEval(cmd *cobra.Command, args []string) error {
	expression := args[0]
	out := cmd.OutOrStdout()
	logger := newLogger(cmd)

	recordPath, _ := cmd.Flags().GetString("record")
	shapePath, _ := cmd.Flags().GetString("shape")
	exitStatus, _ := cmd.Flags().GetBool("exit-status")

	var (
		record sepal.Record
		shape  sepal.RecordShape
		err    error
	)
	if shapePath != "" {
		shape, err = loader.LoadShape(shapePath)
		if err != nil {
			return loadError(shapePath, err)
		}
		record, err = loader.LoadRecord(recordPath, shape)
		if err != nil {
			return loadError(recordPath, err)
		}
	} else {
		record, shape, err = loader.LoadRecordInferred(recordPath)
		if err != nil {
			return loadError(recordPath, err)
		}
	}
	logger.Debug("record loaded", "path", recordPath, "fields", len(record))

	root, err := sepal.ParseWithLimits(expression, limitsFromFlags(cmd))
	if err != nil {
		return exitError(exitParse, "parsing expression: %v", err)
	}
	logger.Debug("expression parsed", "canonical", root.String(), "depth", root.Depth())

	pred, err := sepal.Compile(root, shape)
	if err != nil {
		return exitError(exitCompile, "compiling expression: %v", err)
	}

	matched := pred(record)
	fmt.Fprintln(out, matched)

	if exitStatus && !matched {
		return exitError(exitNoMatch, "no match")
	}
	return nil
}

// loadError maps document-loading failures to exit codes, distinguishing a
// missing file from a malformed one.
func loadError(path string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return exitError(exitFileNotFound, "file not found: %s", path)
	}
	return exitError(exitInputParse, "loading %s: %v", path, err)
}
