package cmd

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/autolab/autolab-cli/internal/asmtfile"
	"github.com/autolab/autolab-cli/internal/iocontext"
	"github.com/autolab/autolab-cli/internal/outfmt"
)

// getJQQuery returns the jq query from --jq or --query flags.
// --jq takes precedence over --query.
func getJQQuery() string {
	if flags.JQ != "" {
		return flags.JQ
	}
	return flags.Query
}

func isJSON(cmd *cobra.Command) bool {
	return outfmt.IsJSON(cmd.Context())
}

// newTabWriter creates a tabwriter for text output
func newTabWriter(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func newTabWriterFromCmd(cmd *cobra.Command) *tabwriter.Writer {
	ioStreams := iocontext.GetIO(cmd.Context())
	return newTabWriter(ioStreams.Out)
}

// printJSON outputs data as JSON with optional query filtering
func printJSON(cmd *cobra.Command, v any) error {
	ioStreams := iocontext.GetIO(cmd.Context())
	query := outfmt.GetQuery(cmd.Context())
	return outfmt.WriteJSONFiltered(ioStreams.Out, v, query)
}

func printf(cmd *cobra.Command, format string, args ...any) {
	ioStreams := iocontext.GetIO(cmd.Context())
	_, _ = fmt.Fprintf(ioStreams.Out, format, args...)
}

func println(cmd *cobra.Command, args ...any) {
	ioStreams := iocontext.GetIO(cmd.Context())
	_, _ = fmt.Fprintln(ioStreams.Out, args...)
}

// errNotInAssessmentDir guides the user when no assessment can be resolved.
var errNotInAssessmentDir = errors.New(
	"not in an assessment directory - pass course:assessment or run from a directory created by 'autolab download'")

// resolveRef determines the target assessment: an explicit course:assessment
// argument wins, otherwise the nearest .autolab-asmt marker. When both exist
// and disagree, force is required to proceed with the argument.
func resolveRef(arg string, force bool) (asmtfile.Ref, error) {
	marker, found, err := asmtfile.FindFromWorkingDir()
	if err != nil {
		return asmtfile.Ref{}, err
	}

	if arg == "" {
		if !found {
			return asmtfile.Ref{}, errNotInAssessmentDir
		}
		return marker, nil
	}

	ref, err := asmtfile.Parse(arg)
	if err != nil {
		return asmtfile.Ref{}, err
	}
	if found && marker != ref && !force {
		return asmtfile.Ref{}, fmt.Errorf(
			"this directory belongs to %s, not %s - use -f to override", marker, ref)
	}
	return ref, nil
}

// refFromArgs pulls the optional course:assessment argument off the front of
// args, returning the resolved ref and the remaining arguments.
func refFromArgs(args []string, force bool) (asmtfile.Ref, []string, error) {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
		args = args[1:]
	}
	ref, err := resolveRef(arg, force)
	return ref, args, err
}

// errAlreadyHandled is a sentinel error indicating the error was already
// printed to stderr.
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (h *handledError) Error() string { return h.err.Error() }

func (h *handledError) Unwrap() error { return errAlreadyHandled }

// RunE wraps a command function with enhanced error handling
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err != nil {
			_, _ = fmt.Fprint(cmd.ErrOrStderr(), HandleError(err))
			// Return a handled error so tests can still inspect the original message.
			return &handledError{err: err, exitCode: ExitCode(err)}
		}
		return nil
	}
}
