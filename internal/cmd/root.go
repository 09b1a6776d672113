// Package cmd implements the autolab command-line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/autolab/autolab-cli/internal/api"
	"github.com/autolab/autolab-cli/internal/debug"
	"github.com/autolab/autolab-cli/internal/iocontext"
	"github.com/autolab/autolab-cli/internal/outfmt"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Output  string
	JSON    bool
	Query   string
	JQ      string
	Color   string
	Debug   bool
	Quiet   bool
	NoInput bool
	Timeout time.Duration
}

// flags holds the global command flags. This is package-level mutable state
// that MUST be reset at the start of every Execute() call. Tests depend on
// this reset to get clean state.
var flags = rootFlags{
	Output:  defaultOutput(),
	Color:   "auto",
	Timeout: api.DefaultTimeout,
}

func defaultOutput() string {
	value := strings.TrimSpace(os.Getenv("AUTOLAB_OUTPUT"))
	if value != "" {
		return value
	}
	return "text"
}

// loadAutolabEnv loads environment variables from the user config directory
// if an .env file exists there. Variables already set in the environment are
// not overwritten, so explicit exports always take precedence.
func loadAutolabEnv() {
	dir, err := os.UserConfigDir()
	if err != nil {
		return
	}
	path := filepath.Join(dir, "autolab-cli", ".env")
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = godotenv.Load(path)
}

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	loadAutolabEnv()

	// Reset flags to defaults for each execution, for test isolation.
	flags = rootFlags{
		Output:  defaultOutput(),
		Color:   "auto",
		Timeout: api.DefaultTimeout,
	}

	root := &cobra.Command{
		Use:                "autolab",
		Short:              "Command-line interface to the Autolab course-management service",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true, // We provide our own did-you-mean via enhanceUnknownError
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			// Ensure JSON output when requested or required
			if flags.JSON {
				if cmd.Flags().Changed("output") && flags.Output != "json" {
					return fmt.Errorf("--json conflicts with --output %s", flags.Output)
				}
				flags.Output = "json"
			}
			jqQuery := getJQQuery()
			if jqQuery != "" && flags.Output != "json" {
				if cmd.Flags().Changed("output") {
					return fmt.Errorf("--query/--jq require --output json (or --json)")
				}
				flags.Output = "json"
			}

			mode, err := outfmt.Parse(flags.Output)
			if err != nil {
				return err
			}
			ctx = outfmt.WithMode(ctx, mode)
			if jqQuery != "" {
				ctx = outfmt.WithQuery(ctx, jqQuery)
			}

			switch flags.Color {
			case "always":
				color.NoColor = false
			case "never":
				color.NoColor = true
			case "auto":
				// fatih/color auto-detects TTYs
			default:
				return fmt.Errorf("invalid --color %q (use 'auto', 'always', or 'never')", flags.Color)
			}

			// Set up IO streams (quiet suppresses non-essential stdout)
			ioStreams := iocontext.System()
			if flags.Quiet && mode == outfmt.Text {
				ioStreams.Silence()
			}
			ctx = iocontext.WithIO(ctx, ioStreams)
			cmd.SetOut(ioStreams.Out)
			cmd.SetErr(ioStreams.ErrOut)

			debugEnabled := flags.Debug || debug.EnvEnabled()
			debug.SetupLogger(debugEnabled)
			ctx = debug.WithDebug(ctx, debugEnabled)

			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetContext(ctx)
	root.SetArgs(args)

	root.PersistentFlags().StringVarP(&flags.Output, "output", "o", flags.Output, "Output format: text|json (env AUTOLAB_OUTPUT)")
	root.PersistentFlags().BoolVarP(&flags.JSON, "json", "j", false, "Shorthand for --output json")
	root.PersistentFlags().StringVarP(&flags.Query, "query", "q", "", "JQ expression to filter JSON output")
	root.PersistentFlags().StringVar(&flags.JQ, "jq", "", "Alias for --query")
	root.PersistentFlags().StringVar(&flags.Color, "color", flags.Color, "Color output: auto|always|never")
	root.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "Q", false, "Suppress non-essential output")
	root.PersistentFlags().BoolVar(&flags.NoInput, "no-input", false, "Disable interactive prompts")
	root.PersistentFlags().DurationVar(&flags.Timeout, "timeout", flags.Timeout, "HTTP request timeout (e.g., 30s, 2m)")

	root.AddCommand(newSetupCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newCoursesCmd())
	root.AddCommand(newAssessmentsCmd())
	root.AddCommand(newProblemsCmd())
	root.AddCommand(newScoresCmd())
	root.AddCommand(newFeedbackCmd())
	root.AddCommand(newDownloadCmd())
	root.AddCommand(newSubmitCmd())
	root.AddCommand(newVersionCmd())

	targetCmd, err := root.ExecuteC()
	if err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			enhanced := enhanceUnknownError(err, root, targetCmd)
			_, _ = fmt.Fprintln(root.ErrOrStderr(), enhanced)
		}
		return err
	}
	return nil
}

// enhanceUnknownError adds "did you mean?" suggestions to unknown
// command/flag errors. targetCmd is the command Cobra resolved before the
// error (may be root itself).
func enhanceUnknownError(err error, root *cobra.Command, targetCmd *cobra.Command) string {
	msg := err.Error()

	if strings.Contains(msg, "unknown command") {
		unknown := extractQuoted(msg)
		if unknown != "" {
			var names []string
			for _, c := range root.Commands() {
				if c.IsAvailableCommand() || c.Name() == "help" {
					names = append(names, c.Name())
					names = append(names, c.Aliases...)
				}
			}
			if suggestion := suggestCommand(unknown, names); suggestion != "" {
				return fmt.Sprintf("Error: %s\n\nDid you mean '%s'?", msg, suggestion)
			}
		}
		return "Error: " + msg
	}

	if strings.Contains(msg, "unknown flag") || strings.Contains(msg, "unknown shorthand flag") {
		// pflag reports these as "unknown flag: --name", without quotes.
		unknown := extractQuoted(msg)
		if unknown == "" {
			if _, after, ok := strings.Cut(msg, ": "); ok {
				unknown = strings.TrimSpace(after)
			}
		}
		if unknown != "" && targetCmd != nil {
			var names []string
			targetCmd.Flags().VisitAll(func(f *pflag.Flag) {
				names = append(names, "--"+f.Name)
			})
			targetCmd.InheritedFlags().VisitAll(func(f *pflag.Flag) {
				names = append(names, "--"+f.Name)
			})
			if suggestion := suggestFlag(unknown, names); suggestion != "" {
				return fmt.Sprintf("Error: %s\n\nDid you mean '%s'?", msg, suggestion)
			}
		}
		return "Error: " + msg
	}

	return "Error: " + msg
}

// extractQuoted pulls the first double-quoted substring out of an error
// message.
func extractQuoted(s string) string {
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(s[start+1:], '"')
	if end < 0 {
		return ""
	}
	return s[start+1 : start+1+end]
}
