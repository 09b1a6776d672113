package cmd

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/autolab/autolab-cli/internal/api"
	"github.com/autolab/autolab-cli/internal/config"
	"github.com/autolab/autolab-cli/internal/iocontext"
)

// deviceFlowTimeout is how long setup waits for the user to authorize on
// the website before giving up.
const deviceFlowTimeout = 5 * time.Minute

func newSetupCmd() *cobra.Command {
	var force bool
	var envFile string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Authorize this client against the Autolab service",
		Long: "Starts an OAuth2 device flow: you will be shown a code to enter on the\n" +
			"Autolab website, and the client polls until access is granted.",
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("cannot load --env-file %q: %w", envFile, err)
				}
			}

			if config.HasTokens() && !force {
				if user := currentUser(cmd); user != nil {
					printf(cmd, "Already set up as %s %s (%s). Use -f to set up again.\n",
						user.FirstName, user.LastName, user.Email)
					return nil
				}
				// Stored tokens are stale; fall through to a fresh flow.
			}
			if force {
				// Drop the old pair so a failed re-setup cannot leave it behind.
				_ = config.DeleteTokens()
			}

			client := newClientFactory().unauthenticated()
			userCode, verificationURI, err := client.DeviceFlowInit(cmd.Context())
			if err != nil {
				return err
			}

			printf(cmd, "Go to %s and enter the code:\n\n", verificationURI)
			printf(cmd, "    %s\n\n", color.New(color.Bold, color.FgCyan).Sprint(userCode))

			result, err := waitForAuthorization(cmd, client)
			if err != nil {
				return err
			}

			switch result {
			case api.AuthorizeGranted:
				// Tokens were persisted by the save callback; greet the user.
				if user, err := client.GetUser(cmd.Context()); err == nil {
					printf(cmd, "Hello %s %s! Setup complete.\n", user.FirstName, user.LastName)
				} else {
					println(cmd, "Setup complete.")
				}
				return nil
			case api.AuthorizeDenied:
				return fmt.Errorf("authorization was denied on the website")
			case api.AuthorizeTimedOut:
				return fmt.Errorf("authorization timed out after %s - run setup again", deviceFlowTimeout)
			default:
				return fmt.Errorf("device flow was not initialized")
			}
		}),
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Set up again even if already authorized")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Load AUTOLAB_* settings from a dotenv file")
	return cmd
}

// waitForAuthorization polls the device flow with a progress spinner on
// interactive terminals.
func waitForAuthorization(cmd *cobra.Command, client *api.Client) (api.AuthorizeResult, error) {
	ioStreams := iocontext.GetIO(cmd.Context())

	var spin *spinner.Spinner
	if !flags.Quiet && !flags.NoInput {
		spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond,
			spinner.WithWriter(ioStreams.ErrOut))
		spin.Suffix = " waiting for authorization..."
		spin.Start()
		defer spin.Stop()
	}

	return client.DeviceFlowAuthorize(cmd.Context(), deviceFlowTimeout)
}

// currentUser fetches the profile for the stored tokens, or nil if they no
// longer work.
func currentUser(cmd *cobra.Command) *api.User {
	client, err := getClient()
	if err != nil {
		return nil
	}
	user, err := client.GetUser(cmd.Context())
	if err != nil {
		return nil
	}
	return user
}
