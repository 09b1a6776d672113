package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/autolab/autolab-cli/internal/api"
	"github.com/autolab/autolab-cli/internal/config"
)

// HandleError processes an error and returns a user-friendly message with suggestions
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder

	var transportErr *api.TransportError
	var protocolErr *api.ProtocolError
	var apiErr *api.APIError

	switch {
	case api.IsInvalidToken(err):
		msg.WriteString("Authorization failed: your session is no longer valid.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Run: autolab setup\n")
		msg.WriteString("  - Your access was possibly revoked on the Autolab site\n")

	case errors.Is(err, config.ErrNotConfigured):
		msg.WriteString("No user is set up on this client.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Run: autolab setup\n")

	case errors.Is(err, errNotInAssessmentDir):
		fmt.Fprintf(&msg, "Error: %s\n\n", err.Error())
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Run: autolab download <course>:<assessment>\n")
		msg.WriteString("  - Or name the assessment explicitly, e.g. autolab scores 15213-f26:malloclab\n")

	case errors.As(err, &apiErr):
		fmt.Fprintf(&msg, "%s\n\n", apiErr.Error())
		msg.WriteString(suggestionsForAPIError(apiErr))

	case errors.As(err, &protocolErr):
		fmt.Fprintf(&msg, "Unexpected response from the service: %s\n\n", protocolErr.Error())
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - The server may be running an incompatible Autolab version\n")
		msg.WriteString("  - Retry with --debug to inspect the exchange\n")

	case errors.As(err, &transportErr):
		fmt.Fprintf(&msg, "Cannot reach the service: %v\n\n", transportErr.Err)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check your network connection\n")
		msg.WriteString("  - Check the server address (AUTOLAB_BASE_URL)\n")
		msg.WriteString("  - The Autolab server may be down\n")

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())
	}

	return msg.String()
}

func suggestionsForAPIError(apiErr *api.APIError) string {
	var suggestions strings.Builder
	suggestions.WriteString("Suggestions:\n")

	message := strings.ToLower(apiErr.Message)
	switch {
	case strings.Contains(message, "not found"):
		suggestions.WriteString("  - Check the course and assessment names\n")
		suggestions.WriteString("  - Run: autolab courses\n")
	case strings.Contains(message, "submission"):
		suggestions.WriteString("  - Run: autolab scores to review your submissions\n")
		suggestions.WriteString("  - The assessment may have closed or hit its submission limit\n")
	case strings.Contains(message, "unauthorized"), strings.Contains(message, "permission"):
		suggestions.WriteString("  - You may not be enrolled in this course\n")
		suggestions.WriteString("  - Check your role with: autolab status\n")
	default:
		suggestions.WriteString("  - Use --debug to see the full request\n")
	}
	return suggestions.String()
}
