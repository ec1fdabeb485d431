package client

import (
	"github.com/spf13/cobra"
)

// BaseURLFunc provides the base HTTP API URL (e.g., from env or flag).
type BaseURLFunc func() string

// NewRoot constructs a root Cobra command for the analytics client.
// It registers the event, analytics and status command groups.
func NewRoot(baseURL BaseURLFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "analyticsd",
		Short: "Analytics client commands",
	}
	root.AddCommand(NewEventCommand(baseURL))
	root.AddCommand(NewAnalyticsCommand(baseURL))
	root.AddCommand(NewStatusCommand(baseURL))
	root.AddCommand(NewFilesCommand(baseURL))
	return root
}
