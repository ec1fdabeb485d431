package client

import (
	"github.com/spf13/cobra"
)

// NewStatusCommand constructs the `status` command.
func NewStatusCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show pipeline status (queue depth, processor, archive footprint)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return getJSON(cmd, baseURL, "/persistent/status")
		},
	}
}

// NewFilesCommand constructs the `files` command.
func NewFilesCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List hour-partitioned archive files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return getJSON(cmd, baseURL, "/persistent/files")
		},
	}
}
