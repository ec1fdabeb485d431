package client

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

// NewAnalyticsCommand constructs the `analytics` command group and subcommands.
func NewAnalyticsCommand(baseURL BaseURLFunc) *cobra.Command {
	analyticsCmd := &cobra.Command{Use: "analytics", Short: "Minute-bucket analytics reads"}
	analyticsCmd.AddCommand(
		newAnalyticsViewsCommand(baseURL),
		newAnalyticsBucketCommand(baseURL),
	)
	return analyticsCmd
}

// newAnalyticsViewsCommand constructs the `analytics views` subcommand.
func newAnalyticsViewsCommand(baseURL BaseURLFunc) *cobra.Command {
	viewsCmd := &cobra.Command{
		Use:   "views",
		Short: "Page views per minute for the trailing window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			minutes, _ := cmd.Flags().GetInt("minutes")
			path := fmt.Sprintf("/analytics/page_views_per_minute?minutes=%d", minutes)
			return getJSON(cmd, baseURL, path)
		},
	}
	viewsCmd.Flags().IntP("minutes", "m", 5, "Trailing window size in minutes")
	return viewsCmd
}

// newAnalyticsBucketCommand constructs the `analytics bucket` subcommand.
func newAnalyticsBucketCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "bucket <key>",
		Short: "Read one minute bucket (count and distinct users)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON(cmd, baseURL, "/analytics/minute-buckets/"+url.PathEscape(args[0]))
		},
	}
}
