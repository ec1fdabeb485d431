package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

// NewEventCommand constructs the `event` command group and subcommands.
func NewEventCommand(baseURL BaseURLFunc) *cobra.Command {
	eventCmd := &cobra.Command{Use: "event", Short: "Event operations"}
	eventCmd.AddCommand(newEventSendCommand(baseURL))
	return eventCmd
}

// newEventSendCommand constructs the `event send` subcommand.
func newEventSendCommand(baseURL BaseURLFunc) *cobra.Command {
	sendCmd := &cobra.Command{
		Use:   "send",
		Short: "Submit a page view event",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, _ := cmd.Flags().GetString("user")
			page, _ := cmd.Flags().GetString("page")
			ts, _ := cmd.Flags().GetString("timestamp")

			body := map[string]any{
				"user_id":    user,
				"event_type": "page_view",
			}
			if ts != "" {
				body["timestamp"] = ts
			}
			if page != "" {
				body["payload"] = map[string]string{"page_url": page}
			}
			b, _ := json.Marshal(body)
			resp, err := http.Post(baseURL()+"/events", "application/json", bytes.NewReader(b))
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			out, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusAccepted {
				return fmt.Errorf("server returned %s: %s", resp.Status, bytes.TrimSpace(out))
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	sendCmd.Flags().StringP("user", "u", "", "User ID (required)")
	sendCmd.Flags().StringP("page", "p", "", "Page URL")
	sendCmd.Flags().String("timestamp", "", "Event timestamp (RFC3339; defaults to now)")
	_ = sendCmd.MarkFlagRequired("user")
	return sendCmd
}
