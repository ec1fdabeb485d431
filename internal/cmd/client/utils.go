package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

// getJSON fetches a JSON endpoint and pretty-prints the response body.
func getJSON(cmd *cobra.Command, baseURL BaseURLFunc, path string) error {
	resp, err := http.Get(baseURL() + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %s: %s", resp.Status, bytes.TrimSpace(body))
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		_, _ = fmt.Fprint(cmd.OutOrStdout(), string(body))
		return nil
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), pretty.String())
	return nil
}
