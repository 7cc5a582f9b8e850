package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fxsml/pushpipe/capture"
)

func init() {
	inspectCmd.Flags().IntP("limit", "n", 20, "maximum number of envelopes to print (0 prints all)")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [capture-dir]",
	Short: "Print the envelopes of a capture log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return inspect(cmd, args[0], limit)
	},
}

func inspect(cmd *cobra.Command, dir string, limit int) error {
	log, err := capture.OpenReadOnly(dir)
	if err != nil {
		return err
	}
	defer log.Close()

	events, err := log.Events()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var records, closed int
	for i, env := range events {
		n := 0
		if len(env.Records) > 0 {
			var raw []json.RawMessage
			if err := json.Unmarshal(env.Records, &raw); err != nil {
				return fmt.Errorf("envelope %d: %w", env.Seq, err)
			}
			n = len(raw)
		}
		records += n
		if env.Kind == capture.KindClosed {
			closed++
		}
		if limit > 0 && i >= limit {
			continue
		}
		switch env.Kind {
		case capture.KindClosed:
			fmt.Fprintf(out, "%8d  closed\n", env.Seq)
		default:
			fmt.Fprintf(out, "%8d  %-6s time=%s records=%d\n", env.Seq, env.Kind, env.Time, n)
		}
	}
	fmt.Fprintf(out, "%d envelopes, %d records, %d closed\n", len(events), records, closed)
	return nil
}
