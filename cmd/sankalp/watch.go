package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alfredjeanlab/sankalp/internal/events"
	"github.com/alfredjeanlab/sankalp/internal/ui"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:         "watch",
	Short:       "Stream console events from NATS",
	GroupID:     "system",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationOffline: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		if cfg.NATSURL == "" {
			return fmt.Errorf("SANKALP_NATS_URL is required for watch")
		}

		sub, err := events.NewNATSSubscriber(cfg.NATSURL,
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				logger.Warn("nats: disconnected", "error", err)
			}),
			nats.ReconnectHandler(func(_ *nats.Conn) {
				logger.Info("nats: reconnected")
			}),
		)
		if err != nil {
			return err
		}
		defer sub.Close()
		sub.SetLogger(logger)

		ch, cancel, err := sub.Subscribe(topic)
		if err != nil {
			return err
		}
		defer cancel()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		for {
			select {
			case <-ctx.Done():
				return nil
			case msg, ok := <-ch:
				if !ok {
					return nil
				}
				printEvent(out, time.Now(), msg)
			}
		}
	},
}

// printEvent writes one event as a line, or as a JSON object with --json.
func printEvent(w io.Writer, at time.Time, msg events.Message) {
	if jsonOutput {
		fmt.Fprintf(w, `{"time":%q,"topic":%q,"event":%s}`+"\n", at.Format(time.RFC3339), msg.Topic, compactJSON(msg.Data))
		return
	}
	fmt.Fprintf(w, "%s %s %s\n",
		ui.RenderMuted(at.Format("15:04:05")),
		ui.RenderAccent(strings.TrimPrefix(msg.Topic, "sankalp.")),
		compactJSON(msg.Data),
	)
}

func compactJSON(data []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		b, _ := json.Marshal(string(data))
		return string(b)
	}
	return buf.String()
}

func init() {
	watchCmd.Flags().String("topic", events.TopicAll, "subject to subscribe to (NATS wildcards allowed)")
}
