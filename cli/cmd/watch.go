package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nctirs/nctirs-stack/cli/pkg/output"
	"github.com/nctirs/nctirs-stack/common/messaging"
	"github.com/nctirs/nctirs-stack/common/models"

	natsclient "github.com/nctirs/nctirs-stack/common/messaging/nats"
)

var (
	watchNATSURL  string
	watchSeverity string
	watchLimit    int
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the live threat alert stream",
	Long: `Subscribe to the telemetry service's alert stream on NATS and print
each alert as it arrives. Press Ctrl+C to stop.

Examples:
  nctirs watch
  nctirs watch --severity critical
  nctirs watch --nats-url nats://bus:4222 -o json --limit 10`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchNATSURL, "nats-url", "", "NATS server URL (default: profile nats_url)")
	watchCmd.Flags().StringVar(&watchSeverity, "severity", "", "only show alerts of this severity (critical, high, medium, low, info)")
	watchCmd.Flags().IntVar(&watchLimit, "limit", 0, "exit after this many alerts (0 = unlimited)")
}

// watchSubject returns the subject to subscribe to for severity.
func watchSubject(severity string) (string, error) {
	if severity == "" {
		return messaging.SubjectThreatAlertsAll, nil
	}
	for _, level := range models.ThreatLevels {
		if string(level) == severity {
			return messaging.ThreatAlertSubject(severity), nil
		}
	}
	return "", fmt.Errorf("unknown severity %q", severity)
}

func runWatch(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	subject, err := watchSubject(watchSeverity)
	if err != nil {
		return err
	}

	url := watchNATSURL
	if !cmd.Flags().Changed("nats-url") {
		profile, err := activeProfile()
		if err != nil {
			return err
		}
		url = profile.NATSURL
	}

	natsCfg := natsclient.DefaultConfig()
	natsCfg.URL = url
	natsCfg.Name = "nctirs-cli"
	client, err := natsclient.NewClient(natsCfg)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := alertPrinter(cmd.OutOrStdout(), format, watchLimit, stop)
	if _, err := client.Subscribe(subject, handler); err != nil {
		return err
	}

	output.Info("Watching %s on %s", subject, url)
	<-ctx.Done()
	return nil
}

// alertPrinter returns a handler that writes each alert to w. After limit
// alerts (when positive) it calls done.
func alertPrinter(w io.Writer, format output.Format, limit int, done context.CancelFunc) messaging.MessageHandler {
	var (
		mu   sync.Mutex
		seen int
	)

	return func(_ context.Context, msg *messaging.Message) error {
		var alert models.ThreatAlert
		if err := json.Unmarshal(msg.Data, &alert); err != nil {
			return fmt.Errorf("decode alert on %s: %w", msg.Subject, err)
		}

		mu.Lock()
		defer mu.Unlock()

		if limit > 0 && seen >= limit {
			return nil
		}
		seen++

		switch format {
		case output.FormatJSON:
			// One compact document per line so the stream can be piped to jq.
			line, err := json.Marshal(alert)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, string(line))
		case output.FormatYAML:
			fmt.Fprintln(w, "---")
			if err := output.YAML(w, alert); err != nil {
				return err
			}
		default:
			fmt.Fprintln(w, alertLine(alert))
		}

		if limit > 0 && seen >= limit {
			done()
		}
		return nil
	}
}

func alertLine(a models.ThreatAlert) string {
	return fmt.Sprintf("%s  %-8s  %-3d  %s  %s -> %s  %s",
		fmtTime(a.Timestamp), output.Severity(string(a.Severity)), a.RiskScore,
		a.ID, a.SourceIP, a.TargetSystem, a.Title)
}
