// Package stream periodically publishes generated threat alerts to the
// message bus so consumers can follow a live feed.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nctirs/nctirs-stack/common/logging"
	"github.com/nctirs/nctirs-stack/common/messaging"
	"github.com/nctirs/nctirs-stack/common/models"
	"github.com/nctirs/nctirs-stack/telemetry/internal/metrics"
)

const publishTimeout = 5 * time.Second

// ErrAlreadyRunning is returned by Start on a running stream.
var ErrAlreadyRunning = errors.New("stream already running")

// AlertSource produces the alerts to publish.
type AlertSource interface {
	Alert(ctx context.Context) (models.ThreatAlert, error)
}

// Publisher publishes one alert per interval.
type Publisher struct {
	source    AlertSource
	publisher messaging.Publisher
	logger    *logging.Logger
	interval  time.Duration

	mu   sync.Mutex
	cron *cron.Cron
}

func NewPublisher(source AlertSource, publisher messaging.Publisher, interval time.Duration, logger *logging.Logger) *Publisher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Publisher{
		source:    source,
		publisher: publisher,
		logger:    logger,
		interval:  interval,
	}
}

// Start schedules the publisher. Ticks never overlap; a tick still running
// when the next is due is skipped.
func (p *Publisher) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cron != nil {
		return ErrAlreadyRunning
	}
	if p.interval < time.Second {
		return fmt.Errorf("stream interval must be at least 1s, got %s", p.interval)
	}

	c := cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)))
	schedule := "@every " + p.interval.String()
	if _, err := c.AddFunc(schedule, func() {
		_ = p.tick(context.Background())
	}); err != nil {
		return fmt.Errorf("schedule %q: %w", schedule, err)
	}

	c.Start()
	p.cron = c

	p.logger.Info("threat stream started",
		"interval", p.interval.String(),
		logging.Subject(messaging.SubjectThreatAlertsAll))
	return nil
}

// Stop halts the schedule and waits for an in-flight tick or ctx.
func (p *Publisher) Stop(ctx context.Context) error {
	p.mu.Lock()
	c := p.cron
	p.cron = nil
	p.mu.Unlock()

	if c == nil {
		return nil
	}

	select {
	case <-c.Stop().Done():
		p.logger.Info("threat stream stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// tick generates and publishes a single alert. Failures are logged and
// counted; the schedule keeps running.
func (p *Publisher) tick(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	alert, err := p.source.Alert(ctx)
	if err != nil {
		return p.fail(ctx, "failed to generate alert", err)
	}

	data, err := json.Marshal(alert)
	if err != nil {
		return p.fail(ctx, "failed to encode alert", err)
	}

	severity := string(alert.Severity)
	msg := &messaging.Message{
		Subject: messaging.ThreatAlertSubject(severity),
		Data:    data,
		Metadata: map[string]string{
			messaging.HeaderSeverity: severity,
			messaging.HeaderAlertID:  alert.ID,
		},
		Timestamp: time.Now(),
	}

	if err := p.publisher.PublishMsg(ctx, msg); err != nil {
		return p.fail(ctx, "failed to publish alert", err, logging.Subject(msg.Subject))
	}

	metrics.StreamPublished.WithLabelValues(severity).Inc()
	p.logger.DebugContext(ctx, "alert published",
		logging.Subject(msg.Subject),
		"alert_id", alert.ID)
	return nil
}

func (p *Publisher) fail(ctx context.Context, msg string, err error, args ...any) error {
	metrics.StreamErrors.Inc()
	p.logger.WarnContext(ctx, msg, append(args, logging.Error(err))...)
	return fmt.Errorf("%s: %w", msg, err)
}
