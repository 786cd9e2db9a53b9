package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const maxBackoff = 30 * time.Second

// AuditConsumer appends every BasePriceChangedEvent to a log file, one line
// per change.
type AuditConsumer struct {
	URL     string
	LogPath string
}

// Run dials the broker, declares PriceChangedQueue and consumes until ctx is
// cancelled. Lost connections are retried with a capped exponential backoff.
func (a *AuditConsumer) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx).With().Str("component", "price-audit-consumer").Logger()

	backoff := time.Second
	for {
		conn, err := amqp.Dial(a.URL)
		if err != nil {
			logger.Warn().Err(err).Dur("retry_in", backoff).Msg("failed to dial broker")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < maxBackoff {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = a.consumeLoop(ctx, conn, logger)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn().Err(err).Msg("consume loop ended; reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (a *AuditConsumer) consumeLoop(ctx context.Context, conn *amqp.Connection, logger zerolog.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logger.Warn().Err(err).Msg("set QoS failed")
	}
	if _, err := ch.QueueDeclare(PriceChangedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, PriceChangedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := AppendAudit(a.LogPath, d.Body); err != nil {
			logger.Error().Err(err).Msg("handle message failed")
			_ = d.Nack(false, false) // drop, no requeue
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// AppendAudit decodes a BasePriceChangedEvent and appends its audit line to
// path, creating parent directories as needed.
func AppendAudit(path string, body []byte) error {
	var ev BasePriceChangedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.PassType == "" {
		return errors.New("event without pass type")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatAudit(ev)); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

// FormatAudit renders ev as a single newline-terminated line.
func FormatAudit(ev BasePriceChangedEvent) string {
	by := ev.ChangedBy
	if by == "" {
		by = "anonymous"
	}
	return fmt.Sprintf("[%s] Base price set | type=%q | cost=%d | by=%s\n",
		ev.ChangedAt, ev.PassType, ev.Cost, by)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
