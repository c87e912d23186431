// Package notifier delivers rendered messages to Telegram and classifies
// the result. Delivery is fire-and-forget: one attempt per message, no
// queue, no retry. Failures end up in logs only; they are never surfaced
// to the HTTP caller that submitted the event.
package notifier

import (
	"context"
	"errors"
	"time"

	tele "gopkg.in/telebot.v4"

	"madnotify/internal/transport"
	"madnotify/pkg/logx"
	"madnotify/pkg/tgmd"
)

// Outcome is the tri-state result of one delivery attempt.
type Outcome int

const (
	// OutcomeDelivered: HTTP 200 with an "ok" acknowledgment from Telegram.
	OutcomeDelivered Outcome = iota
	// OutcomeRejected: Telegram answered with an error description, or the
	// message was dropped locally (empty after escaping).
	OutcomeRejected
	// OutcomeTransportFailed: the request never got a Bot API answer
	// (connect error, timeout).
	OutcomeTransportFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDelivered:
		return "delivered"
	case OutcomeRejected:
		return "rejected"
	case OutcomeTransportFailed:
		return "transport_failed"
	default:
		return "unknown"
	}
}

// Result carries the outcome plus a diagnostic for logs.
type Result struct {
	Outcome Outcome
	Detail  string
}

func (r Result) Delivered() bool { return r.Outcome == OutcomeDelivered }

type Config struct {
	Target transport.ChatTarget

	// SendTimeout bounds a single dispatch. The Bot API call otherwise has
	// no deadline of its own beyond the transport client's.
	SendTimeout time.Duration
}

const defaultSendTimeout = 10 * time.Second

// Service escapes and dispatches messages through a transport.Sender.
// Safe for concurrent use: all state is read-only after construction.
type Service struct {
	sender  transport.Sender
	cfg     Config
	log     logx.Logger
	timeout time.Duration
}

func New(cfg Config, sender transport.Sender, log logx.Logger) *Service {
	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{sender: sender, cfg: cfg, log: log, timeout: timeout}
}

// Dispatch escapes text for MarkdownV2, clamps it to Telegram's message
// limit and makes exactly one delivery attempt.
func (s *Service) Dispatch(ctx context.Context, text string) Result {
	if s.sender == nil || s.cfg.Target.ChatID == 0 {
		// Config validation rejects this at startup; the guard keeps a
		// miswired Service from panicking.
		res := Result{Outcome: OutcomeRejected, Detail: "dispatcher not configured"}
		s.log.Error("dispatch skipped", logx.String("reason", res.Detail))
		return res
	}

	safe := tgmd.Clamp(tgmd.Escape(text))
	if safe == "" {
		res := Result{Outcome: OutcomeRejected, Detail: "empty message after escaping"}
		s.log.Error("message dropped", logx.String("reason", res.Detail))
		return res
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opt := &transport.SendOptions{ParseMode: tele.ModeMarkdownV2, DisablePreview: true}
	_, err := s.sender.SendText(sendCtx, s.cfg.Target, safe, opt)
	res := classify(err)

	switch res.Outcome {
	case OutcomeDelivered:
		s.log.Debug("message delivered", logx.Int64("chat_id", s.cfg.Target.ChatID))
	case OutcomeRejected:
		s.log.Error("message rejected by telegram",
			logx.Int64("chat_id", s.cfg.Target.ChatID), logx.String("description", res.Detail))
	case OutcomeTransportFailed:
		s.log.Error("telegram unreachable",
			logx.Int64("chat_id", s.cfg.Target.ChatID), logx.String("detail", res.Detail))
	}
	return res
}

func classify(err error) Result {
	if err == nil {
		return Result{Outcome: OutcomeDelivered}
	}
	var apiErr *tele.Error
	if errors.As(err, &apiErr) {
		detail := apiErr.Description
		if detail == "" {
			detail = apiErr.Error()
		}
		return Result{Outcome: OutcomeRejected, Detail: detail}
	}
	return Result{Outcome: OutcomeTransportFailed, Detail: err.Error()}
}
