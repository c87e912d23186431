// Package telegram implements the outbound transport on top of the
// Telegram Bot API via telebot.
package telegram

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"madnotify/internal/transport"
	"madnotify/pkg/logx"
)

type Config struct {
	Token string

	// APIURL overrides the Bot API endpoint. Tests point this at a local
	// stub; empty means api.telegram.org.
	APIURL string

	// Timeout bounds every outbound HTTP call. The Bot API has no server
	// side deadline, so an unset timeout could hang a request forever.
	Timeout time.Duration
}

const defaultTimeout = 10 * time.Second

// Adapter is a send-only Telegram client. The relay never receives
// updates, so there is no poller and no handler registration.
type Adapter struct {
	bot  *tele.Bot
	http *http.Client
	log  logx.Logger
}

func New(cfg Config, log logx.Logger) (*Adapter, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := &http.Client{Timeout: timeout}

	b, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		URL:    cfg.APIURL,
		Client: client,
		// Skip the startup getMe probe: a Telegram outage must not block
		// startup of a best-effort relay. A bad token surfaces on the
		// first send instead.
		Offline: true,
	})
	if err != nil {
		return nil, err
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Adapter{bot: b, http: client, log: log}, nil
}

func (a *Adapter) SendText(ctx context.Context, to transport.ChatTarget, text string, opt *transport.SendOptions) (transport.MessageRef, error) {
	if opt == nil {
		opt = &transport.SendOptions{}
	}
	if ctx != nil {
		select {
		case <-ctx.Done():
			return transport.MessageRef{}, ctx.Err()
		default:
		}
	}

	sendOpt := &tele.SendOptions{
		ParseMode:             opt.ParseMode,
		DisableWebPagePreview: opt.DisablePreview,
		ThreadID:              to.ThreadID,
	}

	msg, err := a.bot.Send(tele.ChatID(to.ChatID), text, sendOpt)
	if err != nil {
		return transport.MessageRef{}, err
	}
	return transport.MessageRef{ChatID: to.ChatID, ThreadID: to.ThreadID, MessageID: msg.ID}, nil
}

// Close releases the outbound connection pool. In-flight sends have
// already finished by the time the server drains, so this only closes
// idle keep-alive connections.
func (a *Adapter) Close(ctx context.Context) error {
	a.http.CloseIdleConnections()
	return nil
}
