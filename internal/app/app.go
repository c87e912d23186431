// Package app wires configuration, logging, the Telegram dispatcher and
// the HTTP ingress into one process lifecycle.
package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/coreos/go-systemd/v22/daemon"

	"madnotify/internal/anomaly"
	"madnotify/internal/config"
	"madnotify/internal/notifier"
	"madnotify/internal/server"
	"madnotify/internal/transport"
	"madnotify/internal/transport/telegram"
	"madnotify/pkg/logx"
)

type Options struct {
	// ConfigPath is an optional config file; empty means env-only.
	ConfigPath string

	// PortOverride takes precedence over PORT and the config file when > 0.
	PortOverride int
}

type App struct {
	cfgm *config.Manager
	cfg  *config.Config

	logs *logx.Service
	log  logx.Logger

	adapter *telegram.Adapter
	srv     *server.Server

	watchCancel context.CancelFunc
	watchWG     sync.WaitGroup
}

// New loads the configuration and builds the full pipeline. Any error here
// is fatal: the relay must not come up half-configured.
func New(opts Options) (*App, error) {
	bootLog := logx.NewConsole("INFO")

	cfgm := config.NewManager(opts.ConfigPath, bootLog)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.PortOverride > 0 {
		if opts.PortOverride > 65535 {
			return nil, fmt.Errorf("port %d out of range", opts.PortOverride)
		}
		cfg.System.Port = opts.PortOverride
	}

	logSvc, log := logx.NewService(logConfig(cfg))
	log = log.With(logx.String("comp", "app"))

	sendTimeout, err := cfg.Telegram.SendTimeoutDuration()
	if err != nil {
		return nil, err
	}

	adapter, err := telegram.New(telegram.Config{
		Token:   cfg.Telegram.BotToken,
		APIURL:  cfg.Telegram.APIURL,
		Timeout: sendTimeout,
	}, log.With(logx.String("comp", "telegram")))
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}

	disp := notifier.New(notifier.Config{
		Target:      transport.ChatTarget{ChatID: cfg.Telegram.ChatID},
		SendTimeout: sendTimeout,
	}, adapter, log.With(logx.String("comp", "notifier")))

	mux := http.NewServeMux()
	anomaly.NewHandler(disp, log.With(logx.String("comp", "ingress"))).Register(mux)

	srv := server.New(mux, server.Config{Port: cfg.System.Port}, log.With(logx.String("comp", "http")))

	return &App{
		cfgm:    cfgm,
		cfg:     cfg,
		logs:    logSvc,
		log:     log,
		adapter: adapter,
		srv:     srv,
	}, nil
}

// Start binds the listener and begins serving. With a config file present
// it also starts the file watcher; reloads re-apply the logging settings
// only, everything else requires a restart.
func (a *App) Start(ctx context.Context) error {
	if err := a.srv.Start(); err != nil {
		return err
	}
	a.log.Info("relay started",
		logx.Int("port", a.cfg.System.Port),
		logx.Bool("debug", a.cfg.System.Debug))

	wctx, cancel := context.WithCancel(context.Background())
	a.watchCancel = cancel

	sub := a.cfgm.Subscribe(1)
	a.watchWG.Add(2)
	go func() {
		defer a.watchWG.Done()
		if err := a.cfgm.Watch(wctx); err != nil {
			a.log.Warn("config watcher stopped", logx.Err(err))
		}
	}()
	go func() {
		defer a.watchWG.Done()
		for {
			select {
			case <-wctx.Done():
				return
			case cfg, ok := <-sub:
				if !ok {
					return
				}
				a.logs.Apply(logConfig(cfg))
				a.log.Info("logging settings re-applied",
					logx.String("level", cfg.LogLevel()),
					logx.String("log_path", cfg.System.LogPath))
			}
		}
	}()

	// Best-effort on non-systemd hosts: SdNotify is a no-op without
	// NOTIFY_SOCKET.
	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		a.log.Debug("sd_notify ready failed", logx.Err(err))
	}
	return nil
}

// Stop drains the HTTP server and releases the transport. It is safe to
// call after a failed Start.
func (a *App) Stop(ctx context.Context) error {
	if _, err := daemon.SdNotify(false, daemon.SdNotifyStopping); err != nil {
		a.log.Debug("sd_notify stopping failed", logx.Err(err))
	}

	if a.watchCancel != nil {
		a.watchCancel()
		a.watchWG.Wait()
		a.watchCancel = nil
	}

	err := a.srv.Stop(ctx)
	if cerr := a.adapter.Close(ctx); cerr != nil && err == nil {
		err = cerr
	}
	a.log.Info("relay stopped")
	a.logs.Close()
	return err
}

func logConfig(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.LogLevel(),
		Console: true,
		File: logx.FileConfig{
			Enabled:    cfg.System.LogPath != "",
			Path:       cfg.System.LogPath,
			MaxSizeMB:  config.LogMaxSizeMB,
			MaxBackups: config.LogMaxBackups,
		},
	}
}
