package config

import (
	"os"
	"path/filepath"
	"testing"

	"madnotify/pkg/logx"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123456")
	// Isolate from the ambient environment.
	for _, key := range []string{"PORT", "DEBUG", "LOG_PATH"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadFromEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DEBUG", "true")
	t.Setenv("LOG_PATH", "/tmp/relay.log")

	cfg, err := NewManager("", logx.Nop()).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.System.Port != 9090 {
		t.Fatalf("port = %d", cfg.System.Port)
	}
	if !cfg.System.Debug {
		t.Fatal("debug not set")
	}
	if cfg.System.LogPath != "/tmp/relay.log" {
		t.Fatalf("log path = %q", cfg.System.LogPath)
	}
	if cfg.Telegram.BotToken != "123:abc" || cfg.Telegram.ChatID != -100123456 {
		t.Fatalf("telegram config = %+v", cfg.Telegram)
	}
	if cfg.LogLevel() != "DEBUG" {
		t.Fatalf("level = %s", cfg.LogLevel())
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	cfg, err := NewManager("", logx.Nop()).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.System.Port != DefaultPort {
		t.Fatalf("port = %d, want %d", cfg.System.Port, DefaultPort)
	}
	if cfg.System.Debug {
		t.Fatal("debug should default to false")
	}
	if cfg.LogLevel() != "INFO" {
		t.Fatalf("level = %s", cfg.LogLevel())
	}
}

func TestLoadFailsFastWithoutCredentials(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	if _, err := NewManager("", logx.Nop()).Load(); err == nil {
		t.Fatal("expected startup failure without credentials")
	}
}

func TestLoadRejectsBadEnvValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "not-a-port")
	if _, err := NewManager("", logx.Nop()).Load(); err == nil {
		t.Fatal("expected error for invalid PORT")
	}

	t.Setenv("PORT", "8000")
	t.Setenv("TELEGRAM_CHAT_ID", "@channel")
	if _, err := NewManager("", logx.Nop()).Load(); err == nil {
		t.Fatal("expected error for non-numeric chat id")
	}
}

func TestDebugOnlyTrueEnables(t *testing.T) {
	setRequiredEnv(t)
	for _, v := range []string{"false", "0", "yes", "on"} {
		t.Setenv("DEBUG", v)
		cfg, err := NewManager("", logx.Nop()).Load()
		if err != nil {
			t.Fatalf("Load with DEBUG=%q: %v", v, err)
		}
		if cfg.System.Debug {
			t.Fatalf("DEBUG=%q must not enable debug", v)
		}
	}
	t.Setenv("DEBUG", "TRUE")
	cfg, err := NewManager("", logx.Nop()).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.System.Debug {
		t.Fatal("DEBUG=TRUE must enable debug")
	}
}

func TestLoadYAMLFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
system:
  port: 8080
  debug: true
telegram:
  bot_token: file-token
  chat_id: -200
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	// Leave everything else to the file. t.Setenv registers the restore,
	// Unsetenv clears the value for this test.
	for _, key := range []string{"TELEGRAM_CHAT_ID", "PORT", "DEBUG", "LOG_PATH"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := NewManager(path, logx.Nop()).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.BotToken != "env-token" {
		t.Fatalf("env must override file, got token %q", cfg.Telegram.BotToken)
	}
	if cfg.Telegram.ChatID != -200 {
		t.Fatalf("chat id = %d", cfg.Telegram.ChatID)
	}
	if cfg.System.Port != 8080 || !cfg.System.Debug {
		t.Fatalf("system config = %+v", cfg.System)
	}
}

func TestLoadRejectsUnknownFileKeys(t *testing.T) {
	setRequiredEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("bogus_section:\n  x: 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := NewManager(path, logx.Nop()).Load(); err == nil {
		t.Fatal("expected error for unknown config key")
	}
}

func TestSendTimeoutDuration(t *testing.T) {
	t.Parallel()
	tc := TelegramConfig{SendTimeout: "5s"}
	d, err := tc.SendTimeoutDuration()
	if err != nil || d.Seconds() != 5 {
		t.Fatalf("d = %v, err = %v", d, err)
	}
	if _, err := (TelegramConfig{SendTimeout: "nope"}).SendTimeoutDuration(); err == nil {
		t.Fatal("expected error for bad duration")
	}
	if d, err := (TelegramConfig{}).SendTimeoutDuration(); err != nil || d != 0 {
		t.Fatalf("empty timeout: d = %v, err = %v", d, err)
	}
}
