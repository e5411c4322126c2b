package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"formgate/submission/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfigDefaults(t *testing.T) {
	cfg, err := readConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.listenAddr)
	assert.Equal(t, infra.BackendTinyDB, cfg.storage.Backend)
	assert.Equal(t, "/tinydb/db.json", cfg.storage.FilePath)
	assert.Equal(t, "mytable", cfg.storage.FileTable)
	assert.Equal(t, []string{"https://yourfrontend.com"}, []string(cfg.origins))
	assert.Equal(t, infra.ProviderTelegram, cfg.notifier.Provider)
	assert.Equal(t, 10*time.Second, cfg.notifyTimeout)
	assert.True(t, cfg.rateEnabled)
	assert.Equal(t, "5 per 1 minute", cfg.rate.String())
	assert.Equal(t, 12*time.Second, cfg.retryAfter)
	assert.Equal(t, 100, cfg.concurrencyMax)
	assert.Equal(t, int64(10<<20), cfg.maxBodyBytes)
}

func TestReadConfigFromEnv(t *testing.T) {
	t.Setenv("DB_IMPLEMENTATION", "MongoDB")
	t.Setenv("MONGODB_URL", "mongodb://db:27017")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("NOTIFIERS_PROVIDER", "Webhook")
	t.Setenv("NOTIFIERS_TELEGRAM_CHAT_ID", "123, -456")
	t.Setenv("RATELIMIT", "10/hour")
	t.Setenv("RETRY_AFTER", "3s")

	cfg, err := readConfig()
	require.NoError(t, err)

	assert.Equal(t, infra.BackendMongoDB, cfg.storage.Backend)
	assert.Equal(t, "mongodb://db:27017", cfg.storage.MongoURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, []string(cfg.origins))
	assert.Equal(t, infra.ProviderWebhook, cfg.notifier.Provider)
	assert.Equal(t, []int64{123, -456}, cfg.notifier.TelegramChatIDs)
	assert.Equal(t, time.Hour, cfg.rate.Period)
	assert.Equal(t, 3*time.Second, cfg.retryAfter)
}

func TestReadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"backend desconhecido", "DB_IMPLEMENTATION", "sqlite"},
		{"rate inválido", "RATELIMIT", "five/minute"},
		{"chat id inválido", "NOTIFIERS_TELEGRAM_CHAT_ID", "abc"},
		{"bucket inválido", "RATE_STATS_BUCKET", "hour"},
		{"concorrência negativa", "CONCURRENCY_MAX", "-1"},
		{"corpo zero", "MAX_BODY_BYTES", "0"},
		{"sem origens", "CORS_ORIGINS", " , "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := readConfig()
			assert.Error(t, err)
		})
	}
}

func TestRedactedHidesSecrets(t *testing.T) {
	t.Setenv("NOTIFIERS_TELEGRAM_TOKEN", "bot-secret")
	t.Setenv("RATE_STATS_REDIS_PASSWORD", "hunter2")

	cfg, err := readConfig()
	require.NoError(t, err)

	out := map[string]string{}
	for _, kv := range cfg.redacted() {
		out[kv[0]] = kv[1]
	}
	assert.Equal(t, "<redacted>", out["NOTIFIERS_TELEGRAM_TOKEN"])
	assert.Equal(t, "<redacted>", out["RATE_STATS_REDIS_PASSWORD"])
	assert.Equal(t, "", out["NOTIFIERS_SLACK_TOKEN"])
	assert.Equal(t, "tinydb", out["DB_IMPLEMENTATION"])
}

func TestConfigCommand(t *testing.T) {
	t.Setenv("NOTIFIERS_DISCORD_TOKEN", "discord-secret")

	cmd := rootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"config", "--env-file", ""})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, buf.String(), "RATELIMIT=5 per 1 minute\n")
	assert.Contains(t, buf.String(), "NOTIFIERS_DISCORD_TOKEN=<redacted>\n")
	assert.NotContains(t, buf.String(), "discord-secret")
}

func TestConfigCommandInvalid(t *testing.T) {
	t.Setenv("DB_IMPLEMENTATION", "postgres")

	cmd := rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "--env-file", ""})
	assert.ErrorContains(t, cmd.Execute(), "unsupported DB implementation")
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("TINYDB_TABLE=fromfile\nTINYDB_PATH=/from/file.json\n"), 0o600))

	// o ambiente vence o arquivo
	t.Setenv("TINYDB_PATH", "/from/env.json")
	// t.Setenv registra a restauração; godotenv só define o que está vazio
	t.Setenv("TINYDB_TABLE", "")
	require.NoError(t, os.Unsetenv("TINYDB_TABLE"))

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "fromfile", os.Getenv("TINYDB_TABLE"))
	assert.Equal(t, "/from/env.json", os.Getenv("TINYDB_PATH"))

	assert.NoError(t, loadEnvFile(filepath.Join(dir, "missing.env")))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.input), tt.input)
	}
}

func TestSetupLoggerJSON(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := setupLogger(&buf, "warn", "JSON")
	logger.Info("dropped")
	logger.Warn("kept", "k", "v")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"msg":"kept"`)
}
