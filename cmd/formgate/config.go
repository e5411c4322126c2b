package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	rldomain "formgate/middleware/ratelimit/domain"
	rlinfra "formgate/middleware/ratelimit/infra"
	"formgate/submission"
	"formgate/submission/domain"
	"formgate/submission/infra"
)

// config é montada uma vez na inicialização e não muda depois.
type config struct {
	listenAddr   string
	logLevel     string
	logFormat    string
	maxBodyBytes int64

	storage infra.StorageConfig
	origins domain.AllowList

	notifier      infra.NotifierConfig
	notifyTimeout time.Duration

	rateEnabled        bool
	rate               rldomain.Rate
	rateKeyHeader      string
	trustXFF           bool
	retryAfter         time.Duration
	addHeaders         bool
	concurrencyMax     int
	concurrencyTimeout time.Duration

	rateStatsEnabled       bool
	rateStatsRedisAddr     string
	rateStatsRedisPassword string
	rateStatsRedisDB       int
	rateStatsPrefix        string
	rateStatsTTL           time.Duration
	rateStatsBucket        string
	rateStatsTrackKeys     bool
}

func readConfig() (config, error) {
	cfg := config{}
	cfg.listenAddr = getenvDefault("LISTEN_ADDR", ":8000")
	cfg.logLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.logFormat = getenvDefault("LOG_FORMAT", "text")
	cfg.maxBodyBytes = int64(getenvIntDefault("MAX_BODY_BYTES", submission.DefaultMaxBodyBytes))

	backend, err := infra.ParseBackend(getenvDefault("DB_IMPLEMENTATION", infra.BackendTinyDB))
	if err != nil {
		return config{}, err
	}
	cfg.storage = infra.StorageConfig{
		Backend:         backend,
		FilePath:        getenvDefault("TINYDB_PATH", "/tinydb/db.json"),
		FileTable:       getenvDefault("TINYDB_TABLE", "mytable"),
		MongoURL:        getenvDefault("MONGODB_URL", "mongodb://localhost:27017"),
		MongoDatabase:   getenvDefault("MONGODB_DB", "mydatabase"),
		MongoCollection: getenvDefault("MONGODB_COLLECTION", "mycollection"),
		ConnectTimeout:  getenvDurationDefault("MONGODB_CONNECT_TIMEOUT", 5*time.Second),
	}

	cfg.origins = domain.ParseAllowList(getenvDefault("CORS_ORIGINS", "https://yourfrontend.com"))

	chatIDs, err := parseChatIDs(os.Getenv("NOTIFIERS_TELEGRAM_CHAT_ID"))
	if err != nil {
		return config{}, err
	}
	cfg.notifier = infra.NotifierConfig{
		Provider:          strings.ToLower(getenvDefault("NOTIFIERS_PROVIDER", infra.ProviderTelegram)),
		TelegramToken:     os.Getenv("NOTIFIERS_TELEGRAM_TOKEN"),
		TelegramChatIDs:   chatIDs,
		SlackToken:        os.Getenv("NOTIFIERS_SLACK_TOKEN"),
		SlackChannels:     splitList(os.Getenv("NOTIFIERS_SLACK_CHANNEL")),
		DiscordToken:      os.Getenv("NOTIFIERS_DISCORD_TOKEN"),
		DiscordChannels:   splitList(os.Getenv("NOTIFIERS_DISCORD_CHANNEL")),
		WebhookURL:        os.Getenv("NOTIFIERS_WEBHOOK_URL"),
		WebhookAuthHeader: os.Getenv("NOTIFIERS_WEBHOOK_AUTH_HEADER"),
		WebhookAuthValue:  os.Getenv("NOTIFIERS_WEBHOOK_AUTH_VALUE"),
	}
	cfg.notifyTimeout = getenvDurationDefault("NOTIFY_TIMEOUT", 10*time.Second)

	cfg.rateEnabled = getenvBoolDefault("RATE_ENABLED", true)
	cfg.rate, err = rldomain.ParseRate(getenvDefault("RATELIMIT", "5/minute"))
	if err != nil {
		return config{}, fmt.Errorf("RATELIMIT: %w", err)
	}
	cfg.rateKeyHeader = os.Getenv("RATE_KEY_HEADER")
	cfg.trustXFF = getenvBoolDefault("TRUST_XFF", false)
	cfg.retryAfter = getenvDurationDefault("RETRY_AFTER", cfg.rate.RetryAfter())
	cfg.addHeaders = getenvBoolDefault("ADD_RATELIMIT_HEADERS", false)
	cfg.concurrencyMax = getenvIntDefault("CONCURRENCY_MAX", 100)
	cfg.concurrencyTimeout = getenvDurationDefault("CONCURRENCY_TIMEOUT", 0)

	cfg.rateStatsEnabled = getenvBoolDefault("RATE_STATS_ENABLED", false)
	cfg.rateStatsRedisAddr = getenvDefault("RATE_STATS_REDIS_ADDR", "")
	cfg.rateStatsRedisPassword = os.Getenv("RATE_STATS_REDIS_PASSWORD")
	cfg.rateStatsRedisDB = getenvIntDefault("RATE_STATS_REDIS_DB", 0)
	cfg.rateStatsPrefix = getenvDefault("RATE_STATS_PREFIX", "formgate:ratelimit")
	cfg.rateStatsTTL = getenvDurationDefault("RATE_STATS_TTL", 24*time.Hour)
	cfg.rateStatsBucket = strings.ToLower(getenvDefault("RATE_STATS_BUCKET", rlinfra.BucketMinute))
	cfg.rateStatsTrackKeys = getenvBoolDefault("RATE_STATS_TRACK_KEYS", false)

	if cfg.rateStatsBucket != rlinfra.BucketMinute && cfg.rateStatsBucket != rlinfra.BucketNone {
		return config{}, fmt.Errorf("RATE_STATS_BUCKET must be %q or %q", rlinfra.BucketMinute, rlinfra.BucketNone)
	}
	if len(cfg.origins) == 0 {
		return config{}, errors.New("CORS_ORIGINS must list at least one origin")
	}
	if cfg.storage.Backend == infra.BackendMongoDB && strings.TrimSpace(cfg.storage.MongoURL) == "" {
		return config{}, errors.New("MONGODB_URL is required when DB_IMPLEMENTATION=mongodb")
	}
	if cfg.concurrencyMax < 0 {
		return config{}, errors.New("CONCURRENCY_MAX must be >= 0")
	}
	if cfg.maxBodyBytes <= 0 {
		return config{}, errors.New("MAX_BODY_BYTES must be > 0")
	}
	return cfg, nil
}

// redacted lista a configuração efetiva sem segredos, na ordem de exibição.
func (c config) redacted() [][2]string {
	secret := func(s string) string {
		if s == "" {
			return ""
		}
		return "<redacted>"
	}
	return [][2]string{
		{"LISTEN_ADDR", c.listenAddr},
		{"LOG_LEVEL", c.logLevel},
		{"LOG_FORMAT", c.logFormat},
		{"MAX_BODY_BYTES", strconv.FormatInt(c.maxBodyBytes, 10)},
		{"DB_IMPLEMENTATION", c.storage.Backend},
		{"TINYDB_PATH", c.storage.FilePath},
		{"TINYDB_TABLE", c.storage.FileTable},
		{"MONGODB_URL", secret(c.storage.MongoURL)},
		{"MONGODB_DB", c.storage.MongoDatabase},
		{"MONGODB_COLLECTION", c.storage.MongoCollection},
		{"CORS_ORIGINS", strings.Join(c.origins, ",")},
		{"NOTIFIERS_PROVIDER", c.notifier.Provider},
		{"NOTIFIERS_TELEGRAM_TOKEN", secret(c.notifier.TelegramToken)},
		{"NOTIFIERS_SLACK_TOKEN", secret(c.notifier.SlackToken)},
		{"NOTIFIERS_DISCORD_TOKEN", secret(c.notifier.DiscordToken)},
		{"NOTIFIERS_WEBHOOK_URL", c.notifier.WebhookURL},
		{"NOTIFIERS_WEBHOOK_AUTH_HEADER", c.notifier.WebhookAuthHeader},
		{"NOTIFIERS_WEBHOOK_AUTH_VALUE", secret(c.notifier.WebhookAuthValue)},
		{"NOTIFY_TIMEOUT", c.notifyTimeout.String()},
		{"RATE_ENABLED", strconv.FormatBool(c.rateEnabled)},
		{"RATELIMIT", c.rate.String()},
		{"RETRY_AFTER", c.retryAfter.String()},
		{"CONCURRENCY_MAX", strconv.Itoa(c.concurrencyMax)},
		{"RATE_STATS_ENABLED", strconv.FormatBool(c.rateStatsEnabled)},
		{"RATE_STATS_REDIS_ADDR", c.rateStatsRedisAddr},
		{"RATE_STATS_REDIS_PASSWORD", secret(c.rateStatsRedisPassword)},
	}
}

func parseChatIDs(v string) ([]int64, error) {
	var ids []int64
	for _, s := range splitList(v) {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("NOTIFIERS_TELEGRAM_CHAT_ID: invalid chat id %q", s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
