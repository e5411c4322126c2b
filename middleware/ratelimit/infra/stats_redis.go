package infra

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"formgate/middleware/ratelimit/domain"

	"github.com/redis/go-redis/v9"
)

const (
	BucketMinute = "minute"
	BucketNone   = "none"
)

// RedisStatsStore grava contadores de decisões em hashes do Redis:
//
//	<prefix>:total               allowed/denied, cumulativo, sem TTL
//	<prefix>:minute:<YYYYMMDDhhmm> allowed/denied por minuto (com TTL)
//	<prefix>:route               "<METHOD> <path>:<outcome>"
//	<prefix>:key:<client>         allowed/denied por cliente (opcional, com TTL)
type RedisStatsStore struct {
	rdb redis.UniversalClient

	prefix    string
	ttl       time.Duration
	bucket    string
	trackKeys bool
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) {
		if p := strings.Trim(prefix, ":"); p != "" {
			s.prefix = p
		}
	}
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func WithStatsTrackKeys(track bool) RedisStatsOption {
	return func(s *RedisStatsStore) { s.trackKeys = track }
}

func NewRedisStatsStore(rdb redis.UniversalClient, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "formgate:ratelimit",
		ttl:    24 * time.Hour,
		bucket: BucketMinute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	field := ev.Outcome()

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.totalKey(), field, 1)

	if s.bucket == BucketMinute {
		bucketKey := s.minuteKey(at)
		pipe.HIncrBy(ctx, bucketKey, field, 1)
		if s.ttl > 0 {
			pipe.Expire(ctx, bucketKey, s.ttl)
		}
	}

	if route := ev.Route(); route != "" {
		pipe.HIncrBy(ctx, s.prefix+":route", route+":"+field, 1)
	}

	if s.trackKeys {
		if k := strings.TrimSpace(string(ev.Key)); k != "" {
			keyKey := s.prefix + ":key:" + k
			pipe.HIncrBy(ctx, keyKey, field, 1)
			if s.ttl > 0 {
				pipe.Expire(ctx, keyKey, s.ttl)
			}
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis stats: %w", err)
	}
	return nil
}

// Total lê os contadores cumulativos.
func (s *RedisStatsStore) Total(ctx context.Context) (Counters, error) {
	vals, err := s.rdb.HGetAll(ctx, s.totalKey()).Result()
	if err != nil {
		return Counters{}, fmt.Errorf("redis stats: %w", err)
	}
	var c Counters
	c.Allowed, _ = strconv.ParseInt(vals["allowed"], 10, 64)
	c.Denied, _ = strconv.ParseInt(vals["denied"], 10, 64)
	return c, nil
}

func (s *RedisStatsStore) totalKey() string { return s.prefix + ":total" }

func (s *RedisStatsStore) minuteKey(at time.Time) string {
	return fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
}
