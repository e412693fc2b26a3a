package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Config holds configuration for the rate limiter.
type Config struct {
	RequestsPerSecond float64
	BurstCapacity     int
	Enabled           bool
}

// bucketTTL is how long an idle bucket is kept, in Redis and in process.
const bucketTTL = 60 * time.Second

// Token bucket kept in a Redis hash {last_refill, tokens}. Runs atomically.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local requested = tonumber(ARGV[4])

	local bucket = redis.call('HMGET', key, 'last_refill', 'tokens')
	local last_refill = tonumber(bucket[1]) or now
	local tokens = tonumber(bucket[2]) or capacity

	local elapsed = math.max(0, now - last_refill)
	tokens = math.min(capacity, tokens + elapsed * rate)

	local allowed = 0
	if tokens >= requested then
		tokens = tokens - requested
		allowed = 1
	end

	redis.call('HSET', key, 'last_refill', tostring(now), 'tokens', tostring(tokens))
	redis.call('EXPIRE', key, ARGV[5])
	return allowed
`)

// Limiter is a per-key token bucket. The buckets live in Redis when a client
// is configured, so every instance shares them, and in process memory
// otherwise.
type Limiter struct {
	client *redis.Client
	config Config
	log    *zap.Logger
	now    func() time.Time

	mu        sync.Mutex
	local     map[string]*localBucket
	lastSweep time.Time
}

type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New creates a limiter. client may be nil.
func New(client *redis.Client, config Config, log *zap.Logger) *Limiter {
	return &Limiter{
		client: client,
		config: config,
		log:    log,
		now:    time.Now,
		local:  make(map[string]*localBucket),
	}
}

// Enabled reports whether requests should be limited at all. A nil limiter
// is disabled.
func (l *Limiter) Enabled() bool {
	return l != nil && l.config.Enabled
}

// RequestsPerSecond returns the configured refill rate.
func (l *Limiter) RequestsPerSecond() float64 {
	return l.config.RequestsPerSecond
}

// Allow reports whether one more request for key fits in its bucket.
// Redis errors fail open.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	if l.client == nil {
		return l.allowLocal(key)
	}

	now := float64(time.Now().UnixMicro()) / 1e6
	allowed, err := tokenBucketScript.Run(ctx, l.client, []string{"ratelimit:tb:" + key},
		l.config.RequestsPerSecond,
		l.config.BurstCapacity,
		now,
		1,
		int(bucketTTL.Seconds()),
	).Int64()
	if err != nil {
		l.log.Warn("rate limiter redis error, allowing request",
			zap.String("key", key),
			zap.Error(err),
		)
		return true
	}

	return allowed == 1
}

func (l *Limiter) allowLocal(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= bucketTTL {
		l.sweep(now)
	}

	b, ok := l.local[key]
	if !ok {
		b = &localBucket{limiter: rate.NewLimiter(rate.Limit(l.config.RequestsPerSecond), l.config.BurstCapacity)}
		l.local[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// sweep drops buckets idle for longer than bucketTTL. Caller holds mu.
func (l *Limiter) sweep(now time.Time) {
	for key, b := range l.local {
		if now.Sub(b.lastSeen) > bucketTTL {
			delete(l.local, key)
		}
	}
	l.lastSweep = now
}
