package middlewares

import (
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/5w1tchy/library-api/internal/metrics"
)

// KeyFunc picks the bucket a request is counted against.
type KeyFunc func(r *http.Request) string

// PerIPKey counts requests per client IP. Forwarding headers are only
// believed when the direct peer is one of trusted.
func PerIPKey(prefix string, trusted []netip.Prefix) KeyFunc {
	return func(r *http.Request) string {
		ip := clientIP(r, trusted)
		if ip == "" {
			ip = "unknown"
		}
		return prefix + ":" + ip
	}
}

// clientIP returns the connecting peer unless it is a trusted proxy. Then
// X-Forwarded-For is walked from the right and the first hop that is not a
// trusted proxy wins; X-Real-IP is the fallback.
func clientIP(r *http.Request, trusted []netip.Prefix) string {
	peer := r.RemoteAddr
	if host, _, err := net.SplitHostPort(peer); err == nil {
		peer = host
	}
	if !isTrusted(peer, trusted) {
		return peer
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop != "" && !isTrusted(hop, trusted) {
				return hop
			}
		}
		if first := strings.TrimSpace(hops[0]); first != "" {
			return first
		}
	}
	if xrip := strings.TrimSpace(r.Header.Get("X-Real-IP")); xrip != "" {
		return xrip
	}
	return peer
}

func isTrusted(ip string, trusted []netip.Prefix) bool {
	if len(trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// limiter holds what both Redis limiters share. Redis failures let the
// request through.
type limiter struct {
	rdb    redis.Cmdable
	keyFn  KeyFunc
	log    zerolog.Logger
	hits   *metrics.Collector
	policy string
}

func (l limiter) block(w http.ResponseWriter, r *http.Request, key string, retrySec int64) {
	w.Header().Set("Retry-After", strconv.FormatInt(retrySec, 10))
	l.log.Warn().Str("policy", l.policy).Str("key", key).Int64("retry_after_s", retrySec).
		Str("request_id", GetRequestID(r)).Msg("rate limited")
	if l.hits != nil {
		l.hits.RateLimitHits.WithLabelValues(l.policy).Inc()
	}
	http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
}

func (l limiter) failOpen(err error) {
	l.log.Error().Err(err).Str("policy", l.policy).Msg("rate limiter unavailable, allowing request")
}

// --------- Token Bucket (Redis + Lua) ---------

const tokenBucketLua = `
-- KEYS[1] = bucket hash {tokens, ts}; ARGV[1] = rate/s; ARGV[2] = capacity
-- returns {allowed, remaining, retry_after_ms}
local key  = KEYS[1]
local rate = tonumber(ARGV[1])
local cap  = tonumber(ARGV[2])

local t = redis.call('TIME')
local now_ms = (tonumber(t[1]) * 1000) + math.floor(tonumber(t[2]) / 1000)

local data = redis.call('HMGET', key, 'tokens', 'ts')
local tokens = tonumber(data[1])
local ts     = tonumber(data[2])
if tokens == nil then
  tokens = cap
  ts = now_ms
end

local delta_ms = now_ms - ts
if delta_ms > 0 then
  tokens = math.min(cap, tokens + (delta_ms / 1000.0) * rate)
end

local allowed = 0
local retry_after_ms = 0
if tokens >= 1.0 then
  tokens = tokens - 1.0
  allowed = 1
else
  retry_after_ms = math.ceil((1.0 - tokens) * 1000.0 / rate)
end

redis.call('HSET', key, 'tokens', tokens, 'ts', now_ms)
redis.call('PEXPIRE', key, math.ceil((cap / rate) * 1000.0))
return {allowed, math.floor(tokens), retry_after_ms}
`

type RedisTokenBucket struct {
	limiter
	ratePerS float64
	burst    int
	script   *redis.Script
}

func NewRedisTokenBucket(rdb redis.Cmdable, ratePerSecond float64, burst int, keyFn KeyFunc, log zerolog.Logger, m *metrics.Collector) *RedisTokenBucket {
	return &RedisTokenBucket{
		limiter:  limiter{rdb: rdb, keyFn: keyFn, log: log, hits: m, policy: "token-bucket"},
		ratePerS: ratePerSecond,
		burst:    burst,
		script:   redis.NewScript(tokenBucketLua),
	}
}

func (tb *RedisTokenBucket) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := tb.keyFn(r)
		res, err := tb.script.Run(r.Context(), tb.rdb, []string{key},
			strconv.FormatFloat(tb.ratePerS, 'f', -1, 64),
			strconv.Itoa(tb.burst),
		).Int64Slice()
		if err != nil || len(res) != 3 {
			tb.failOpen(err)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Policy", tb.policy)
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(tb.burst))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res[1], 10))

		if res[0] != 1 {
			tb.block(w, r, key, max((res[2]+999)/1000, 1))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --------- Sliding Window (Redis ZSET) ---------

type RedisSlidingWindow struct {
	limiter
	limit  int
	window time.Duration
}

func NewRedisSlidingWindow(rdb redis.Cmdable, limit int, window time.Duration, keyFn KeyFunc, log zerolog.Logger, m *metrics.Collector) *RedisSlidingWindow {
	return &RedisSlidingWindow{
		limiter: limiter{rdb: rdb, keyFn: keyFn, log: log, hits: m, policy: "sliding-window"},
		limit:   limit,
		window:  window,
	}
}

func (sw *RedisSlidingWindow) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := time.Now()
		key := sw.keyFn(r)
		windowMs := sw.window.Milliseconds()

		pipe := sw.rdb.TxPipeline()
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixMilli()), Member: strconv.FormatInt(now.UnixNano(), 36)})
		pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(now.UnixMilli()-windowMs, 10))
		countCmd := pipe.ZCard(ctx, key)
		pipe.PExpire(ctx, key, sw.window+time.Second)
		if _, err := pipe.Exec(ctx); err != nil {
			sw.failOpen(err)
			next.ServeHTTP(w, r)
			return
		}
		count := int(countCmd.Val())

		w.Header().Set("X-RateLimit-Policy", sw.policy)
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(sw.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, sw.limit-count)))

		if count > sw.limit {
			var retrySec int64 = 1
			if oldest, err := sw.rdb.ZRangeWithScores(ctx, key, 0, 0).Result(); err == nil && len(oldest) == 1 {
				ms := max(int64(oldest[0].Score)+windowMs-now.UnixMilli(), 1000)
				retrySec = (ms + 999) / 1000
			}
			sw.block(w, r, key, retrySec)
			return
		}
		next.ServeHTTP(w, r)
	})
}
