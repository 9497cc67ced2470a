package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"financeirox/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const msgTooManyAttempts = "Muitas tentativas de login. Tente novamente em instantes."

var redisClient *redis.Client

// InitRedisRateLimiter conecta o redis compartilhado pelos limitadores.
// Endereço vazio ou ping com falha mantém o limitador em memória.
func InitRedisRateLimiter(addr, password string, db int) {
	if addr == "" {
		return
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Log.WithError(err).WithField("addr", addr).Warn("redis indisponível, rate limit em memória")
		_ = client.Close()
		return
	}
	redisClient = client
	logger.Log.WithField("addr", addr).Info("rate limit usando redis")
}

// CloseRedis encerra a conexão no shutdown
func CloseRedis() {
	if redisClient != nil {
		_ = redisClient.Close()
		redisClient = nil
	}
}

// memoryLimiter janela deslizante por chave, protegida por mutex
type memoryLimiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	store  map[string][]time.Time
}

func newMemoryLimiter(max int, window time.Duration) *memoryLimiter {
	return &memoryLimiter{max: max, window: window, store: make(map[string][]time.Time)}
}

func (m *memoryLimiter) allow(key string, now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	ts := prune(m.store[key], now.Add(-m.window))
	if len(ts) >= m.max {
		m.store[key] = ts
		return false
	}
	m.store[key] = append(ts, now)
	return true
}

func (m *memoryLimiter) cleanup(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := now.Add(-m.window)
	for key, ts := range m.store {
		ts = prune(ts, cutoff)
		if len(ts) == 0 {
			delete(m.store, key)
		} else {
			m.store[key] = ts
		}
	}
}

func prune(ts []time.Time, cutoff time.Time) []time.Time {
	kept := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// redisAllow janela fixa com INCR/EXPIRE; chave rl:login:<janela>:<ip>
func redisAllow(ctx context.Context, client *redis.Client, ident string, max int, window time.Duration) (bool, error) {
	key := "rl:login:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + ident
	n, err := client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := client.Expire(ctx, key, window).Err(); err != nil {
			// chave sem TTL não pode ficar para trás
			client.Del(ctx, key)
			return false, err
		}
	}
	return n <= int64(max), nil
}

// LoginRateLimit limita tentativas de login por IP (429 ao exceder).
// Usa redis quando configurado; erro no redis cai para o limitador em memória.
func LoginRateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	mem := newMemoryLimiter(maxAttempts, window)
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for now := range ticker.C {
			mem.cleanup(now)
		}
	}()

	return func(c *gin.Context) {
		ip := c.ClientIP()
		allowed := false
		decided := false

		if client := redisClient; client != nil {
			ok, err := redisAllow(c.Request.Context(), client, ip, maxAttempts, window)
			if err != nil {
				c.Header("X-RateLimit-Error", "redis-error")
				logger.Log.WithError(err).Warn("falha no rate limit redis, usando memória")
			} else {
				allowed, decided = ok, true
			}
		}
		if !decided {
			allowed = mem.allow(ip, time.Now())
		}

		if !allowed {
			LoginRateLimited.Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": msgTooManyAttempts,
			})
			return
		}
		c.Next()
	}
}
