package middleware

import (
	"net/http"
	"sync"
	"time"

	"Civilization/internal/shared/transport"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit 按客户端 IP 限流；limit<=0 时不限。
func RateLimit(limit float64, burst int) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}
	pool := NewLimiterPool(rate.Limit(limit), burst, 10*time.Minute)
	return func(c *gin.Context) {
		if !pool.Allow(c.ClientIP()) {
			transport.SetBizCode(c.Request.Context(), transport.RateLimited)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code": transport.RateLimited,
				"msg":  "请求过于频繁",
			})
			return
		}
		c.Next()
	}
}

type limiterEntry struct {
	limiter *rate.Limiter
	seen    time.Time
}

// LimiterPool 每个 key 一个令牌桶，超过 idle 未使用的桶会被回收。
type LimiterPool struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	idle    time.Duration
	entries map[string]*limiterEntry
	sweepAt time.Time
}

func NewLimiterPool(limit rate.Limit, burst int, idle time.Duration) *LimiterPool {
	return &LimiterPool{
		limit:   limit,
		burst:   burst,
		idle:    idle,
		entries: make(map[string]*limiterEntry),
	}
}

func (p *LimiterPool) Allow(key string) bool {
	now := time.Now()
	p.mu.Lock()
	e, ok := p.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(p.limit, p.burst)}
		p.entries[key] = e
	}
	e.seen = now
	if now.After(p.sweepAt) {
		p.sweep(now)
	}
	p.mu.Unlock()
	return e.limiter.AllowN(now, 1)
}

func (p *LimiterPool) sweep(now time.Time) {
	for k, e := range p.entries {
		if now.Sub(e.seen) > p.idle {
			delete(p.entries, k)
		}
	}
	p.sweepAt = now.Add(p.idle)
}
