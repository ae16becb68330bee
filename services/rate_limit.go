package services

import (
	gocontext "context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/avesguide/academy_api/shared"
)

// RateLimitService applies fixed-window request limits backed by Redis, so
// limits hold across replicas.
type RateLimitService struct {
	context.DefaultService

	configs map[string]*RateLimitConfig
	mutex   sync.RWMutex

	redisSvc *RedisService
}

// RateLimitConfig represents one endpoint class's limit
type RateLimitConfig struct {
	EndpointType string
	MaxRequests  int
	WindowSize   time.Duration
	IsActive     bool
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *context.Context) error {
	svc.configs = make(map[string]*RateLimitConfig)
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.initDefaultConfigs()
	return nil
}

func (svc *RateLimitService) initDefaultConfigs() {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	svc.configs = map[string]*RateLimitConfig{
		"api_general": {
			EndpointType: "api_general",
			MaxRequests:  300,
			WindowSize:   time.Minute,
			IsActive:     true,
		},
		// Judged submissions; generous enough for rapid retries, tight
		// enough to stop scripted answer sweeps.
		"submit": {
			EndpointType: "submit",
			MaxRequests:  60,
			WindowSize:   time.Minute,
			IsActive:     true,
		},
		"upload": {
			EndpointType: "upload",
			MaxRequests:  20,
			WindowSize:   15 * time.Minute,
			IsActive:     true,
		},
	}
}

// IsAllowed counts the request against the identifier's fixed window and
// reports the remaining budget.
func (svc *RateLimitService) IsAllowed(ctx gocontext.Context, identifier, endpointType string) (bool, int, error) {
	svc.mutex.RLock()
	config, exists := svc.configs[endpointType]
	svc.mutex.RUnlock()

	if !exists || !config.IsActive {
		return true, -1, nil
	}

	window := time.Now().Unix() / int64(config.WindowSize.Seconds())
	key := fmt.Sprintf("ratelimit:%s:%s:%d", endpointType, identifier, window)

	count, err := svc.redisSvc.Increment(ctx, key)
	if err != nil {
		return false, 0, err
	}
	if count == 1 {
		// First hit in this window; let the key expire with it.
		if err := svc.redisSvc.Expire(ctx, key, config.WindowSize); err != nil {
			log.Printf("Failed to set rate limit expiry for %s: %v", key, err)
		}
	}

	remaining := config.MaxRequests - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return count <= int64(config.MaxRequests), remaining, nil
}

// ==================== MIDDLEWARE ====================

// RateLimit limits requests per client IP for the given endpoint class.
func (svc *RateLimitService) RateLimit(endpointType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := getClientIP(c)

		allowed, remaining, err := svc.IsAllowed(c.Context(), identifier, endpointType)
		if err != nil {
			log.Printf("Rate limit check error for %s (%s): %v", endpointType, identifier, err)
			// Fail open so a Redis outage never blocks learners.
			return c.Next()
		}

		svc.addRateLimitHeaders(c, endpointType, remaining)

		if !allowed {
			return shared.NewAppError(fiber.StatusTooManyRequests, "rate_limited", "Too many requests. Please slow down.")
		}

		return c.Next()
	}
}

// UserRateLimit limits by the authenticated user id, falling back to IP.
func (svc *RateLimitService) UserRateLimit(endpointType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := c.Get(shared.UserIDHeader)
		if identifier == "" {
			identifier = getClientIP(c)
		}

		allowed, remaining, err := svc.IsAllowed(c.Context(), identifier, endpointType)
		if err != nil {
			log.Printf("Rate limit check error for %s (%s): %v", endpointType, identifier, err)
			return c.Next()
		}

		svc.addRateLimitHeaders(c, endpointType, remaining)

		if !allowed {
			return shared.NewAppError(fiber.StatusTooManyRequests, "rate_limited", "Too many requests. Please slow down.")
		}

		return c.Next()
	}
}

func (svc *RateLimitService) addRateLimitHeaders(c *fiber.Ctx, endpointType string, remaining int) {
	if remaining < 0 {
		return
	}

	svc.mutex.RLock()
	config := svc.configs[endpointType]
	svc.mutex.RUnlock()

	c.Set("X-RateLimit-Limit", strconv.Itoa(config.MaxRequests))
	c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
}

func getClientIP(c *fiber.Ctx) string {
	forwarded := c.Get("X-Forwarded-For")
	if forwarded != "" {
		ips := strings.Split(forwarded, ",")
		if len(ips) > 0 {
			ip := strings.TrimSpace(ips[0])
			if ip != "" {
				return ip
			}
		}
	}

	realIP := c.Get("X-Real-IP")
	if realIP != "" {
		return realIP
	}

	cfIP := c.Get("CF-Connecting-IP")
	if cfIP != "" {
		return cfIP
	}

	ip, _, err := net.SplitHostPort(c.Context().RemoteAddr().String())
	if err != nil {
		return c.Context().RemoteAddr().String()
	}

	return ip
}
