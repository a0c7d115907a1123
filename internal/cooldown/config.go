package cooldown

import "time"

// Config holds cooldown tracker configuration
type Config struct {
	// DevMode bypasses all cooldown checks when true. Events are still recorded.
	DevMode bool

	// Redis backend only
	RedisPrefix string
	Retention   time.Duration
}

func (c Config) redisPrefix() string {
	if c.RedisPrefix == "" {
		return DefaultRedisPrefix
	}
	return c.RedisPrefix
}

func (c Config) retention() time.Duration {
	if c.Retention <= 0 {
		return DefaultRetention
	}
	return c.Retention
}
