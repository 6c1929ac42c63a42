// internal/workers/notification/notification-stats/config.go
package notificationstats

import (
	"fmt"
	"time"

	"estate-workers/internal/common/config"
)

type Config struct {
	Timeout  time.Duration
	CacheTTL time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:  10 * time.Second,
		CacheTTL: 30 * time.Second,
	}
}

// LoadConfig merges the worker block with notifications.stats_cache_ttl.
func LoadConfig(wc config.WorkerConfig, cacheTTLSeconds int) *Config {
	cfg := DefaultConfig()
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	if cacheTTLSeconds > 0 {
		cfg.CacheTTL = time.Duration(cacheTTLSeconds) * time.Second
	}
	return cfg
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must not be negative")
	}
	return nil
}
