package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/aussiebroadwan/expenseflow/pkg/httpx"
)

// Key storage modes.
const (
	KeyStoragePersistent = "persistent"
	KeyStorageEphemeral  = "ephemeral"
)

type Config struct {
	Issuer         string        `env:"EXPENSE_ISSUER,           default=expenseflow"`
	DatabaseFile   string        `env:"EXPENSE_DATABASE_FILE,    default=expenseflow.db"`
	KeyStorageMode string        `env:"EXPENSE_KEY_STORAGE_MODE, default=persistent"`
	MasterKey      string        `env:"EXPENSE_MASTER_KEY"` // takes precedence over MasterKeyFile
	MasterKeyFile  string        `env:"EXPENSE_MASTER_KEY_FILE,  default=master.key"`
	NumKeys        int           `env:"EXPENSE_NUM_KEYS,         default=1"`
	KeyGracePeriod time.Duration `env:"EXPENSE_KEY_GRACE_PERIOD, default=720h"`

	// SessionTTL bounds session age; zero keeps sessions until logout.
	SessionTTL   time.Duration `env:"SESSION_TTL,   default=0s"`
	CookieSecure bool          `env:"COOKIE_SECURE, default=false"`

	Env                  string        `env:"ENV,                   default=dev"`
	LogLevel             string        `env:"LOG_LEVEL,             default=info"`
	LogFormat            string        `env:"LOG_FORMAT,            default=json"`
	Port                 int           `env:"PORT,                  default=8080"`
	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD, default=10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL, default=1h"`

	RateLimitStrict   RateLimitOverride `env:", prefix=RATELIMIT_STRICT_"`
	RateLimitModerate RateLimitOverride `env:", prefix=RATELIMIT_MODERATE_"`
	RateLimitLenient  RateLimitOverride `env:", prefix=RATELIMIT_LENIENT_"`
	RateLimitPublic   RateLimitOverride `env:", prefix=RATELIMIT_PUBLIC_"`
}

// RateLimitOverride replaces fields of a default rate limit profile. Unset
// or non-positive fields keep the default.
type RateLimitOverride struct {
	Requests  int `env:"REQUESTS"`
	WindowSec int `env:"WINDOW_SEC"`
	Burst     int `env:"BURST"`
}

func (o RateLimitOverride) apply(def httpx.RateLimitConfig) httpx.RateLimitConfig {
	return def.Override(o.Requests, o.WindowSec, o.Burst)
}

// RateLimits returns the default profiles with the configured overrides.
func (c Config) RateLimits() httpx.RateLimitProfiles {
	p := httpx.DefaultRateLimitProfiles()
	return httpx.RateLimitProfiles{
		Strict:   c.RateLimitStrict.apply(p.Strict),
		Moderate: c.RateLimitModerate.apply(p.Moderate),
		Lenient:  c.RateLimitLenient.apply(p.Lenient),
		Public:   c.RateLimitPublic.apply(p.Public),
	}
}

// LoadConfig reads the configuration from the process environment.
func LoadConfig() (Config, error) {
	return loadConfig(context.Background(), envconfig.OsLookuper())
}

func loadConfig(ctx context.Context, l envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	switch cfg.KeyStorageMode {
	case KeyStoragePersistent, KeyStorageEphemeral:
	default:
		return Config{}, fmt.Errorf("load config: EXPENSE_KEY_STORAGE_MODE must be %q or %q, got %q",
			KeyStoragePersistent, KeyStorageEphemeral, cfg.KeyStorageMode)
	}
	if cfg.SessionTTL < 0 {
		return Config{}, fmt.Errorf("load config: SESSION_TTL must not be negative")
	}

	return cfg, nil
}
