package config

import (
	"net"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const defaultBaseURL = "https://fcafines.memaconsultants.com"

type Server struct {
	Host        string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port        string `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout int    `envconfig:"SERVER_TIMEOUT" default:"10"`
}

type Db struct {
	Dialect        string `envconfig:"DB_DIALECT" default:"postgres"`
	URL            string `envconfig:"DATABASE_URL" required:"true"`
	MigrationsPath string `envconfig:"DB_MIGRATIONS_DIR" default:"./migrations"`
}

type Redis struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type Stats struct {
	CacheTTL      time.Duration `envconfig:"STATS_CACHE_TTL" default:"5m"`
	SharedMaxAge  int           `envconfig:"STATS_SHARED_MAX_AGE" default:"600"`
	BrowserMaxAge int           `envconfig:"STATS_BROWSER_MAX_AGE" default:"300"`
}

type Digest struct {
	SweepSchedule string        `envconfig:"DIGEST_SWEEP_SCHEDULE" default:"0 */6 * * *"`
	SweepGrace    time.Duration `envconfig:"DIGEST_SWEEP_GRACE" default:"168h"`
}

type Config struct {
	BaseURL  string `envconfig:"BASE_URL"`
	LogsPath string `envconfig:"LOGS_PATH" default:"logs/fines-api.log"`

	Server Server
	DB     Db
	Redis  Redis
	Stats  Stats
	Digest Digest
}

func NewConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &cfg, nil
}

func (c *Config) ServerAddress() string {
	return net.JoinHostPort(c.Server.Host, c.Server.Port)
}

// CacheEnabled reports whether a Redis address was configured.
func (c *Config) CacheEnabled() bool {
	return c.Redis.Addr != ""
}
