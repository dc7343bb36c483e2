package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Database *dbConfig
	Service  *svcConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"planner"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address        string `envconfig:"PLANNER_ADDRESS" default:":3443"`
	MetricsAddress string `envconfig:"PLANNER_METRICS_ADDRESS" default:":8080"`
	BaseUrl        string `envconfig:"PLANNER_BASE_URL" default:"https://localhost:3443"`
	LogLevel       string `envconfig:"PLANNER_LOG_LEVEL" default:"info"`
}

func New() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewDefault returns a config backed by an in-process sqlite database.
// Used by the store and service test suites.
func NewDefault() *Config {
	return &Config{
		Database: &dbConfig{
			Type: "sqlite",
			// Shared cache keeps every pooled connection on the same
			// in-memory database.
			Name: "file::memory:?cache=shared",
		},
		Service: &svcConfig{
			Address:  ":3443",
			LogLevel: "info",
		},
	}
}
