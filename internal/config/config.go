package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// MemoryDSN keeps all state in process memory; everything resets on
// restart. Point Database.Path at a file to opt in to persistence.
const MemoryDSN = "file::memory:?cache=shared"

type Config struct {
	Server struct {
		Port int
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret   string
		TokenExpiry time.Duration
	}
	Report struct {
		GenerateDelay time.Duration
	}
	Seed struct {
		Demo bool
	}
	Sync struct {
		Interval time.Duration
	}
	License struct {
		ScanInterval time.Duration
	}
	Notify struct {
		Slack struct {
			Token   string
			Channel string
		}
		Email struct {
			SMTPHost string
			SMTPPort int
			From     string
			Password string
		}
	}
}

// Load reads config.yaml from the working directory, falling back to
// defaults when the file is absent.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("database.path", MemoryDSN)
	viper.SetDefault("auth.jwtsecret", "nexus-dev-secret")
	viper.SetDefault("auth.tokenexpiry", 24*time.Hour)
	viper.SetDefault("report.generatedelay", 2*time.Second)
	viper.SetDefault("seed.demo", true)
	viper.SetDefault("sync.interval", 24*time.Hour)
	viper.SetDefault("license.scaninterval", 12*time.Hour)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
