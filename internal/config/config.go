// Package config loads kenbun settings from an optional file and KENBUN_*
// environment variables.
//
// Nested keys are joined with "__" in the environment:
//
//	KENBUN_STORAGE__KIND=postgres
//	KENBUN_STORAGE__POSTGRES__PASSWORD=secret
//	KENBUN_LOGGING__LEVEL=debug
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/kenbun-app/kenbundata/internal/logging"
	"github.com/kenbun-app/kenbundata/internal/storage"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "KENBUN"

// Config is the full application configuration.
type Config struct {
	Storage storage.Config
	Logging logging.Config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.kind", string(storage.KindLocalFile))
	v.SetDefault("storage.local.path", "./data")

	v.SetDefault("storage.postgres.host", "db")
	v.SetDefault("storage.postgres.port", 5432)
	v.SetDefault("storage.postgres.username", "postgres")
	v.SetDefault("storage.postgres.password", "")
	v.SetDefault("storage.postgres.database", "postgres")
	v.SetDefault("storage.postgres.sslmode", "")
	v.SetDefault("storage.postgres.dsn", "")

	v.SetDefault("storage.sqlite.path", "./kenbun.db")

	def := logging.DefaultConfig()
	v.SetDefault("logging.level", def.Level)
	v.SetDefault("logging.format", def.Format)
	v.SetDefault("logging.output", def.Output)
}

// Load reads path (any format viper supports; skipped when empty), then
// applies environment overrides. Every call builds a fresh viper instance.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	st, err := getStorageConfig(v)
	if err != nil {
		return nil, err
	}
	return &Config{
		Storage: st,
		Logging: getLoggingConfig(v),
	}, nil
}

func getStorageConfig(v *viper.Viper) (storage.Config, error) {
	kind, err := storage.ParseKind(v.GetString("storage.kind"))
	if err != nil {
		return storage.Config{}, errors.Wrap(err, "invalid storage.kind")
	}
	return storage.Config{
		Kind: kind,
		Local: storage.LocalConfig{
			Path: v.GetString("storage.local.path"),
		},
		Postgres: storage.PostgresConfig{
			Host:     v.GetString("storage.postgres.host"),
			Port:     v.GetInt("storage.postgres.port"),
			Username: v.GetString("storage.postgres.username"),
			Password: v.GetString("storage.postgres.password"),
			Database: v.GetString("storage.postgres.database"),
			SSLMode:  v.GetString("storage.postgres.sslmode"),
			DSN:      v.GetString("storage.postgres.dsn"),
		},
		SQLite: storage.SQLiteConfig{
			Path: v.GetString("storage.sqlite.path"),
		},
	}, nil
}

func getLoggingConfig(v *viper.Viper) logging.Config {
	return logging.Config{
		Level:  v.GetString("logging.level"),
		Format: v.GetString("logging.format"),
		Output: v.GetString("logging.output"),
	}
}
