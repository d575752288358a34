package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"referral_leaderboard/internal/repository"
	"referral_leaderboard/internal/service"
	"referral_leaderboard/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
	envPrefix    = "APP"
)

const (
	backendPostgres  = "postgres"
	backendFirestore = "firestore"
	backendMemory    = "memory"
)

type Config struct {
	Server      ServerConfig               `yaml:"server"`
	Log         logger.Config              `yaml:"log"`
	Store       StoreConfig                `yaml:"store"`
	Database    repository.Config          `yaml:"database"`
	Firestore   repository.FirestoreConfig `yaml:"firestore"`
	Leaderboard LeaderboardConfig          `yaml:"leaderboard"`
	Snapshot    SnapshotConfig             `yaml:"snapshot"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type StoreConfig struct {
	Backend string        `yaml:"backend"`
	Timeout time.Duration `yaml:"timeout"`
}

type LeaderboardConfig struct {
	IncrementMode string `yaml:"incrementMode"`
}

type SnapshotConfig struct {
	RefreshInterval time.Duration `yaml:"refreshInterval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
	v.SetDefault("store.backend", backendPostgres)
	v.SetDefault("store.timeout", 10*time.Second)
	v.SetDefault("database.driver", "pgx")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "leaderboard")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.migrate", true)
	v.SetDefault("firestore.projectId", "")
	v.SetDefault("firestore.credentialsFile", "")
	v.SetDefault("firestore.emulatorHost", "")
	v.SetDefault("firestore.collection", "leaderboard")
	v.SetDefault("leaderboard.incrementMode", string(service.IncrementFromSnapshot))
	v.SetDefault("snapshot.refreshInterval", time.Duration(0))
}

// LoadConfig reads config.yaml from path when present. Every key can be
// overridden from the environment, e.g. APP_STORE_BACKEND or
// APP_FIRESTORE_PROJECTID; a .env file in the working directory is loaded
// first.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.AddConfigPath(path)
	v.SetConfigType(configFormat)

	v.AutomaticEnv()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case backendPostgres, backendMemory:
	case backendFirestore:
		if c.Firestore.ProjectID == "" {
			return fmt.Errorf("firestore.projectId is required for the firestore backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	if _, err := service.ParseIncrementMode(c.Leaderboard.IncrementMode); err != nil {
		return err
	}

	if c.Store.Timeout < 0 {
		return fmt.Errorf("store.timeout must not be negative")
	}

	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
