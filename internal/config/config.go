package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/curtaincall/curtaincall-server-go/internal/game/state"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CURTAINCALL_ENGINE_HAND_SIZE.
const EnvPrefix = "CURTAINCALL"

// MaxDifficulty bounds the configured difficulty level.
const MaxDifficulty = 20

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Config is the server configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Content ContentConfig `mapstructure:"content"`
	Storage StorageConfig `mapstructure:"storage"`
	Replay  ReplayConfig  `mapstructure:"replay"`
	Server  ServerConfig  `mapstructure:"server"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EngineConfig sizes new combats.
type EngineConfig struct {
	HandSize     int    `mapstructure:"hand_size"`
	MaxEnergy    int    `mapstructure:"max_energy"`
	MacGuffinHP  int    `mapstructure:"macguffin_hp"`
	CharacterAHP int    `mapstructure:"character_a_hp"`
	CharacterBHP int    `mapstructure:"character_b_hp"`
	Seed         uint64 `mapstructure:"seed"` // 0 picks a random seed per combat
	Difficulty   int    `mapstructure:"difficulty"`
}

// Session converts the engine section into session sizing.
func (c EngineConfig) Session() state.Config {
	return state.Config{
		HandSize:     c.HandSize,
		MaxEnergy:    c.MaxEnergy,
		MacGuffinHP:  c.MacGuffinHP,
		CharacterAHP: c.CharacterAHP,
		CharacterBHP: c.CharacterBHP,
	}
}

// ContentConfig points at a content directory. An empty path uses the
// embedded content.
type ContentConfig struct {
	Path string `mapstructure:"path"`
}

// StorageConfig selects the snapshot store.
type StorageConfig struct {
	Driver   string         `mapstructure:"driver"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// RedisConfig configures the redis snapshot store.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// PostgresConfig configures the postgres snapshot store.
type PostgresConfig struct {
	DSN      string `mapstructure:"dsn"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// ReplayConfig controls replay recording. An empty directory disables it.
type ReplayConfig struct {
	Dir string `mapstructure:"dir"`
}

// ServerConfig holds listen addresses.
type ServerConfig struct {
	GRPCAddr      string        `mapstructure:"grpc_addr"`
	WebSocketAddr string        `mapstructure:"websocket_addr"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
}

func setDefaults(v *viper.Viper) {
	d := state.DefaultConfig()
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("engine.hand_size", d.HandSize)
	v.SetDefault("engine.max_energy", d.MaxEnergy)
	v.SetDefault("engine.macguffin_hp", d.MacGuffinHP)
	v.SetDefault("engine.character_a_hp", d.CharacterAHP)
	v.SetDefault("engine.character_b_hp", d.CharacterBHP)
	v.SetDefault("engine.seed", 0)
	v.SetDefault("engine.difficulty", 0)

	v.SetDefault("content.path", "")

	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.ttl", 24*time.Hour)
	v.SetDefault("storage.postgres.max_conns", 10)

	v.SetDefault("replay.dir", "")

	v.SetDefault("server.grpc_addr", ":50051")
	v.SetDefault("server.websocket_addr", ":8080")
	v.SetDefault("server.session_ttl", 2*time.Hour)
}

// Load reads the YAML file at path, overlays CURTAINCALL_* environment
// variables and validates the result. An empty path uses defaults and the
// environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Engine.HandSize <= 0 {
		errs = append(errs, fmt.Errorf("engine.hand_size must be positive, got %d", c.Engine.HandSize))
	}
	if c.Engine.MaxEnergy <= 0 {
		errs = append(errs, fmt.Errorf("engine.max_energy must be positive, got %d", c.Engine.MaxEnergy))
	}
	if c.Engine.MacGuffinHP <= 0 || c.Engine.CharacterAHP <= 0 || c.Engine.CharacterBHP <= 0 {
		errs = append(errs, errors.New("engine hp values must be positive"))
	}
	if c.Engine.Difficulty < 0 || c.Engine.Difficulty > MaxDifficulty {
		errs = append(errs, fmt.Errorf("engine.difficulty must be between 0 and %d, got %d", MaxDifficulty, c.Engine.Difficulty))
	}
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverRedis:
		if c.Storage.Redis.Addr == "" {
			errs = append(errs, errors.New("storage.redis.addr is required"))
		}
	case DriverPostgres:
		if c.Storage.Postgres.DSN == "" {
			errs = append(errs, errors.New("storage.postgres.dsn is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}
	return errors.Join(errs...)
}
