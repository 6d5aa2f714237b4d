package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is the prefix of environment overrides, e.g. ARENAD_API_ADDRESS.
	EnvPrefix = "ARENAD"

	DefaultHome = ".arenad"

	configDir  = "config"
	configName = "app"
	configType = "toml"
)

type ABCIConfig struct {
	Address   string `mapstructure:"address"`
	Transport string `mapstructure:"transport"`
}

type APIConfig struct {
	Enable       bool          `mapstructure:"enable"`
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DBConfig struct {
	Backend string `mapstructure:"backend"`
	Dir     string `mapstructure:"dir"`
}

type EventsConfig struct {
	Enable        bool          `mapstructure:"enable"`
	NATSURL       string        `mapstructure:"nats_url"`
	Stream        string        `mapstructure:"stream"`
	SubjectPrefix string        `mapstructure:"subject_prefix"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
}

type Config struct {
	Home   string       `mapstructure:"home"`
	ABCI   ABCIConfig   `mapstructure:"abci"`
	API    APIConfig    `mapstructure:"api"`
	Log    LogConfig    `mapstructure:"log"`
	DB     DBConfig     `mapstructure:"db"`
	Events EventsConfig `mapstructure:"events"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("home", DefaultHome)

	v.SetDefault("abci.address", "tcp://127.0.0.1:26658")
	v.SetDefault("abci.transport", "socket")

	v.SetDefault("api.enable", true)
	v.SetDefault("api.address", "127.0.0.1:8080")
	v.SetDefault("api.read_timeout", 10*time.Second)
	v.SetDefault("api.write_timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "plain")

	v.SetDefault("db.backend", "goleveldb")
	v.SetDefault("db.dir", "data")

	v.SetDefault("events.enable", false)
	v.SetDefault("events.nats_url", "nats://127.0.0.1:4222")
	v.SetDefault("events.stream", "ARENA")
	v.SetDefault("events.subject_prefix", "arena.events")
	v.SetDefault("events.flush_interval", time.Second)
}

// NewViper returns a viper instance with defaults and ARENAD_* overrides set
// up. Flags may be bound to it before Load.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// FilePath is where the config file for home lives.
func FilePath(home string) string {
	return filepath.Join(home, configDir, configName+"."+configType)
}

// Load reads <home>/config/app.toml if it exists and applies overrides.
func Load(v *viper.Viper) (*Config, error) {
	home := v.GetString("home")
	v.SetConfigFile(FilePath(home))
	v.SetConfigType(configType)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WriteDefault writes the default config file under home. It refuses to
// overwrite an existing file.
func WriteDefault(home string) (string, error) {
	path := FilePath(home)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	v := viper.New()
	setDefaults(v)
	v.Set("home", home)
	if err := v.SafeWriteConfigAs(path); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}

func (c *Config) Validate() error {
	if c.Home == "" {
		return errors.New("home must be set")
	}
	switch c.ABCI.Transport {
	case "socket", "grpc":
	default:
		return fmt.Errorf("abci.transport must be socket or grpc, got %q", c.ABCI.Transport)
	}
	if c.ABCI.Address == "" {
		return errors.New("abci.address must be set")
	}
	if c.API.Enable && c.API.Address == "" {
		return errors.New("api.address must be set when the api is enabled")
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "plain", "json":
	default:
		return fmt.Errorf("log.format must be plain or json, got %q", c.Log.Format)
	}
	switch c.DB.Backend {
	case "goleveldb", "memdb":
	default:
		return fmt.Errorf("db.backend must be goleveldb or memdb, got %q", c.DB.Backend)
	}
	if c.Events.Enable {
		if c.Events.NATSURL == "" || c.Events.Stream == "" || c.Events.SubjectPrefix == "" {
			return errors.New("events.nats_url, events.stream and events.subject_prefix must be set when events are enabled")
		}
		if c.Events.FlushInterval <= 0 {
			return fmt.Errorf("events.flush_interval must be positive, got %s", c.Events.FlushInterval)
		}
	}
	return nil
}

// DBDir resolves the database directory against home.
func (c *Config) DBDir() string {
	if filepath.IsAbs(c.DB.Dir) {
		return c.DB.Dir
	}
	return filepath.Join(c.Home, c.DB.Dir)
}

// NewLogger builds the process logger.
func (c LogConfig) NewLogger(w io.Writer) (log.Logger, error) {
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	opts := []log.Option{log.LevelOption(level)}
	if c.Format == "json" {
		opts = append(opts, log.OutputJSONOption())
	}
	return log.NewLogger(w, opts...), nil
}
