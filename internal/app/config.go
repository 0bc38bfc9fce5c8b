package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	fsw "github.com/corey/ahoc/internal/adapters/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides: AHOC_POLICY, AHOC_WATCH_DEBOUNCE.
const EnvPrefix = "AHOC"

// Config is the resolved project configuration.
type Config struct {
	DB         string      `mapstructure:"db"`         // empty = .ahoc/ahoc.db
	Dictionary string      `mapstructure:"dictionary"` // dictionary used when --dict is absent
	Policy     string      `mapstructure:"policy"`     // policy for newly created dictionaries
	LogLevel   string      `mapstructure:"log_level"`
	Format     string      `mapstructure:"format"` // text | json
	Watch      WatchConfig `mapstructure:"watch"`
}

// WatchConfig tunes `ahoc watch`.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
	Ignore   []string      `mapstructure:"ignore"`
}

// SetDefaults registers every key so environment variables can override
// keys that appear in no config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("db", "")
	v.SetDefault("dictionary", "default")
	v.SetDefault("policy", "any")
	v.SetDefault("log_level", "info")
	v.SetDefault("format", "text")
	v.SetDefault("watch.debounce", fsw.DefaultDebounce)
	v.SetDefault("watch.ignore", fsw.DefaultIgnore)
}

// LoadConfig resolves configuration from, lowest first: defaults,
// .ahoc/config.yaml, AHOC_* environment variables, and whatever flags the
// caller bound on v.
func LoadConfig(v *viper.Viper, p *Paths) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(p.Config); err == nil {
		v.SetConfigFile(p.Config)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read %s: %w", p.Config, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Dictionary == "" {
		return Config{}, fmt.Errorf("config: dictionary must not be empty")
	}
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		cfg.Format = "text"
	case "json":
		cfg.Format = "json"
	default:
		return Config{}, fmt.Errorf("config: unknown format %q (want text or json)", cfg.Format)
	}
	return cfg, nil
}
