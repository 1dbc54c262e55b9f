package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "ROADDIST"

// Config. settings shared by the roaddist commands. flags > env (ROADDIST_*) > config file > defaults.
type Config struct {
	Input      string   `mapstructure:"input" validate:"required"`
	Source     int64    `mapstructure:"source"`
	Sources    string   `mapstructure:"sources"`
	K          int      `mapstructure:"k" validate:"gte=0"`
	BaseOffset int64    `mapstructure:"base_offset"`
	Header     string   `mapstructure:"header" validate:"oneof=auto present absent"`
	Columns    []string `mapstructure:"columns" validate:"len=0|len=3,dive,required"`

	Output    string `mapstructure:"output"`
	OutputDir string `mapstructure:"output_dir"`
	Compress  bool   `mapstructure:"compress"`
	Workers   int    `mapstructure:"workers" validate:"gte=0"`

	LogLevel string `mapstructure:"log_level" validate:"oneof=trace debug info warn error disabled"`
	Pretty   bool   `mapstructure:"pretty"`

	ListenAddr  string `mapstructure:"listen_addr" validate:"required"`
	CacheSize   int    `mapstructure:"cache_size" validate:"gte=1"`
	MaxVertices int    `mapstructure:"max_vertices" validate:"gte=1"`
}

var defaults = map[string]any{
	"input":        "",
	"source":       1,
	"sources":      "",
	"k":            10,
	"base_offset":  1,
	"header":       "auto",
	"columns":      []string{},
	"output":       "",
	"output_dir":   ".",
	"compress":     false,
	"workers":      0,
	"log_level":    "info",
	"pretty":       false,
	"listen_addr":  ":5000",
	"cache_size":   64,
	"max_vertices": 50_000_000,
}

// New. viper instance with the defaults and the ROADDIST_ env overrides set up.
func New() *viper.Viper {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags. bind every flag of fs to the config key of the same name (dashes become underscores).
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if _, ok := defaults[key]; !ok {
			return
		}
		if bindErr := v.BindPFlag(key, f); bindErr != nil && err == nil {
			err = bindErr
		}
	})
	return err
}

// Load. read the optional yaml config file, unmarshal and validate.
func Load(v *viper.Viper, configFile string) (Config, error) {
	var cfg Config
	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.Header = strings.ToLower(strings.TrimSpace(cfg.Header))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
