// Package config loads proantctl settings from defaults, a TOML file, a .env
// file, PROANT_* environment variables and command-line flags, in that order.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"proant/internal/ant"
	"proant/internal/export"
	"proant/internal/proant"
	"proant/internal/storage"
)

const (
	DefaultConfigFile = "proant.toml"
	DefaultEnvFile    = ".env"
	EnvPrefix         = "PROANT_"
)

type Config struct {
	Legs      int     `toml:"legs"`
	Suffix    string  `toml:"suffix"`
	Store     string  `toml:"store"`
	DBPath    string  `toml:"db_path"`
	LogLevel  string  `toml:"log_level"`
	LogFormat string  `toml:"log_format"`
	Format    string  `toml:"format"`
	MinHeight float64 `toml:"min_height"`
	MaxHeight float64 `toml:"max_height"`

	// ConfigFile and EnvFile record the files that were actually read.
	ConfigFile string `toml:"-"`
	EnvFile    string `toml:"-"`
}

func Defaults() Config {
	return Config{
		Legs:      proant.DefaultLegs,
		Store:     storage.DefaultStoreKind(),
		DBPath:    "proant.db",
		LogLevel:  "info",
		LogFormat: "text",
		Format:    export.FormatText,
		MinHeight: ant.DefaultMinHeight,
	}
}

// flagValues holds the raw flag targets. Only flags the user set are merged.
type flagValues struct {
	cfg        Config
	configPath string
	envPath    string
}

// RegisterFlags binds the shared settings flags to fs. Call Load with the
// returned binding after fs.Parse.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	d := Defaults()
	v := &flagValues{}
	fs.IntVar(&v.cfg.Legs, "legs", d.Legs, "number of legs")
	fs.StringVar(&v.cfg.Suffix, "suffix", d.Suffix, "suffix appended to every scene name")
	fs.StringVar(&v.cfg.Store, "store", d.Store, "store backend: memory|sqlite")
	fs.StringVar(&v.cfg.DBPath, "db-path", d.DBPath, "sqlite database path")
	fs.StringVar(&v.cfg.LogLevel, "log-level", d.LogLevel, "log level: debug|info|warn|error")
	fs.StringVar(&v.cfg.LogFormat, "log-format", d.LogFormat, "log format: text|json|logfmt")
	fs.StringVar(&v.cfg.Format, "format", d.Format, "output format: text|json|yaml")
	fs.Float64Var(&v.cfg.MinHeight, "min-height", d.MinHeight, "torso height below which an episode ends")
	fs.Float64Var(&v.cfg.MaxHeight, "max-height", d.MaxHeight, "torso height above which an episode ends (0 disables)")
	fs.StringVar(&v.configPath, "config", "", "TOML config file (default ./"+DefaultConfigFile+" when present)")
	fs.StringVar(&v.envPath, "env-file", "", "dotenv file (default ./"+DefaultEnvFile+" when present)")
	return &Flags{fs: fs, values: v}
}

type Flags struct {
	fs     *flag.FlagSet
	values *flagValues
}

// Load merges every source and validates the result. fs must already be
// parsed.
func (f *Flags) Load() (*Config, error) {
	if !f.fs.Parsed() {
		return nil, errors.New("flags not parsed")
	}
	cfg := Defaults()

	path, explicit := f.values.configPath, f.values.configPath != ""
	if !explicit {
		path = lookupDefaultFile(DefaultConfigFile)
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
	}

	envPath, explicit := f.values.envPath, f.values.envPath != ""
	if !explicit {
		envPath = lookupDefaultFile(DefaultEnvFile)
	}
	if envPath != "" {
		vars, err := readDotEnv(envPath)
		if err != nil {
			return nil, fmt.Errorf("loading env file %s: %w", envPath, err)
		}
		if err := applyEnv(&cfg, mapLookup(vars)); err != nil {
			return nil, fmt.Errorf("env file %s: %w", envPath, err)
		}
		cfg.EnvFile = envPath
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	f.applyFlags(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (f *Flags) applyFlags(cfg *Config) {
	v := f.values.cfg
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "legs":
			cfg.Legs = v.Legs
		case "suffix":
			cfg.Suffix = v.Suffix
		case "store":
			cfg.Store = v.Store
		case "db-path":
			cfg.DBPath = v.DBPath
		case "log-level":
			cfg.LogLevel = v.LogLevel
		case "log-format":
			cfg.LogFormat = v.LogFormat
		case "format":
			cfg.Format = v.Format
		case "min-height":
			cfg.MinHeight = v.MinHeight
		case "max-height":
			cfg.MaxHeight = v.MaxHeight
		}
	})
}

func (c *Config) Validate() error {
	if c.Legs < 0 {
		return fmt.Errorf("legs must be >= 0, got %d: %w", c.Legs, proant.ErrInvalidLegCount)
	}
	if !slices.Contains(storage.StoreKinds(), c.Store) {
		return fmt.Errorf("unsupported store backend: %s", c.Store)
	}
	if c.Store == "sqlite" && strings.TrimSpace(c.DBPath) == "" {
		return errors.New("sqlite store requires db_path")
	}
	format, err := export.NormalizeFormat(c.Format)
	if err != nil {
		return err
	}
	c.Format = format
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return fmt.Errorf("unsupported log level: %s", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("unsupported log format: %s", c.LogFormat)
	}
	if c.MaxHeight != 0 && c.MaxHeight <= c.MinHeight {
		return fmt.Errorf("max_height %g must exceed min_height %g", c.MaxHeight, c.MinHeight)
	}
	return nil
}

func lookupDefaultFile(name string) string {
	info, err := os.Stat(name)
	if err != nil || info.IsDir() {
		return ""
	}
	return name
}
