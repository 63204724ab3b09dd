package config

import (
	"fmt"
	"strconv"

	"github.com/joho/godotenv"
)

type lookupFunc func(key string) (string, bool)

func mapLookup(vars map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

// readDotEnv parses a dotenv file without touching the process environment.
func readDotEnv(path string) (map[string]string, error) {
	return godotenv.Read(path)
}

// applyEnv overrides cfg from PROANT_* variables found by lookup.
func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	str("SUFFIX", &cfg.Suffix)
	str("STORE", &cfg.Store)
	str("DB_PATH", &cfg.DBPath)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)
	str("FORMAT", &cfg.Format)

	if v, ok := lookup(EnvPrefix + "LEGS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sLEGS: %w", EnvPrefix, err)
		}
		cfg.Legs = n
	}
	floats := []struct {
		name string
		dst  *float64
	}{
		{"MIN_HEIGHT", &cfg.MinHeight},
		{"MAX_HEIGHT", &cfg.MaxHeight},
	}
	for _, f := range floats {
		v, ok := lookup(EnvPrefix + f.name)
		if !ok || v == "" {
			continue
		}
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, f.name, err)
		}
		*f.dst = x
	}
	return nil
}
