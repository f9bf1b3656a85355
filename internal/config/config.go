// Package config loads mio settings from the config file, MIO_* environment
// variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, so "db" is read
// from MIO_DB.
const EnvPrefix = "MIO"

// Keys.
const (
	KeyDB             = "db"
	KeyLogLevel       = "log_level"
	KeyNewPerDay      = "new_per_day"
	KeyStudyIntensity = "study_intensity"
)

// Config is the resolved configuration.
type Config struct {
	// DBPath is empty when nothing was configured; the store then picks
	// its default location.
	DBPath         string
	LogLevel       string
	NewPerDay      int
	StudyIntensity int

	// File is the config file that was read, if any.
	File string
}

// DefaultFile returns ~/.config/mio/config.yaml.
func DefaultFile() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "mio", "config.yaml"), nil
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDB, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyNewPerDay, 10)
	v.SetDefault(KeyStudyIntensity, 1)
}

// Load reads the configuration into v and returns it. An explicit file must
// exist; the default file is optional.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		def, err := DefaultFile()
		if err != nil {
			return Config{}, fmt.Errorf("resolve config file: %w", err)
		}
		v.AddConfigPath(filepath.Dir(def))
		v.SetConfigName(strings.TrimSuffix(filepath.Base(def), filepath.Ext(def)))
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		DBPath:         v.GetString(KeyDB),
		LogLevel:       v.GetString(KeyLogLevel),
		NewPerDay:      v.GetInt(KeyNewPerDay),
		StudyIntensity: v.GetInt(KeyStudyIntensity),
		File:           v.ConfigFileUsed(),
	}
	if cfg.NewPerDay < 0 {
		return Config{}, fmt.Errorf("%s must not be negative, got %d", KeyNewPerDay, cfg.NewPerDay)
	}
	if cfg.StudyIntensity < 0 {
		return Config{}, fmt.Errorf("%s must not be negative, got %d", KeyStudyIntensity, cfg.StudyIntensity)
	}
	return cfg, nil
}
