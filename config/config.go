// SPDX-License-Identifier: EPL-2.0

// Package config loads the engine settings from spatial.yaml and SPATIAL_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ik5/spatial/device"
	"github.com/ik5/spatial/internal/log"
)

const (
	FileName  = "spatial.yaml"
	EnvPrefix = "SPATIAL"
)

type Config struct {
	// HRTF asks the device for head-related transfer function rendering.
	HRTF bool `mapstructure:"hrtf" yaml:"hrtf"`
	// SampleRate of the software device mix.
	SampleRate int `mapstructure:"sample_rate" yaml:"sample_rate"`
	// MaxAuxSends per source on the software device.
	MaxAuxSends int `mapstructure:"max_aux_sends" yaml:"max_aux_sends"`
	// Reverb names the global reverb preset. Empty disables it.
	Reverb   string `mapstructure:"reverb" yaml:"reverb"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	AssetDir string `mapstructure:"asset_dir" yaml:"asset_dir"`
}

func Defaults() Config {
	return Config{
		HRTF:        false,
		SampleRate:  48000,
		MaxAuxSends: 4,
		Reverb:      "",
		LogLevel:    "info",
		AssetDir:    "assets",
	}
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("hrtf", d.HRTF)
	v.SetDefault("sample_rate", d.SampleRate)
	v.SetDefault("max_aux_sends", d.MaxAuxSends)
	v.SetDefault("reverb", d.Reverb)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("asset_dir", d.AssetDir)
}

// Load reads the config file at path, or searches the working directory and
// the user config directory for spatial.yaml when path is empty. A missing
// file is not an error when searching. Environment variables override file
// values.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "spatial"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		log.Debug(log.CatConfig, "no config file found, using defaults")
	} else {
		log.Debug(log.CatConfig, "config file loaded", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks ranges and names.
func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate %d: %w", c.SampleRate, ErrInvalidSampleRate)
	}
	if c.MaxAuxSends < 0 {
		return fmt.Errorf("max_aux_sends %d: %w", c.MaxAuxSends, ErrInvalidAuxSends)
	}
	if c.Reverb != "" {
		if _, ok := device.LookupReverbPreset(c.Reverb); !ok {
			return fmt.Errorf("reverb %q (known: %s): %w",
				c.Reverb, strings.Join(device.ReverbPresetNames(), ", "), device.ErrUnknownPreset)
		}
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// Attributes returns the device attributes the config asks for.
func (c Config) Attributes() device.Attributes {
	return device.Attributes{HRTF: c.HRTF, MaxAuxSends: c.MaxAuxSends}
}

// WriteDefault writes the default config to path. It refuses to overwrite an
// existing file.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(Defaults())
	if err != nil {
		return fmt.Errorf("encoding defaults: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config dir: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s: %w", path, ErrConfigExists)
		}
		return err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
