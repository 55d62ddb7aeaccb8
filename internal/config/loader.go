package config

import (
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/errors"
)

// envPrefix is the environment variable prefix for all core settings.
const envPrefix = "OCRFUSE"

// newViper builds a pre-configured viper instance: YAML file type, OCRFUSE_
// env prefix, automatic env binding, and a key replacer mapping "." to "_"
// so that nested keys like "fusion.iou_threshold" resolve to
// "OCRFUSE_FUSION_IOU_THRESHOLD".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// Every key gets a registered default. AutomaticEnv only resolves keys
	// viper already knows about, so a key without a default would ignore its
	// OCRFUSE_* override.
	for key, val := range defaultSettings() {
		v.SetDefault(key, val)
	}
	return v
}

// Load reads the YAML file at configPath, merges OCRFUSE_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result. It returns a fully populated *Config or a fail-fast error.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigUnreadable,
			"read config file").WithDetail(configPath)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from OCRFUSE_* environment variables
// with no config file, the preferred strategy for containerised deployments.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigUnreadable,
			"unmarshal configuration")
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified on disk. The intended use is
// swapping data-file paths (dictionaries, confusion and trigram tables)
// between processing runs; callers rebuild their model set from the new
// Config and leave the running one untouched.
//
// Watch is non-blocking; it starts a background goroutine managed by viper.
// If a changed file fails to parse or validate, onChange is not called and
// the previous configuration stays in effect.
func Watch(configPath string, onChange func(*Config)) error {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigUnreadable,
			"read config file").WithDetail(configPath)
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()

	return nil
}
