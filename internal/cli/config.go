package cli

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/legalscan/pkg/errors"
	"github.com/matzehuels/legalscan/pkg/integrations"
	"github.com/matzehuels/legalscan/pkg/licenses"
	"github.com/matzehuels/legalscan/pkg/report"
	"github.com/matzehuels/legalscan/pkg/repository"
	"github.com/matzehuels/legalscan/pkg/scan"
)

const (
	// configFileName is the config file name without extension.
	configFileName = appName

	// envPrefix prefixes every environment override, e.g.
	// LEGALSCAN_OUTPUT_DIR or LEGALSCAN_CACHE_REDIS_URL.
	envPrefix = "LEGALSCAN"

	// defaultCacheTTL is how long index and license-text responses are kept.
	defaultCacheTTL = 7 * 24 * time.Hour
)

// Config is the merged configuration of a run: defaults, then the config
// file, then LEGALSCAN_* variables, then command-line flags.
type Config struct {
	ScanDir             string      `mapstructure:"scan_dir"`
	OutputDir           string      `mapstructure:"output_dir"`
	Registry            string      `mapstructure:"registry"`
	UpdateRegistry      bool        `mapstructure:"update_registry"`
	InventoryFormat     string      `mapstructure:"inventory_format"`
	SPDX                bool        `mapstructure:"spdx"`
	Diagnostics         string      `mapstructure:"diagnostics"`
	Verbose             bool        `mapstructure:"verbose"`
	Offline             bool        `mapstructure:"offline"`
	LocalRepository     string      `mapstructure:"local_repository"`
	RemoteRepositories  []string    `mapstructure:"remote_repositories"`
	IndexURL            string      `mapstructure:"index_url"`
	MaxParentDepth      int         `mapstructure:"max_parent_depth"`
	MaxEmbeddedSize     int64       `mapstructure:"max_embedded_size"`
	ClosestMaxDistance  int         `mapstructure:"closest_max_distance"`
	ClassifierThreshold float64     `mapstructure:"classifier_threshold"`
	HTTP                HTTPConfig  `mapstructure:"http"`
	Cache               CacheConfig `mapstructure:"cache"`

	loadedFrom string
}

// HTTPConfig holds transport settings shared by every outbound client.
type HTTPConfig struct {
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	InsecureTLS    bool          `mapstructure:"insecure_tls"`
}

// CacheConfig selects the response cache backend.
type CacheConfig struct {
	TTL      time.Duration `mapstructure:"ttl"`
	RedisURL string        `mapstructure:"redis_url"`
	Disabled bool          `mapstructure:"disabled"`
}

// defaultConfig returns the built-in values of every key.
func defaultConfig() Config {
	return Config{
		ScanDir:             ".",
		OutputDir:           ".",
		InventoryFormat:     string(report.FormatJSON),
		LocalRepository:     repository.DefaultLocalRoot(),
		RemoteRepositories:  []string{repository.DefaultRemoteURL},
		MaxParentDepth:      scan.DefaultMaxParentDepth,
		MaxEmbeddedSize:     scan.DefaultMaxEmbeddedSize,
		ClosestMaxDistance:  licenses.DefaultMaxDistance,
		ClassifierThreshold: licenses.DefaultSuggestThreshold,
		HTTP: HTTPConfig{
			ConnectTimeout: integrations.DefaultConnectTimeout,
			ReadTimeout:    integrations.DefaultReadTimeout,
		},
		Cache: CacheConfig{TTL: defaultCacheTTL},
	}
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"output-dir":           "output_dir",
	"registry":             "registry",
	"update-registry":      "update_registry",
	"format":               "inventory_format",
	"spdx":                 "spdx",
	"diagnostics":          "diagnostics",
	"verbose":              "verbose",
	"offline":              "offline",
	"local-repository":     "local_repository",
	"remote-repository":    "remote_repositories",
	"index-url":            "index_url",
	"max-parent-depth":     "max_parent_depth",
	"max-embedded-size":    "max_embedded_size",
	"closest-max-distance": "closest_max_distance",
	"classifier-threshold": "classifier_threshold",
	"connect-timeout":      "http.connect_timeout",
	"read-timeout":         "http.read_timeout",
	"insecure-tls":         "http.insecure_tls",
	"cache-ttl":            "cache.ttl",
	"redis-url":            "cache.redis_url",
	"no-cache":             "cache.disabled",
}

// loadConfig merges the configuration sources. An explicit file must
// exist; otherwise legalscan.toml is looked up in the working directory
// and then in the user config directory, and its absence is not an error.
// Only flags the user actually set override lower layers.
func loadConfig(file string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	d := defaultConfig()
	v.SetDefault("scan_dir", d.ScanDir)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("registry", d.Registry)
	v.SetDefault("update_registry", d.UpdateRegistry)
	v.SetDefault("inventory_format", d.InventoryFormat)
	v.SetDefault("spdx", d.SPDX)
	v.SetDefault("diagnostics", d.Diagnostics)
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("offline", d.Offline)
	v.SetDefault("local_repository", d.LocalRepository)
	v.SetDefault("remote_repositories", d.RemoteRepositories)
	v.SetDefault("index_url", d.IndexURL)
	v.SetDefault("max_parent_depth", d.MaxParentDepth)
	v.SetDefault("max_embedded_size", d.MaxEmbeddedSize)
	v.SetDefault("closest_max_distance", d.ClosestMaxDistance)
	v.SetDefault("classifier_threshold", d.ClassifierThreshold)
	v.SetDefault("http.connect_timeout", d.HTTP.ConnectTimeout)
	v.SetDefault("http.read_timeout", d.HTTP.ReadTimeout)
	v.SetDefault("http.insecure_tls", d.HTTP.InsecureTLS)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.redis_url", d.Cache.RedisURL)
	v.SetDefault("cache.disabled", d.Cache.Disabled)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		if _, err := os.Stat(file); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "config file %s", file)
		}
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !stderrors.As(err, &notFound) {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config")
		}
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key, ok := flagKeys[f.Name]
			if !ok || bindErr != nil {
				return
			}
			bindErr = v.BindPFlag(key, f)
		})
		if bindErr != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, bindErr, "bind flags")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config")
	}
	cfg.loadedFrom = v.ConfigFileUsed()
	return &cfg, nil
}

// Source returns the config file that was read, or "" when none was.
func (c *Config) Source() string { return c.loadedFrom }

// configDir returns $XDG_CONFIG_HOME/legalscan, defaulting to
// ~/.config/legalscan.
func configDir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
