package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "rasterlab"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "RASTERLAB"
)

// Loader handles loading configuration from various sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader on the global viper instance, which is where
// the command line binds its flags.
func NewLoader() *Loader {
	return &Loader{v: viper.GetViper()}
}

// NewLoaderWithViper creates a loader on a caller-owned viper instance.
func NewLoaderWithViper(v *viper.Viper) *Loader {
	return &Loader{v: v}
}

// Load reads the configuration from the search paths, the environment and
// the defaults, and validates it.
func (l *Loader) Load() (*Config, error) {
	return l.LoadWithFile("")
}

// LoadWithFile is Load with an explicit config file. An empty path searches
// the standard locations instead.
func (l *Loader) LoadWithFile(configFile string) (*Config, error) {
	cfg, err := l.LoadWithFileWithoutValidation(configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadWithFileWithoutValidation loads the configuration without validating it.
func (l *Loader) LoadWithFileWithoutValidation(configFile string) (*Config, error) {
	if configFile != "" {
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", configFile)
		}
		l.v.SetConfigFile(configFile)
	} else {
		l.v.SetConfigName(ConfigFileName)
		l.v.SetConfigType("yaml")
		l.addConfigPaths()
	}

	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// ConfigFileUsed returns the path of the config file read, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Viper returns the underlying viper instance.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

func (l *Loader) addConfigPaths() {
	for _, p := range SearchPaths() {
		l.v.AddConfigPath(p)
	}
}

func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// setDefaults registers every key so that environment variables can
// override keys no file mentions.
func (l *Loader) setDefaults() {
	d := DefaultConfig()

	l.v.SetDefault("log_level", d.LogLevel)
	l.v.SetDefault("verbose", d.Verbose)

	l.v.SetDefault("blur.kind", d.Blur.Kind)
	l.v.SetDefault("blur.kernel_size", d.Blur.KernelSize)
	l.v.SetDefault("blur.sigma", d.Blur.Sigma)
	l.v.SetDefault("blur.workers", d.Blur.Workers)

	l.v.SetDefault("canny.low", d.Canny.Low)
	l.v.SetDefault("canny.high", d.Canny.High)
	l.v.SetDefault("canny.blur", d.Canny.Blur)
	l.v.SetDefault("canny.kernel_size", d.Canny.KernelSize)
	l.v.SetDefault("canny.sigma", d.Canny.Sigma)
	l.v.SetDefault("canny.operator", d.Canny.Operator)

	l.v.SetDefault("kmeans.k", d.KMeans.K)
	l.v.SetDefault("kmeans.max_iterations", d.KMeans.MaxIterations)
	l.v.SetDefault("kmeans.seed", d.KMeans.Seed)

	l.v.SetDefault("clahe.tile_size", d.CLAHE.TileSize)
	l.v.SetDefault("clahe.clip_limit", d.CLAHE.ClipLimit)
	l.v.SetDefault("clahe.cdf_blur", d.CLAHE.CDFBlur)

	l.v.SetDefault("equalize.red", d.Equalize.Red)
	l.v.SetDefault("equalize.green", d.Equalize.Green)
	l.v.SetDefault("equalize.blue", d.Equalize.Blue)
	l.v.SetDefault("equalize.gray", d.Equalize.Gray)

	l.v.SetDefault("output.progress", d.Output.Progress)
	l.v.SetDefault("output.metrics", d.Output.Metrics)
}

// SearchPaths returns the directories searched for rasterlab.yaml, in order.
func SearchPaths() []string {
	paths := []string{"."}

	home, homeErr := os.UserHomeDir()
	if homeErr == nil {
		paths = append(paths, home)
	}
	if configDir, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		paths = append(paths, filepath.Join(configDir, "rasterlab"))
	} else if homeErr == nil {
		paths = append(paths, filepath.Join(home, ".config", "rasterlab"))
	}

	return append(paths, "/etc/rasterlab")
}

// YAML renders cfg the way it would be written to rasterlab.yaml.
func (c *Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return out, nil
}
