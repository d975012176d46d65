// Package config holds the default algorithm parameters of the rasterlab
// command line, loaded from files, environment variables and flags.
package config

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/MeKo-Tech/rasterlab/internal/blur"
	"github.com/MeKo-Tech/rasterlab/internal/canny"
	"github.com/MeKo-Tech/rasterlab/internal/cluster"
	"github.com/MeKo-Tech/rasterlab/internal/edge"
	"github.com/MeKo-Tech/rasterlab/internal/histogram"
)

// Config represents the complete configuration of the rasterlab application.
type Config struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	Blur     BlurConfig     `mapstructure:"blur" yaml:"blur" json:"blur"`
	Canny    CannyConfig    `mapstructure:"canny" yaml:"canny" json:"canny"`
	KMeans   KMeansConfig   `mapstructure:"kmeans" yaml:"kmeans" json:"kmeans"`
	CLAHE    CLAHEConfig    `mapstructure:"clahe" yaml:"clahe" json:"clahe"`
	Equalize EqualizeConfig `mapstructure:"equalize" yaml:"equalize" json:"equalize"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output" json:"output"`
}

// BlurConfig configures the blur command.
type BlurConfig struct {
	Kind       string  `mapstructure:"kind" yaml:"kind" json:"kind"`
	KernelSize int     `mapstructure:"kernel_size" yaml:"kernel_size" json:"kernel_size"`
	Sigma      float64 `mapstructure:"sigma" yaml:"sigma" json:"sigma"`
	Workers    int     `mapstructure:"workers" yaml:"workers" json:"workers"`
}

// CannyConfig configures the canny command.
type CannyConfig struct {
	Low        int     `mapstructure:"low" yaml:"low" json:"low"`
	High       int     `mapstructure:"high" yaml:"high" json:"high"`
	Blur       string  `mapstructure:"blur" yaml:"blur" json:"blur"`
	KernelSize int     `mapstructure:"kernel_size" yaml:"kernel_size" json:"kernel_size"`
	Sigma      float64 `mapstructure:"sigma" yaml:"sigma" json:"sigma"`
	Operator   string  `mapstructure:"operator" yaml:"operator" json:"operator"`
}

// KMeansConfig configures K-means clustering. A zero seed picks a random one.
type KMeansConfig struct {
	K             int    `mapstructure:"k" yaml:"k" json:"k"`
	MaxIterations int    `mapstructure:"max_iterations" yaml:"max_iterations" json:"max_iterations"`
	Seed          uint64 `mapstructure:"seed" yaml:"seed" json:"seed"`
}

// CLAHEConfig configures contrast-limited adaptive equalization.
type CLAHEConfig struct {
	TileSize  int     `mapstructure:"tile_size" yaml:"tile_size" json:"tile_size"`
	ClipLimit float64 `mapstructure:"clip_limit" yaml:"clip_limit" json:"clip_limit"`
	CDFBlur   int     `mapstructure:"cdf_blur" yaml:"cdf_blur" json:"cdf_blur"`
}

// EqualizeConfig selects the channels of global equalization.
type EqualizeConfig struct {
	Red   bool `mapstructure:"red" yaml:"red" json:"red"`
	Green bool `mapstructure:"green" yaml:"green" json:"green"`
	Blue  bool `mapstructure:"blue" yaml:"blue" json:"blue"`
	Gray  bool `mapstructure:"gray" yaml:"gray" json:"gray"`
}

// OutputConfig controls what the commands print besides the result file.
type OutputConfig struct {
	// Progress is one of "bar", "log" or "none".
	Progress string `mapstructure:"progress" yaml:"progress" json:"progress"`
	// Metrics dumps the Prometheus metrics of the run to stderr.
	Metrics bool `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
}

var (
	validLogLevels = []string{"debug", "info", "warn", "error"}
	validProgress  = []string{"bar", "log", "none"}
)

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	clahe := histogram.DefaultCLAHEParams()
	return Config{
		LogLevel: "info",
		Verbose:  false,
		Blur: BlurConfig{
			Kind:       blur.KindGaussian.Name(),
			KernelSize: 5,
			Sigma:      2.5,
			Workers:    0,
		},
		Canny: CannyConfig{
			Low:        50,
			High:       80,
			Blur:       blur.KindGaussian.Name(),
			KernelSize: 5,
			Sigma:      blur.DefaultSigma,
			Operator:   "sobel",
		},
		KMeans: KMeansConfig{
			K:             3,
			MaxIterations: 0,
			Seed:          0,
		},
		CLAHE: CLAHEConfig{
			TileSize:  clahe.TileSize,
			ClipLimit: clahe.ClipLimit,
			CDFBlur:   clahe.CDFBlur,
		},
		Equalize: EqualizeConfig{Red: true, Green: true, Blue: true},
		Output: OutputConfig{
			Progress: "bar",
			Metrics:  false,
		},
	}
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}
	if !slices.Contains(validProgress, c.Output.Progress) {
		return fmt.Errorf("invalid output.progress: %s (must be one of: %s)",
			c.Output.Progress, strings.Join(validProgress, ", "))
	}

	if _, err := blur.ParseKind(c.Blur.Kind); err != nil {
		return fmt.Errorf("invalid blur.kind: %w", err)
	}
	if err := validateKernelSize(c.Blur.KernelSize, "blur.kernel_size"); err != nil {
		return err
	}
	if c.Blur.Sigma < 0 {
		return fmt.Errorf("invalid blur.sigma: %g (must not be negative)", c.Blur.Sigma)
	}
	if c.Blur.Workers < 0 {
		return fmt.Errorf("invalid blur.workers: %d (must not be negative)", c.Blur.Workers)
	}

	if c.Canny.Low < 0 || c.Canny.Low >= 255 {
		return fmt.Errorf("invalid canny.low: %d (must be between 0 and 254)", c.Canny.Low)
	}
	if c.Canny.High < 0 || c.Canny.High > 255 {
		return fmt.Errorf("invalid canny.high: %d (must be between 0 and 255)", c.Canny.High)
	}
	if _, err := blur.ParseKind(c.Canny.Blur); err != nil {
		return fmt.Errorf("invalid canny.blur: %w", err)
	}
	if err := validateKernelSize(c.Canny.KernelSize, "canny.kernel_size"); err != nil {
		return err
	}
	if c.Canny.Sigma < 0 {
		return fmt.Errorf("invalid canny.sigma: %g (must not be negative)", c.Canny.Sigma)
	}
	if _, err := edge.ParseKind(c.Canny.Operator); err != nil {
		return fmt.Errorf("invalid canny.operator: %w", err)
	}

	if c.KMeans.K <= 0 {
		return fmt.Errorf("invalid kmeans.k: %d (must be positive)", c.KMeans.K)
	}
	if c.KMeans.MaxIterations < 0 {
		return fmt.Errorf("invalid kmeans.max_iterations: %d (must not be negative)", c.KMeans.MaxIterations)
	}

	if c.CLAHE.TileSize <= 0 {
		return fmt.Errorf("invalid clahe.tile_size: %d (must be positive)", c.CLAHE.TileSize)
	}
	if c.CLAHE.CDFBlur < 0 {
		return fmt.Errorf("invalid clahe.cdf_blur: %d (must not be negative)", c.CLAHE.CDFBlur)
	}

	return nil
}

// BlurFilter builds the configured blur filter.
func (c *Config) BlurFilter() (blur.Filter, error) {
	kind, err := blur.ParseKind(c.Blur.Kind)
	if err != nil {
		return nil, err
	}
	return blur.New(kind, blur.Options{Sigma: c.Blur.Sigma, Workers: c.Blur.Workers})
}

// CannyParams builds the Canny parameters, including the smoothing filter
// and the gradient operator.
func (c *Config) CannyParams() (canny.Params, error) {
	kind, err := blur.ParseKind(c.Canny.Blur)
	if err != nil {
		return canny.Params{}, err
	}
	smooth, err := blur.New(kind, blur.Options{Sigma: c.Canny.Sigma, Workers: c.Blur.Workers})
	if err != nil {
		return canny.Params{}, err
	}
	opKind, err := edge.ParseKind(c.Canny.Operator)
	if err != nil {
		return canny.Params{}, err
	}
	op, err := edge.New(opKind)
	if err != nil {
		return canny.Params{}, err
	}
	return canny.Params{
		Low:        c.Canny.Low,
		High:       c.Canny.High,
		Blur:       smooth,
		KernelSize: c.Canny.KernelSize,
		Operator:   op,
	}, nil
}

// KMeansParams builds the K-means configuration. A non-zero seed makes runs
// reproducible.
func (c *Config) KMeansParams() cluster.KMeans {
	km := cluster.KMeans{K: c.KMeans.K, MaxIterations: c.KMeans.MaxIterations}
	if c.KMeans.Seed != 0 {
		km.Rand = rand.New(rand.NewPCG(c.KMeans.Seed, c.KMeans.Seed))
	}
	return km
}

// CLAHEParams converts the CLAHE section.
func (c *Config) CLAHEParams() histogram.CLAHEParams {
	return histogram.CLAHEParams{
		TileSize:  c.CLAHE.TileSize,
		ClipLimit: c.CLAHE.ClipLimit,
		CDFBlur:   c.CLAHE.CDFBlur,
	}
}

// Channels converts the equalize section.
func (c *Config) Channels() histogram.Channels {
	return histogram.Channels{
		Red:   c.Equalize.Red,
		Green: c.Equalize.Green,
		Blue:  c.Equalize.Blue,
		Gray:  c.Equalize.Gray,
	}
}

// validateKernelSize requires a positive odd window size.
func validateKernelSize(k int, name string) error {
	if k <= 0 || k%2 == 0 {
		return fmt.Errorf("invalid %s: %d (must be a positive odd number)", name, k)
	}
	return nil
}
