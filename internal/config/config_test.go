package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/MeKo-Tech/rasterlab/internal/blur"
	"github.com/MeKo-Tech/rasterlab/internal/cluster"
	"github.com/MeKo-Tech/rasterlab/internal/edge"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "gaussian", cfg.Blur.Kind)
	assert.Equal(t, 5, cfg.Blur.KernelSize)
	assert.Equal(t, 2.5, cfg.Blur.Sigma)
	assert.Equal(t, 50, cfg.Canny.Low)
	assert.Equal(t, 80, cfg.Canny.High)
	assert.Equal(t, 1.0, cfg.Canny.Sigma)
	assert.Equal(t, 3, cfg.KMeans.K)
	assert.Equal(t, 8, cfg.CLAHE.TileSize)
	assert.Equal(t, 4.0, cfg.CLAHE.ClipLimit)
	assert.Equal(t, 1, cfg.CLAHE.CDFBlur)
	assert.Equal(t, "bar", cfg.Output.Progress)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"log level", func(c *Config) { c.LogLevel = "trace" }, "invalid log level"},
		{"progress", func(c *Config) { c.Output.Progress = "spinner" }, "invalid output.progress"},
		{"blur kind", func(c *Config) { c.Blur.Kind = "bilateral" }, "invalid blur.kind"},
		{"even blur kernel", func(c *Config) { c.Blur.KernelSize = 4 }, "invalid blur.kernel_size"},
		{"zero blur kernel", func(c *Config) { c.Blur.KernelSize = 0 }, "invalid blur.kernel_size"},
		{"negative sigma", func(c *Config) { c.Blur.Sigma = -1 }, "invalid blur.sigma"},
		{"negative workers", func(c *Config) { c.Blur.Workers = -2 }, "invalid blur.workers"},
		{"low at 255", func(c *Config) { c.Canny.Low = 255 }, "invalid canny.low"},
		{"negative low", func(c *Config) { c.Canny.Low = -1 }, "invalid canny.low"},
		{"high above 255", func(c *Config) { c.Canny.High = 256 }, "invalid canny.high"},
		{"canny blur", func(c *Config) { c.Canny.Blur = "x" }, "invalid canny.blur"},
		{"even canny kernel", func(c *Config) { c.Canny.KernelSize = 2 }, "invalid canny.kernel_size"},
		{"operator", func(c *Config) { c.Canny.Operator = "laplace" }, "invalid canny.operator"},
		{"k", func(c *Config) { c.KMeans.K = 0 }, "invalid kmeans.k"},
		{"iterations", func(c *Config) { c.KMeans.MaxIterations = -1 }, "invalid kmeans.max_iterations"},
		{"tile size", func(c *Config) { c.CLAHE.TileSize = 0 }, "invalid clahe.tile_size"},
		{"cdf blur", func(c *Config) { c.CLAHE.CDFBlur = -1 }, "invalid clahe.cdf_blur"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_AcceptsAliases(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Blur.Kind = "Median blur"
	cfg.Canny.Blur = "none"
	cfg.Canny.Operator = "roberts-cross"
	assert.NoError(t, cfg.Validate())
}

func TestBlurFilter(t *testing.T) {
	cfg := DefaultConfig()
	f, err := cfg.BlurFilter()
	require.NoError(t, err)
	assert.Equal(t, blur.Gaussian{Sigma: 2.5}, f)

	cfg.Blur.Kind = "median"
	cfg.Blur.Workers = 3
	f, err = cfg.BlurFilter()
	require.NoError(t, err)
	assert.Equal(t, blur.Median{Workers: 3}, f)
}

func TestCannyParams(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Canny.Operator = "prewitt"
	p, err := cfg.CannyParams()
	require.NoError(t, err)

	assert.Equal(t, 50, p.Low)
	assert.Equal(t, 80, p.High)
	assert.Equal(t, 5, p.KernelSize)
	assert.Equal(t, blur.Gaussian{Sigma: 1.0}, p.Blur)
	assert.Equal(t, edge.KindPrewitt, p.Operator.Kind())
	assert.NoError(t, p.Validate())
}

func TestKMeansParams_SeedIsReproducible(t *testing.T) {
	cfg := DefaultConfig()
	assert.Nil(t, cfg.KMeansParams().Rand)

	cfg.KMeans.Seed = 42
	cfg.KMeans.MaxIterations = 7
	a, b := cfg.KMeansParams(), cfg.KMeansParams()
	assert.Equal(t, 3, a.K)
	assert.Equal(t, 7, a.MaxIterations)
	assert.Equal(t, a.Rand.Uint64(), b.Rand.Uint64())
	assert.Equal(t, cluster.KindKMeans, a.Kind())
}

func TestCLAHEParamsAndChannels(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.CLAHEParams().Validate())
	ch := cfg.Channels()
	assert.True(t, ch.Red && ch.Green && ch.Blue)
	assert.False(t, ch.Gray)
}

func TestYAML_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KMeans.Seed = 9
	out, err := cfg.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(out), "kernel_size: 5")

	var back Config
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, cfg, back)
}
