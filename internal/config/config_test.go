package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test,
// standing in for testing.T.Chdir which requires Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir()) // no config.yaml present

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 86.0, cfg.Match.PostalThreshold)
	assert.Equal(t, 95.0, cfg.Match.CityThreshold)
	assert.Equal(t, 1, cfg.Match.Concurrency)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("XREF_MATCH_POSTAL_THRESHOLD", "80")
	t.Setenv("XREF_OUTPUT_FORMAT", "xlsx")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 80.0, cfg.Match.PostalThreshold)
	assert.Equal(t, "xlsx", cfg.Output.Format)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Match:  MatchConfig{PostalThreshold: 86, CityThreshold: 95},
			Output: OutputConfig{Format: "csv"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "threshold out of range",
			mutate:  func(c *Config) { c.Match.CityThreshold = 120 },
			wantErr: "city_threshold",
		},
		{
			name:    "postal stricter than city",
			mutate:  func(c *Config) { c.Match.PostalThreshold = 99 },
			wantErr: "must not exceed",
		},
		{
			name:    "bad output format",
			mutate:  func(c *Config) { c.Output.Format = "parquet" },
			wantErr: "output.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
