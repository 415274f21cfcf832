package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Datasets DatasetsConfig `yaml:"datasets" mapstructure:"datasets"`
	Match    MatchConfig    `yaml:"match" mapstructure:"match"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// DatasetsConfig points at the two input datasets.
type DatasetsConfig struct {
	DS1         string `yaml:"ds1" mapstructure:"ds1"`
	DS2         string `yaml:"ds2" mapstructure:"ds2"`
	MappingFile string `yaml:"mapping_file" mapstructure:"mapping_file"`
}

// MatchConfig configures the fuzzy matcher.
type MatchConfig struct {
	// PostalThreshold is the minimum name score inside postal-based blocks.
	// Postal equality is already a strong constraint, so a weaker name
	// agreement is acceptable there.
	PostalThreshold float64 `yaml:"postal_threshold" mapstructure:"postal_threshold"`
	// CityThreshold is the minimum name score inside city-based fallback
	// blocks, where the blocking constraint is weaker.
	CityThreshold float64 `yaml:"city_threshold" mapstructure:"city_threshold"`
	Concurrency   int     `yaml:"concurrency" mapstructure:"concurrency"`
}

// OutputConfig configures the output artifacts.
type OutputConfig struct {
	Merged  string `yaml:"merged" mapstructure:"merged"`
	Metrics string `yaml:"metrics" mapstructure:"metrics"`
	Format  string `yaml:"format" mapstructure:"format"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("XREF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("datasets.ds1", "data/raw/company_dataset_1.csv")
	v.SetDefault("datasets.ds2", "data/raw/company_dataset_2.csv")
	v.SetDefault("match.postal_threshold", 86)
	v.SetDefault("match.city_threshold", 95)
	v.SetDefault("match.concurrency", 1)
	v.SetDefault("output.merged", "output/merged_companies.csv")
	v.SetDefault("output.metrics", "output/metrics.json")
	v.SetDefault("output.format", "csv")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that configuration values are usable.
func (c *Config) Validate() error {
	if c.Match.PostalThreshold < 0 || c.Match.PostalThreshold > 100 {
		return eris.Errorf("config: match.postal_threshold must be in [0,100] (got %v)", c.Match.PostalThreshold)
	}
	if c.Match.CityThreshold < 0 || c.Match.CityThreshold > 100 {
		return eris.Errorf("config: match.city_threshold must be in [0,100] (got %v)", c.Match.CityThreshold)
	}
	if c.Match.PostalThreshold > c.Match.CityThreshold {
		return eris.New("config: match.postal_threshold must not exceed match.city_threshold")
	}
	if c.Output.Format != "csv" && c.Output.Format != "xlsx" {
		return eris.Errorf("config: output.format must be csv or xlsx (got %q)", c.Output.Format)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
