// Package config loads the classification tool's configuration from an
// optional YAML file with STELLAR_SONAR_* environment overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/RyanBlaney/stellar-sonar/algorithms/lombscargle"
)

// Config represents the complete application configuration.
type Config struct {
	Data        DataConfig        `mapstructure:"data"`
	Periodogram PeriodogramConfig `mapstructure:"periodogram"`
	Training    TrainingConfig    `mapstructure:"training"`
	Output      OutputConfig      `mapstructure:"output"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// DataConfig locates the input data.
type DataConfig struct {
	// DBPath is the photometry database with per-star light curves.
	DBPath string `mapstructure:"db_path"`
	// StarsPath is the star catalog CSV with one id,class row per star.
	StarsPath string `mapstructure:"stars_path"`
}

// PeriodogramConfig holds the spectral search parameters.
type PeriodogramConfig struct {
	FirstFreq       float64 `mapstructure:"first_freq"`
	MaxFreqToSeek   float64 `mapstructure:"max_freq_to_seek"`
	FreqSampleCount int     `mapstructure:"freq_sample_count"`
	NumPeaks        int     `mapstructure:"num_peaks"`
}

// Properties converts the section into periodogram engine properties.
func (p PeriodogramConfig) Properties() lombscargle.Properties {
	return lombscargle.Properties{
		FirstFreq:       p.FirstFreq,
		MaxFreqToSeek:   p.MaxFreqToSeek,
		FreqSampleCount: p.FreqSampleCount,
		NumPeaks:        p.NumPeaks,
	}
}

// TrainingConfig holds classifier training parameters.
type TrainingConfig struct {
	// MinCardinal is the minimum number of stars a class needs to be
	// trained on.
	MinCardinal int `mapstructure:"min_cardinal"`
	// TrainPercent is the percentage of each class used for training
	// in evaluation mode, in [1, 99].
	TrainPercent int `mapstructure:"train_percent"`
	// Trees is the random-forest size, in [1, 200].
	Trees int `mapstructure:"trees"`
	// Seed makes splits and training reproducible.
	Seed int64 `mapstructure:"seed"`
}

// OutputConfig locates the files a run produces.
type OutputConfig struct {
	// Dir receives confusion matrices and prediction files.
	Dir string `mapstructure:"dir"`
	// FeaturesBase is the base name for per-filter feature CSVs.
	FeaturesBase string `mapstructure:"features_base"`
	// ModelBase is the base name for per-filter model files.
	ModelBase string `mapstructure:"model_base"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from an optional file and environment
// variables. An empty path uses defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("STELLAR_SONAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options.
func setDefaults(v *viper.Viper) {
	v.SetDefault("data.db_path", "./data/photometry.db")
	v.SetDefault("data.stars_path", "./data/stars.csv")

	v.SetDefault("periodogram.first_freq", 1.0)
	v.SetDefault("periodogram.max_freq_to_seek", 10000.0)
	v.SetDefault("periodogram.freq_sample_count", 200)
	v.SetDefault("periodogram.num_peaks", 3)

	v.SetDefault("training.min_cardinal", 15)
	v.SetDefault("training.train_percent", 65)
	v.SetDefault("training.trees", 50)
	v.SetDefault("training.seed", 1)

	v.SetDefault("output.dir", "./out")
	v.SetDefault("output.features_base", "./out/features.csv")
	v.SetDefault("output.model_base", "./out/stars.model")

	v.SetDefault("logging.level", "info")
}

// Validate checks that all configuration values are valid.
func (c *Config) Validate() error {
	if c.Data.DBPath == "" {
		return fmt.Errorf("data.db_path is required")
	}
	if c.Data.StarsPath == "" {
		return fmt.Errorf("data.stars_path is required")
	}

	if err := c.Periodogram.Properties().Validate(); err != nil {
		return fmt.Errorf("periodogram: %w", err)
	}

	if c.Training.MinCardinal < 1 {
		return fmt.Errorf("training.min_cardinal must be at least 1")
	}
	if c.Training.TrainPercent < 1 || c.Training.TrainPercent > 99 {
		return fmt.Errorf("training.train_percent must be between 1 and 99")
	}
	if c.Training.Trees < 1 || c.Training.Trees > 200 {
		return fmt.Errorf("training.trees must be between 1 and 200")
	}

	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	if c.Output.FeaturesBase == "" {
		return fmt.Errorf("output.features_base is required")
	}
	if c.Output.ModelBase == "" {
		return fmt.Errorf("output.model_base is required")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "fatal": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error, fatal")
	}

	return nil
}
