// Package config loads service settings from the environment and an
// optional config file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the typed view of every setting the binaries read.
type Config struct {
	Port string

	PlayersTable  string
	AnalysisTable string
	SnapshotPath  string
	AWSRegion     string
	DynamoDBURL   string

	SleeperBaseURL     string
	FleaflickerBaseURL string
	FantasyCalcBaseURL string
	UpstreamTimeout    time.Duration
	UpstreamRetries    int
	UpstreamUserAgent  string
	SleeperRatePerSec  float64

	DirectoryReloadCron string
	AnalysisConcurrency int

	LogLevel       string
	LogFormat      string
	MetricsEnabled bool
	Debug          bool

	SnapshotBucket string
	SnapshotKey    string
}

// Load reads settings. Environment variables always win over the file;
// path may be empty.
func Load(path string) (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Port:                v.GetString("PORT"),
		PlayersTable:        v.GetString("PLAYER_VALUES_TABLE_NAME"),
		AnalysisTable:       v.GetString("ANALYSIS_TABLE_NAME"),
		SnapshotPath:        v.GetString("PLAYER_SNAPSHOT_PATH"),
		AWSRegion:           v.GetString("AWS_REGION"),
		DynamoDBURL:         v.GetString("DYNAMODB_ENDPOINT"),
		SleeperBaseURL:      v.GetString("SLEEPER_BASE_URL"),
		FleaflickerBaseURL:  v.GetString("FLEAFLICKER_BASE_URL"),
		FantasyCalcBaseURL:  v.GetString("FANTASYCALC_BASE_URL"),
		UpstreamTimeout:     v.GetDuration("UPSTREAM_TIMEOUT"),
		UpstreamRetries:     v.GetInt("UPSTREAM_MAX_RETRIES"),
		UpstreamUserAgent:   v.GetString("UPSTREAM_USER_AGENT"),
		SleeperRatePerSec:   v.GetFloat64("SLEEPER_RATE_PER_SEC"),
		DirectoryReloadCron: v.GetString("DIRECTORY_RELOAD_CRON"),
		AnalysisConcurrency: v.GetInt("ANALYSIS_CONCURRENCY"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		LogFormat:           v.GetString("LOG_FORMAT"),
		MetricsEnabled:      v.GetBool("METRICS_ENABLED"),
		Debug:               v.GetBool("DEBUG"),
		SnapshotBucket:      v.GetString("SNAPSHOT_BUCKET"),
		SnapshotKey:         v.GetString("SNAPSHOT_KEY"),
	}
	if cfg.AnalysisTable == "" {
		cfg.AnalysisTable = cfg.PlayersTable
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
		if cfg.Debug {
			cfg.LogLevel = "debug"
		}
	}
	return cfg, cfg.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("PLAYER_VALUES_TABLE_NAME", "PlayerValues")
	v.SetDefault("ANALYSIS_TABLE_NAME", "")
	v.SetDefault("PLAYER_SNAPSHOT_PATH", "data/enriched_players_master.json")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("DYNAMODB_ENDPOINT", "")
	v.SetDefault("SLEEPER_BASE_URL", "https://api.sleeper.app/v1")
	v.SetDefault("FLEAFLICKER_BASE_URL", "https://www.fleaflicker.com/api")
	v.SetDefault("FANTASYCALC_BASE_URL", "https://api.fantasycalc.com")
	v.SetDefault("UPSTREAM_TIMEOUT", "10s")
	v.SetDefault("UPSTREAM_MAX_RETRIES", 2)
	v.SetDefault("UPSTREAM_USER_AGENT", "Volatile/1.0 (FantasyFootballAnalysis)")
	v.SetDefault("SLEEPER_RATE_PER_SEC", 15.0)
	v.SetDefault("DIRECTORY_RELOAD_CRON", "")
	v.SetDefault("ANALYSIS_CONCURRENCY", 4)
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("DEBUG", false)
	v.SetDefault("SNAPSHOT_BUCKET", "")
	v.SetDefault("SNAPSHOT_KEY", "directory/enriched_players_master.json")
}

func (c Config) Validate() error {
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("config: UPSTREAM_TIMEOUT must be positive")
	}
	if c.UpstreamRetries < 0 {
		return fmt.Errorf("config: UPSTREAM_MAX_RETRIES must not be negative")
	}
	if c.AnalysisConcurrency <= 0 {
		return fmt.Errorf("config: ANALYSIS_CONCURRENCY must be positive")
	}
	if c.PlayersTable == "" && c.SnapshotPath == "" {
		return fmt.Errorf("config: need PLAYER_VALUES_TABLE_NAME or PLAYER_SNAPSHOT_PATH")
	}
	return nil
}
