// Package config provides the default settings and the viper-backed
// runtime configuration for the access log analyzer
package config

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// DefaultDatasetURL is the access log downloaded when no --url flag
	// or ACCESS_LOG_URL environment variable is provided
	DefaultDatasetURL = "https://raw.githubusercontent.com/elastic/examples/master/Common%20Data%20Formats/nginx_logs/nginx_logs"

	// DefaultOutputDir is where the JSON and chart artifacts are written
	DefaultOutputDir = "."

	// DefaultDatabaseFile is the default SQLite database filename
	// used by both load and query commands when no --db flag is provided
	DefaultDatabaseFile = "requests.db"

	// DatabaseFileDescription is the help text description for the database file flag
	DatabaseFileDescription = "Path to SQLite database file"

	// DefaultTopPaths is the default size of the top-paths breakdown
	DefaultTopPaths = 10

	// DefaultFetchTimeout bounds the log download; the reference behavior
	// has no timeout but a hanging fetch should not hang the whole run
	DefaultFetchTimeout = 60 * time.Second

	// RecordsFile is the persisted parsed-record array filename
	RecordsFile = "logs_processed.json"

	// ReportFile is the summary report filename
	ReportFile = "analysis_report.json"

	// envPrefix maps config keys to environment variables, e.g.
	// ACCESS_LOG_URL overrides the "url" key
	envPrefix = "ACCESS_LOG"
)

// Settings holds the effective runtime configuration for one run
type Settings struct {
	DatasetURL   string
	OutputDir    string
	TopPaths     int
	FetchTimeout time.Duration
}

// Init registers defaults and environment bindings. Precedence, lowest
// to highest: defaults, environment, bound command-line flags.
func Init() {
	viper.SetDefault("url", DefaultDatasetURL)
	viper.SetDefault("out", DefaultOutputDir)
	viper.SetDefault("top", DefaultTopPaths)
	viper.SetDefault("timeout", DefaultFetchTimeout)
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
}

// BindFlag ties a command-line flag to the configuration key of the same
// name; a flag set by the user takes precedence over environment and
// defaults
func BindFlag(flags *pflag.FlagSet, name string) {
	_ = viper.BindPFlag(name, flags.Lookup(name))
}

// Load returns the effective settings for the current run
func Load() Settings {
	return Settings{
		DatasetURL:   viper.GetString("url"),
		OutputDir:    viper.GetString("out"),
		TopPaths:     viper.GetInt("top"),
		FetchTimeout: viper.GetDuration("timeout"),
	}
}
