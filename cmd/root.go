package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/voltrack-cli/internal/config"
	"github.com/KaramelBytes/voltrack-cli/internal/dashboard"
	"github.com/KaramelBytes/voltrack-cli/internal/logging"
	"github.com/KaramelBytes/voltrack-cli/internal/stats"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	logFormat string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "voltrack",
	Short: "voltrack: dashboards for volunteer and accident tracking studies",
	Long: `voltrack loads the registration, household, individual and accident datasets of a
volunteer study, derives ages, BMI and severity, and reports frequencies, retention,
monthly registrations and correlations as Markdown, tables, JSON or YAML.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.voltrack/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console|json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = fallbackConfig()
	}
	cfg = c

	lc := logging.DefaultConfig()
	if cfg.LogLevel != "" {
		lc.Level = cfg.LogLevel
	}
	if cfg.LogFormat != "" {
		lc.Format = cfg.LogFormat
	}
	if debug {
		lc.Level = "debug"
	}
	if logFormat != "" {
		lc.Format = logFormat
	}
	logging.Init(lc)
}

// fallbackConfig is used when no configuration could be read.
func fallbackConfig() *cfgpkg.Global {
	return &cfgpkg.Global{
		CollapseThreshold: stats.DefaultCollapseThreshold,
		DateOrder:         string(stats.DayFirst),
		ServerAddr:        ":8080",
		Columns:           dashboard.DefaultColumns(),
	}
}

func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		return fallbackConfig()
	}
	return cfg
}
