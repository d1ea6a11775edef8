package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/voltrack-cli/internal/dashboard"
	"github.com/KaramelBytes/voltrack-cli/internal/stats"
)

// Global configuration structure.
type Global struct {
	// ReferenceYear is used to derive ages; 0 means the current year.
	ReferenceYear     int  `mapstructure:"reference_year" yaml:"reference_year"`
	CollapseThreshold int  `mapstructure:"collapse_threshold" yaml:"collapse_threshold"`
	EncodeOrdinals    bool `mapstructure:"encode_ordinals" yaml:"encode_ordinals"`
	// DateOrder is day_first or month_first.
	DateOrder string `mapstructure:"date_order" yaml:"date_order"`

	// Dataset intake
	MaxRows   int    `mapstructure:"max_rows" yaml:"max_rows"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`

	StudiesDir string `mapstructure:"studies_dir" yaml:"studies_dir"`
	ServerAddr string `mapstructure:"server_addr" yaml:"server_addr"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	Columns      dashboard.Columns `mapstructure:"columns" yaml:"columns"`
	AlcoholScale map[string]int    `mapstructure:"alcohol_scale" yaml:"alcohol_scale,omitempty"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.voltrack/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := homeDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("VOLTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("reference_year", 0)
	v.SetDefault("collapse_threshold", stats.DefaultCollapseThreshold)
	v.SetDefault("encode_ordinals", false)
	v.SetDefault("date_order", string(stats.DayFirst))
	v.SetDefault("max_rows", 0)
	v.SetDefault("delimiter", "")
	v.SetDefault("studies_dir", "")
	v.SetDefault("server_addr", ":8080")
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "console")
	// nested keys need a default to be reachable from env
	cols := dashboard.DefaultColumns()
	for _, k := range cols.Keys() {
		p, _ := cols.Field(k)
		v.SetDefault("columns."+k, *p)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := homeDir()
		if err != nil {
			return nil, err
		}
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Columns = c.Columns.WithDefaults()
	order, err := stats.ParseDateOrder(c.DateOrder)
	if err != nil {
		return nil, err
	}
	c.DateOrder = string(order)
	if c.StudiesDir == "" {
		dir, err := homeDir()
		if err != nil {
			return nil, err
		}
		c.StudiesDir = filepath.Join(dir, "studies")
	}
	return &c, nil
}

func homeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".voltrack"), nil
}

// Year returns the reference year, falling back to the year of now.
func (c *Global) Year(now time.Time) int {
	if c.ReferenceYear > 0 {
		return c.ReferenceYear
	}
	return now.Year()
}

// DelimiterRune decodes the delimiter setting. "tab" and `\t` select a tab;
// empty means auto-detect.
func (c *Global) DelimiterRune() (rune, error) {
	return ParseDelimiter(c.Delimiter)
}

// ParseDelimiter decodes a delimiter flag or setting.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return 0, nil
	case "tab", `\t`, "\t":
		return '\t', nil
	case "comma":
		return ',', nil
	case "semicolon":
		return ';', nil
	}
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("invalid delimiter %q: want a single character", s)
	}
	return r[0], nil
}

// Options converts the configuration into dashboard options.
func (c *Global) Options(now time.Time) dashboard.Options {
	opt := dashboard.DefaultOptions(c.Year(now))
	opt.CollapseThreshold = c.CollapseThreshold
	opt.EncodeOrdinals = c.EncodeOrdinals
	if order, err := stats.ParseDateOrder(c.DateOrder); err == nil {
		opt.DateOrder = order
	}
	if len(c.AlcoholScale) > 0 {
		opt.AlcoholScale = c.AlcoholScale
	}
	return opt
}

// Keys lists the settable keys.
func Keys() []string {
	keys := []string{
		"reference_year", "collapse_threshold", "encode_ordinals", "date_order", "max_rows", "delimiter",
		"studies_dir", "server_addr", "log_level", "log_format",
	}
	var cols dashboard.Columns
	for _, k := range cols.Keys() {
		keys = append(keys, "columns."+k)
	}
	sort.Strings(keys)
	return keys
}

// Set assigns a single key from its string form.
func (c *Global) Set(key, val string) error {
	switch key {
	case "reference_year":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for reference_year: %v", val)
		}
		c.ReferenceYear = i
	case "collapse_threshold":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for collapse_threshold: %w", err)
		}
		c.CollapseThreshold = i
	case "encode_ordinals":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for encode_ordinals: %w", err)
		}
		c.EncodeOrdinals = b
	case "date_order":
		order, err := stats.ParseDateOrder(val)
		if err != nil {
			return err
		}
		c.DateOrder = string(order)
	case "max_rows":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for max_rows: %v", val)
		}
		c.MaxRows = i
	case "delimiter":
		if _, err := ParseDelimiter(val); err != nil {
			return err
		}
		c.Delimiter = val
	case "studies_dir":
		c.StudiesDir = val
	case "server_addr":
		c.ServerAddr = val
	case "log_level":
		switch strings.ToLower(val) {
		case "trace", "debug", "info", "warn", "warning", "error", "disabled", "off":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s", val)
		}
	case "log_format":
		switch strings.ToLower(val) {
		case "console", "json":
			c.LogFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_format: %s (use console or json)", val)
		}
	default:
		name, ok := strings.CutPrefix(key, "columns.")
		if !ok {
			return fmt.Errorf("unknown key: %s", key)
		}
		p, ok := c.Columns.Field(name)
		if !ok {
			return fmt.Errorf("unknown column key: %s", name)
		}
		*p = val
	}
	return nil
}
