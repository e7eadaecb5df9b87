package config

import (
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Category is one marketplace category the scanner walks.
type Category struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Strategy is one query shape run against every category. A nil price bound
// leaves that bound out of the provider query.
type Strategy struct {
	Name     string `yaml:"name"`
	PriceMin *int   `yaml:"price_min"`
	PriceMax *int   `yaml:"price_max"`
	Keywords string `yaml:"keywords"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		Env     string `yaml:"env"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`

	Provider struct {
		BaseURL        string  `yaml:"base_url"`
		UserAgent      string  `yaml:"user_agent"`
		TimeoutSec     int     `yaml:"timeout_sec"`
		RequestsPerSec float64 `yaml:"requests_per_sec"`
		Burst          int     `yaml:"burst"`
	} `yaml:"provider"`

	Scan struct {
		IntervalMinutes    int        `yaml:"interval_minutes"`
		MinIntervalMinutes int        `yaml:"min_interval_minutes"`
		RetentionDays      int        `yaml:"retention_days"`
		ResultLimit        int        `yaml:"result_limit"`
		PriceCeiling       float64    `yaml:"price_ceiling"`
		Categories         []Category `yaml:"categories"`
		Strategies         []Strategy `yaml:"strategies"`
	} `yaml:"scan"`

	// Reference is the point distances are computed from.
	Reference struct {
		Lat float64 `yaml:"lat"`
		Lng float64 `yaml:"lng"`
	} `yaml:"reference"`
}

func (c Config) ScanInterval() time.Duration {
	return time.Duration(c.Scan.IntervalMinutes) * time.Minute
}

func (c Config) MinScanInterval() time.Duration {
	return time.Duration(c.Scan.MinIntervalMinutes) * time.Minute
}

func (c Config) Retention() time.Duration {
	return time.Duration(c.Scan.RetentionDays) * 24 * time.Hour
}

func (c Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Provider.TimeoutSec) * time.Second
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(expandEnvVars(b), &cfg); err != nil {
		return cfg, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func intPtr(v int) *int { return &v }

// ApplyDefaults fills empty fields. The scan defaults mirror the marketplace
// deployment this engine was built for: four second-hand electronics
// categories, a free-only pass, a giveaway keyword pass, and a low-price band.
func (c *Config) ApplyDefaults() {
	if c.App.Port <= 0 {
		c.App.Port = 3000
	}
	if c.App.Env == "" {
		c.App.Env = "local"
	}
	if c.App.DataDir == "" {
		c.App.DataDir = "."
	}
	if c.Provider.UserAgent == "" {
		c.Provider.UserAgent = "DealRadar/1.0 (+local)"
	}
	if c.Provider.TimeoutSec <= 0 {
		c.Provider.TimeoutSec = 20
	}
	if c.Provider.RequestsPerSec <= 0 {
		c.Provider.RequestsPerSec = 5
	}
	if c.Provider.Burst <= 0 {
		c.Provider.Burst = 1
	}
	if c.Scan.IntervalMinutes <= 0 {
		c.Scan.IntervalMinutes = 60
	}
	if c.Scan.MinIntervalMinutes <= 0 {
		c.Scan.MinIntervalMinutes = 15
	}
	if c.Scan.RetentionDays <= 0 {
		c.Scan.RetentionDays = 31
	}
	if c.Scan.ResultLimit <= 0 {
		c.Scan.ResultLimit = 35
	}
	if c.Scan.PriceCeiling <= 0 {
		c.Scan.PriceCeiling = 50
	}
	if len(c.Scan.Categories) == 0 {
		c.Scan.Categories = []Category{
			{ID: "14", Name: "electronics"},
			{ID: "15", Name: "computers"},
			{ID: "16", Name: "photo_video"},
			{ID: "83", Name: "accessories"},
		}
	}
	if len(c.Scan.Strategies) == 0 {
		c.Scan.Strategies = []Strategy{
			{Name: "free", PriceMin: intPtr(0), PriceMax: intPtr(0)},
			{Name: "giveaway", Keywords: "don"},
			{Name: "low_price", PriceMin: intPtr(1), PriceMax: intPtr(50)},
		}
	}
	if c.Reference.Lat == 0 && c.Reference.Lng == 0 {
		c.Reference.Lat = 48.852968
		c.Reference.Lng = 2.349902
	}
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} before parsing.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		name, def, hasDef := strings.Cut(expr, ":-")
		val := os.Getenv(name)
		if val == "" && hasDef {
			val = def
		}
		return []byte(val)
	})
}
