package config

import "fmt"

// Validate runs after ApplyDefaults, so it only rejects values a user set
// explicitly wrong or left out with no usable default.
func (c Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("app.port must be between 1 and 65535, got %d", c.App.Port)
	}
	if c.Provider.BaseURL == "" {
		return fmt.Errorf("provider.base_url is required")
	}
	if c.Scan.MinIntervalMinutes > c.Scan.IntervalMinutes {
		return fmt.Errorf("scan.min_interval_minutes (%d) must not exceed scan.interval_minutes (%d)",
			c.Scan.MinIntervalMinutes, c.Scan.IntervalMinutes)
	}
	for i, cat := range c.Scan.Categories {
		if cat.ID == "" {
			return fmt.Errorf("scan.categories[%d].id is required", i)
		}
	}
	for i, s := range c.Scan.Strategies {
		if s.Keywords == "" && s.PriceMin == nil && s.PriceMax == nil {
			return fmt.Errorf("scan.strategies[%d] must set keywords or a price bound", i)
		}
	}
	return nil
}
