package config

import (
	"fmt"
	"net/url"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.Endpoint)
	if err != nil {
		return fmt.Errorf("api.endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.endpoint must be an http(s) URL (got %q)", c.API.Endpoint)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be > 0 (got %v)", c.API.Timeout)
	}

	if c.State.CookieName == "" {
		return fmt.Errorf("state.cookie_name must not be empty")
	}
	if c.State.CookieMaxAge <= 0 {
		return fmt.Errorf("state.cookie_max_age must be > 0 (got %v)", c.State.CookieMaxAge)
	}
	if c.State.CookiePath == "" {
		return fmt.Errorf("state.cookie_path must not be empty")
	}

	return nil
}
