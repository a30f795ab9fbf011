package config

import "time"

// Config is the root application configuration.
type Config struct {
	API   APIConfig   `yaml:"api"`
	State StateConfig `yaml:"state"`
	Cache CacheConfig `yaml:"cache"`
	Log   LogConfig   `yaml:"log"`
}

// APIConfig holds settings for the remote records GraphQL endpoint.
type APIConfig struct {
	Endpoint string        `yaml:"endpoint" env:"API_ENDPOINT" env-default:"http://localhost:8000/graphql"`
	Timeout  time.Duration `yaml:"timeout"  env:"API_TIMEOUT"  env-default:"15s"`
}

// StateConfig holds local session-state settings. Dir defaults to
// ~/.prontuario when empty (resolved by the caller, not here, so tests can
// point it at a temp dir).
type StateConfig struct {
	Dir          string        `yaml:"dir"             env:"STATE_DIR"`
	CookieName   string        `yaml:"cookie_name"     env:"STATE_COOKIE_NAME"    env-default:"healthcareToken"`
	CookieMaxAge time.Duration `yaml:"cookie_max_age"  env:"STATE_COOKIE_MAX_AGE" env-default:"168h"`
	CookiePath   string        `yaml:"cookie_path"     env:"STATE_COOKIE_PATH"    env-default:"/"`
}

// CacheConfig holds settings for the local read-through patient cache.
// Path defaults to <state dir>/cache.db when empty. The field is Disabled
// rather than Enabled so the zero value means "cache on": an env-default
// on a bool would clobber an explicit false coming from YAML.
type CacheConfig struct {
	Disabled bool   `yaml:"disabled" env:"CACHE_DISABLED"`
	Path     string `yaml:"path"     env:"CACHE_PATH"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}
