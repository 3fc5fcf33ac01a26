package configs

type RedisConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Addresses []string `yaml:"addresses"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
	Database  int      `yaml:"database"`
	Tls       bool     `yaml:"tls"`
	// CacheTTLSeconds bounds how long a cached workspace may be served.
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
}
