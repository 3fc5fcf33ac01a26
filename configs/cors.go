package configs

type CorsConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}
