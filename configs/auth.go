package configs

type AuthConfig struct {
	// JwtSecret is the HMAC secret used to verify bearer tokens issued
	// by the authentication service.
	JwtSecret string `yaml:"jwt_secret"`
}
