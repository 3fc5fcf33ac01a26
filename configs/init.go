package configs

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type configs struct {
	Service   ServiceConfig   `yaml:"service"`
	MongoDB   MongoDBConfig   `yaml:"mongodb"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	Email     EmailConfig     `yaml:"email"`
	Directory DirectoryConfig `yaml:"directory"`
	Cors      CorsConfig      `yaml:"cors"`
	Logs      LogsConfig      `yaml:"logs"`
}

// Configs holds the loaded configuration. Init must run before anything reads it.
var Configs configs

// Init loads configuration from the given yaml file. When path is empty,
// the CONFIG_PATH environment variable is consulted, then the default
// ./configs/configs.yaml.
func Init(path string) error {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "./configs/configs.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &Configs); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return Configs.validate()
}

func (c *configs) validate() error {
	if c.Auth.JwtSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	switch c.Directory.Mode {
	case DirectoryModeMongo, DirectoryModeStatic, DirectoryModeOff, "":
	default:
		return fmt.Errorf("directory.mode must be mongo, static or off, got %q", c.Directory.Mode)
	}
	return nil
}
