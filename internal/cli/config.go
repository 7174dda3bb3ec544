package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds CLI configuration, resolved from (highest precedence first)
// command-line flags, BATTLESHIP_* environment variables, and
// ~/.battleship/config.yaml
type Config struct {
	ServerURL       string `mapstructure:"server_url"`
	WebSocketURL    string `mapstructure:"websocket_url"`
	CredentialsPath string `mapstructure:"credentials_path"`
	Output          string `mapstructure:"output"`
	Verbose         bool   `mapstructure:"verbose"`
}

// LoadConfig resolves the configuration
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("server_url", "http://localhost:8080")
	v.SetDefault("websocket_url", "ws://localhost:8080/ws")
	v.SetDefault("credentials_path", "")
	v.SetDefault("output", "text")
	v.SetDefault("verbose", false)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir())

	v.SetEnvPrefix("battleship")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; anything else is not
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".battleship"
	}
	return filepath.Join(home, ".battleship")
}
