package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config covers both binaries in this module. cmd/registry reads Mode,
// HTTPPort; cmd/chatnode reads all fields. Unused fields for a given
// binary are simply ignored.
type Config struct {
	Mode string `mapstructure:"mode"`

	// Port is the chat node's line-protocol TCP listener, PORT in the
	// environment (default 4040) per the external interface grammar.
	Port int `mapstructure:"port"`

	// HTTPPort serves the node-to-node RPC surface and the operator
	// status endpoint (chat node), or the registry's own API (registry).
	HTTPPort int `mapstructure:"http_port"`

	NodeID       string        `mapstructure:"node_id"`
	NodeAddr     string        `mapstructure:"node_addr"`
	RegistryAddr string        `mapstructure:"registry_addr"`
	RouteTimeout time.Duration `mapstructure:"route_timeout"`
}

// Load reads config/config.<CONFIG_ENV>.yaml (default env "dev"), falling
// back to defaults when the file is absent, then applies environment
// overrides for the handful of values the external interface names
// directly.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 4040)
	v.SetDefault("http_port", 4140)
	v.SetDefault("node_id", "node-1")
	v.SetDefault("node_addr", "http://127.0.0.1:4140")
	v.SetDefault("registry_addr", "http://127.0.0.1:4141")
	v.SetDefault("route_timeout", "5s")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("loaded config: %s\n", fileName)
	}

	_ = v.BindEnv("port", "PORT")
	_ = v.BindEnv("http_port", "HTTP_PORT")
	_ = v.BindEnv("node_id", "NODE_ID")
	_ = v.BindEnv("node_addr", "NODE_ADDR")
	_ = v.BindEnv("registry_addr", "REGISTRY_ADDR")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
