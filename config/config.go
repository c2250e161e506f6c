// Package config contains keyward node configuration definitions.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/keyward/keyward/api/httpapi"
	"github.com/keyward/keyward/gateway/client"
	"github.com/keyward/keyward/gateway/service"
	"github.com/keyward/keyward/log"
)

const defaultConfigFileName = "./config.toml"

// Config defines the top level configuration for a keyward node.
type Config struct {
	BaseConfig `mapstructure:"main"`
	Deployment DeploymentConfig `mapstructure:"deployment"`
	API        httpapi.Config   `mapstructure:"api"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Gateway    service.Config   `mapstructure:"gateway"`
	Client     client.Config    `mapstructure:"client"`
}

// BaseConfig defines the default configuration options for a node.
type BaseConfig struct {
	DataDir    string `mapstructure:"data-dir"`
	ConfigFile string `mapstructure:"config"`
	Preset     string `mapstructure:"preset"`
	LogLevel   string `mapstructure:"log-level"`
	LogEncoder string `mapstructure:"log-encoder"`
	// DatabaseConnections is the size of the sqlite connection pool.
	DatabaseConnections int `mapstructure:"db-connections"`
	// DatabaseLatencyMetering records a duration histogram for every query.
	DatabaseLatencyMetering bool `mapstructure:"db-latency-metering"`
}

// DeploymentConfig describes the deployment created on first start.
type DeploymentConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	ChainID uint64 `mapstructure:"chain-id"`
	// Address is the verifying contract of typed-data signatures and the sender of lookups.
	Address string   `mapstructure:"address"`
	Owner   string   `mapstructure:"owner"`
	URLs    []string `mapstructure:"gateway-urls"`

	// Attesters are hex encoded ed25519 keys trusted to attest liveness.
	Attesters         []string      `mapstructure:"attesters"`
	MaxAttestationAge time.Duration `mapstructure:"max-attestation-age"`
	// GatewaySigners are hex encoded ed25519 keys trusted to sign gateway responses.
	// Responses are passed through unverified when empty.
	GatewaySigners []string `mapstructure:"gateway-signers"`

	// Balances are credited to addresses when the deployment is created.
	Balances map[string]uint64 `mapstructure:"balances"`
}

// MetricsConfig for the prometheus endpoint.
type MetricsConfig struct {
	Enable bool   `mapstructure:"enable"`
	Listen string `mapstructure:"listen"`

	PushURL    string        `mapstructure:"push-url"`
	PushPeriod time.Duration `mapstructure:"push-period"`
}

// DatabasePath is the location of the node database.
func (cfg *Config) DatabasePath() string {
	return filepath.Join(cfg.DataDir, "state.sql")
}

// DefaultConfig returns the default configuration for a keyward node.
func DefaultConfig() Config {
	return Config{
		BaseConfig: BaseConfig{
			DataDir:             "./keyward",
			LogLevel:            "info",
			LogEncoder:          log.ConsoleEncoder,
			DatabaseConnections: 4,
		},
		Deployment: DeploymentConfig{
			Name:              "keyward",
			Version:           "1",
			ChainID:           1,
			MaxAttestationAge: 5 * time.Minute,
		},
		API: httpapi.DefaultConfig(),
		Metrics: MetricsConfig{
			Listen:     "127.0.0.1:9093",
			PushPeriod: time.Minute,
		},
		Gateway: service.DefaultConfig(),
		Client:  client.DefaultConfig(),
	}
}

// LoadConfig reads the config file into vip. A missing default file is not an error.
func LoadConfig(fileLocation string, vip *viper.Viper) error {
	explicit := fileLocation != ""
	if !explicit {
		fileLocation = defaultConfigFileName
	}
	vip.SetConfigFile(fileLocation)
	if err := vip.ReadInConfig(); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file %w", err)
	}
	return nil
}
