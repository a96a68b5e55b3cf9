package adapter

import (
	"net"
	"strconv"
	"strings"

	"github.com/cubefs/metabench/client"
	"github.com/cubefs/metabench/common/config"
	"github.com/cubefs/metabench/proto"
)

type (
	Config struct {
		Master    MasterConfig    `mapstructure:"master"`
		Client    ClientOptions   `mapstructure:"client"`
		Namespace NamespaceConfig `mapstructure:"namespace"`
	}
	MasterConfig struct {
		Hostname string `mapstructure:"hostname" validate:"required"`
		Port     int    `mapstructure:"port" validate:"gt=0,lte=65535"`
		// Addresses overrides Hostname and Port with a host:port list.
		Addresses string `mapstructure:"addresses"`
	}
	ClientOptions struct {
		Threads           int    `mapstructure:"threads" validate:"gte=1"`
		ConnectTimeoutMs  uint32 `mapstructure:"connect_timeout_ms"`
		KeepaliveTimeoutS uint32 `mapstructure:"keepalive_timeout_s"`
	}
	NamespaceConfig struct {
		Root string `mapstructure:"root" validate:"required,startswith=/"`
	}
)

func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"master.hostname":            "localhost",
		"master.port":                proto.DefaultMasterPort,
		"master.addresses":           "",
		"client.threads":             4000,
		"client.connect_timeout_ms":  3000,
		"client.keepalive_timeout_s": 20,
		"namespace.root":             proto.DefaultRootDir,
	}
}

// LoadConfig reads the adapter configuration from a properties file.
func LoadConfig(path string) (*Config, error) {
	p, err := config.Load(path, config.DefaultEnvPrefix, Defaults())
	if err != nil {
		return nil, err
	}
	return ConfigFrom(p)
}

// ConfigFrom decodes the adapter configuration from loaded properties, the
// adapter defaults must have been passed to config.Load.
func ConfigFrom(p *config.Properties) (*Config, error) {
	cfg := &Config{}
	if err := p.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) MasterAddresses() string {
	if addrs := strings.TrimSpace(cfg.Master.Addresses); addrs != "" {
		return addrs
	}
	return net.JoinHostPort(cfg.Master.Hostname, strconv.Itoa(cfg.Master.Port))
}

func (cfg *Config) ClientConfig() *client.Config {
	return &client.Config{
		MasterAddresses:     cfg.MasterAddresses(),
		MasterClientThreads: cfg.Client.Threads,
		AuthType:            proto.AuthTypeNoSASL,
		TransportConfig: client.TransportConfig{
			ConnectTimeoutMs:  cfg.Client.ConnectTimeoutMs,
			KeepaliveTimeoutS: cfg.Client.KeepaliveTimeoutS,
		},
	}
}
