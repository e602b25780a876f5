package config

import "github.com/caarlos0/env/v11"

type Config struct {
	MqttCfg   *MqttConfig
	NatsCfg   *NatsConfig
	ServerCfg *ServerConfig
	LogLevel  string `env:"LOG_LEVEL" envDefault:"INFO"`
}

type MqttConfig struct {
	Host            string `env:"MQTT_HOST"`
	Username        string `env:"MQTT_USER"`
	Password        string `env:"MQTT_PASS"`
	DiscoveryPrefix string `env:"MQTT_DISCOVERY_PREFIX" envDefault:"homeassistant"`
}

type NatsConfig struct {
	URL string `env:"NATS_URL"`
}

type ServerConfig struct {
	Addr string `env:"HTTP_ADDR" envDefault:"0.0.0.0:8000"`
	// APIPasswordHash is a bcrypt hash; the matching plaintext is exchanged
	// for a bearer token on the auth endpoint.
	APIPasswordHash string `env:"API_PASSWORD_HASH"`
	JWTSecret       string `env:"JWT_SECRET"`
}

// FromEnv builds a Config purely from the environment. CLI flags layered on
// top in main take precedence.
func FromEnv() (*Config, error) {
	cfg := &Config{
		MqttCfg:   &MqttConfig{},
		NatsCfg:   &NatsConfig{},
		ServerCfg: &ServerConfig{},
	}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
