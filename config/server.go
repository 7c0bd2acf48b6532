package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	Addr              string `env:"SERVER_ADDR" envDefault:":8080"`
	MockCollaborators bool   `env:"MOCK_COLLABORATORS" envDefault:"false"`
}

func GetServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
