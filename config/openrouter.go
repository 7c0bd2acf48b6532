package config

import "github.com/caarlos0/env/v11"

type OpenRouterConfig struct {
	ApiUrl string `env:"OPENROUTER_API_URL" envDefault:"https://openrouter.ai/api/v1/chat/completions"`
	ApiKey string `env:"OPENROUTER_API_KEY"`
	Model  string `env:"OPENROUTER_MODEL" envDefault:"openai/gpt-4o-mini"`
}

func GetOpenRouterConfig() (*OpenRouterConfig, error) {
	cfg := &OpenRouterConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
