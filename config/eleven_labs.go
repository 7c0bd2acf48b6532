package config

import "github.com/caarlos0/env/v11"

type ElevenLabsConfig struct {
	ApiUrl            string  `env:"ELEVEN_LABS_API_URL" envDefault:"https://api.elevenlabs.io/v1"`
	ApiKey            string  `env:"ELEVEN_LABS_API_KEY"`
	ModelId           string  `env:"ELEVEN_LABS_MODEL_ID" envDefault:"eleven_multilingual_v2"`
	RequestsPerSecond float64 `env:"ELEVEN_LABS_RPS" envDefault:"2"`
}

func GetElevenLabsConfig() (*ElevenLabsConfig, error) {
	cfg := &ElevenLabsConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
