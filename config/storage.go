package config

import "github.com/caarlos0/env/v11"

type StorageConfig struct {
	LocalRoot   string `env:"STORAGE_ROOT" envDefault:"storage"`
	CleanupDays int    `env:"CLEANUP_DAYS" envDefault:"30"`

	// Backend picks the storage variant: "local", "s3", or "auto" which
	// selects S3 whenever credentials are configured.
	Backend string `env:"STORAGE_BACKEND" envDefault:"auto"`
}

func GetStorageConfig() (*StorageConfig, error) {
	cfg := &StorageConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
