package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type S3Config struct {
	BucketName      string        `env:"S3_BUCKET_NAME" envDefault:"gitbridge-podcasts"`
	Region          string        `env:"AWS_REGION" envDefault:"us-east-1"`
	AccessKeyID     string        `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string        `env:"AWS_SECRET_ACCESS_KEY"`
	URLTTL          time.Duration `env:"S3_URL_TTL" envDefault:"1h"`
}

func GetS3Config() (*S3Config, error) {
	cfg := &S3Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Enabled reports whether S3 credentials are configured. The storage variant
// is selected once at startup from this and never changes afterwards.
func (c *S3Config) Enabled() bool {
	return c.AccessKeyID != "" && c.SecretAccessKey != ""
}
