package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort     string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL  string `env:"DATABASE_URL,required"`
	ClientDomain string `env:"CLIENT_DOMAIN" envDefault:"http://localhost:3000"`

	AccessTokenSecret      string `env:"ACCESS_TOKEN_JWT_KEY,required"`
	RefreshTokenSecret     string `env:"REFRESH_TOKEN_JWT_KEY,required"`
	AccessTokenTTLMinutes  int    `env:"ACCESS_TOKEN_TTL_MINUTES" envDefault:"15"`
	RefreshTokenTTLMinutes int    `env:"REFRESH_TOKEN_TTL_MINUTES" envDefault:"10080"`
	VerificationTTLHours   int    `env:"VERIFICATION_TTL_HOURS" envDefault:"24"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPass     string `env:"SMTP_PASS"`
	SMTPFrom     string `env:"SMTP_FROM"`
	SMTPFromName string `env:"SMTP_FROM_NAME"`
	SMTPUseTLS   bool   `env:"SMTP_USE_TLS" envDefault:"false"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	S3Region    string `env:"S3_REGION"`
	S3Bucket    string `env:"S3_BUCKET_NAME"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
