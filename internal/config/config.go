package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort              string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL           string `env:"DATABASE_URL,required,notEmpty"`
	RunMigrations         bool   `env:"RUN_MIGRATIONS" envDefault:"true"`
	JWTSecret             string `env:"JWT_SECRET,required,notEmpty"`
	JWTIssuer             string `env:"JWT_ISSUER" envDefault:"factcheck"`
	JWTTTLMinutes         int    `env:"JWT_TTL_MINUTES" envDefault:"10080"`
	RequestTimeoutSeconds int    `env:"REQUEST_TIMEOUT_SECONDS" envDefault:"10"`
	RedisAddr             string `env:"REDIS_ADDR"`
	RedisPassword         string `env:"REDIS_PASSWORD"`
	RedisDB               int    `env:"REDIS_DB" envDefault:"0"`
	ScorerBaseURL         string `env:"SCORER_BASE_URL"`
	ScorerAPIKey          string `env:"SCORER_API_KEY"`
	CheckRateLimit        int    `env:"CHECK_RATE_LIMIT" envDefault:"30"`
	CheckRateWindowMin    int    `env:"CHECK_RATE_WINDOW_MINUTES" envDefault:"60"`
	CORSOrigins           string `env:"CORS_ORIGINS" envDefault:"*"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLMinutes) * time.Minute
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c *Config) CheckRateWindow() time.Duration {
	return time.Duration(c.CheckRateWindowMin) * time.Minute
}

// AllowedOrigins devuelve la lista de origenes CORS; vacia significa todos.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		o = strings.TrimSpace(o)
		if o == "" || o == "*" {
			continue
		}
		out = append(out, o)
	}
	return out
}
