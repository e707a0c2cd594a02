package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort           string   `env:"HTTP_PORT" envDefault:"8080"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	DatabaseURL        string   `env:"DATABASE_URL,required"`
	DBAutoMigrate      bool     `env:"DB_AUTO_MIGRATE" envDefault:"true"`
	AffinityMatrixPath string   `env:"AFFINITY_MATRIX_PATH"`
	JWTSecret          string   `env:"JWT_SECRET"`
	JWTIssuer          string   `env:"JWT_ISSUER" envDefault:"gamify-hexad"`
	JWTAccessTTLMin    int      `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"15"`
	RedisAddr          string   `env:"REDIS_ADDR"`
	RedisPassword      string   `env:"REDIS_PASSWORD"`
	RedisDB            int      `env:"REDIS_DB" envDefault:"0"`
	RabbitMQURI        string   `env:"RABBITMQ_URI"`
	SubmitWindowSecs   int      `env:"SUBMIT_WINDOW_SECONDS" envDefault:"60"`
	SubmitMaxPerWindow int      `env:"SUBMIT_MAX_PER_WINDOW" envDefault:"5"`
	MetricsNamespace   string   `env:"METRICS_NAMESPACE" envDefault:"hexad"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
