package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	Env            string
	LogLevel       string
	DatabaseURL    string // postgres://, mongodb:// or memory://
	MongoDatabase  string
	JWTSecret      string
	JWTIssuer      string
	CORSOrigin     string
	GeminiAPIKey   string
	GeminiModel    string
	RequestTimeout time.Duration

	DefaultTaxRate       float64
	GoalAggressiveRatio  float64
	GoalNoDeadlineMonths float64
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Port:           get("PORT", "8080"),
		Env:            get("APP_ENV", "development"),
		LogLevel:       get("LOG_LEVEL", "info"),
		DatabaseURL:    must("DATABASE_URL"),
		MongoDatabase:  get("MONGO_DATABASE", "finboard"),
		JWTSecret:      must("JWT_SECRET"),
		JWTIssuer:      get("JWT_ISSUER", ""),
		CORSOrigin:     get("CORS_ORIGIN", "*"),
		GeminiAPIKey:   get("GEMINI_API_KEY", ""),
		GeminiModel:    get("GEMINI_MODEL", "gemini-2.5-pro"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 5*time.Second),

		DefaultTaxRate:       getFloat("DEFAULT_TAX_RATE", 0.25),
		GoalAggressiveRatio:  getFloat("GOAL_AGGRESSIVE_RATIO", 0.7),
		GoalNoDeadlineMonths: getFloat("GOAL_NO_DEADLINE_MONTHS", 6),
	}
	return cfg
}

// Development reports whether the process runs outside production.
func (c Config) Development() bool {
	return c.Env != "production"
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing required env: %s", k)
	}
	return v
}

func getFloat(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using %v", k, v, def)
		return def
	}
	return f
}

func getDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("invalid %s=%q, using %v", k, v, def)
		return def
	}
	return d
}
