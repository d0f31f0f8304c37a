package config

import "os"

// Config holds everything read from the environment at startup.
type Config struct {
	MongoURI      string
	MongoDatabase string
	APIPort       string
	JWTSecret     string

	// Mail transport
	ResendAPIKey string
	MailFrom     string

	// CORS
	AllowedOrigin string
}

// Load reads configuration from environment variables, applying defaults
// where a value is optional. godotenv is expected to have been loaded by
// the caller.
func Load() *Config {
	cfg := &Config{
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: getEnv("MONGO_DATABASE", "health_registration"),
		APIPort:       getEnv("API_PORT", "8080"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		ResendAPIKey:  os.Getenv("RESEND_API_KEY"),
		MailFrom:      getEnv("MAIL_FROM", "Health Registration <onboarding@resend.dev>"),
		AllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
