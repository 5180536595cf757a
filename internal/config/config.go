package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	MongoURI string
	MongoDB  string
	Port     string
	AmqpURL  string
}

func LoadConfig() *Config {
	// .env is only present in local development; deployed environments rely
	// on real environment variables.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			logrus.WithError(err).Warn("failed to load .env file")
		}
	}

	return &Config{
		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "catalog"),
		Port:     getEnv("PORT", "8080"),
		AmqpURL:  getEnv("AMQP_URL", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
