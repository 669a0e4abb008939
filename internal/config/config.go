package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries everything the process needs from the environment.
// Loaded once in main and passed down explicitly; nothing in here is
// mutated after startup.
type Config struct {
	ServerPort string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// Account-wide relay defaults, used when a user has no override.
	DefaultWhatsappWebhookURL string
	DefaultEmailWebhookURL    string

	SchedulerInterval  time.Duration
	SchedulerBatchSize int

	// Empty disables the delivery-event publisher.
	AMQPURL string
}

func Load() *Config {
	interval, _ := strconv.Atoi(getEnv("SCHEDULER_INTERVAL_SECONDS", "60"))
	if interval < 1 {
		interval = 60
	}
	batch, _ := strconv.Atoi(getEnv("SCHEDULER_BATCH_SIZE", "10"))
	if batch < 1 {
		batch = 10
	}

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "zapleads"),

		DefaultWhatsappWebhookURL: getEnv("WEBHOOK_WHATSAPP_URL", ""),
		DefaultEmailWebhookURL:    getEnv("WEBHOOK_EMAIL_URL", ""),

		SchedulerInterval:  time.Duration(interval) * time.Second,
		SchedulerBatchSize: batch,

		AMQPURL: getEnv("AMQP_URL", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
