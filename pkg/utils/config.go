package utils

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Payment  PaymentConfig
	Webhook  WebhookConfig
	Kafka    KafkaConfig
	CORS     CORSConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type JWTConfig struct {
	Secret string
}

type PaymentConfig struct {
	// Window is how long an initiated payment stays payable.
	Window time.Duration
	// CancelCooldown is the minimum age a payment must reach before the
	// owner may cancel it.
	CancelCooldown time.Duration
	// SweepInterval drives the background expiration sweeper.
	SweepInterval time.Duration
}

type WebhookConfig struct {
	Secret string
}

type KafkaConfig struct {
	Broker string
	Topic  string
}

type CORSConfig struct {
	AllowedOrigins []string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("PAYMENT_WINDOW_MINUTES", 60)
	viper.SetDefault("PAYMENT_CANCEL_COOLDOWN_SECONDS", 10)
	viper.SetDefault("PAYMENT_SWEEP_INTERVAL_SECONDS", 60)
	viper.SetDefault("KAFKA_TOPIC", "payment-events")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", []string{"*"})
	viper.SetDefault("LOG_PATH", "logs/")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("JWT_SECRET"),
		},
		Payment: PaymentConfig{
			Window:         time.Duration(viper.GetInt("PAYMENT_WINDOW_MINUTES")) * time.Minute,
			CancelCooldown: time.Duration(viper.GetInt("PAYMENT_CANCEL_COOLDOWN_SECONDS")) * time.Second,
			SweepInterval:  time.Duration(viper.GetInt("PAYMENT_SWEEP_INTERVAL_SECONDS")) * time.Second,
		},
		Webhook: WebhookConfig{
			Secret: viper.GetString("WEBHOOK_SECRET"),
		},
		Kafka: KafkaConfig{
			Broker: viper.GetString("KAFKA_BROKER"),
			Topic:  viper.GetString("KAFKA_TOPIC"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
		},
	}

	return config, nil
}
