package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Database *Database
	HTTP     *HTTP
	Payment  *Payment
	Redis    *Redis
	Notify   *Notify
	App      *App
}

const AppModeProduction = "PROD"
const AppModeDevelop = "DEV"

type App struct {
	LogLevel string `env:"LOG_LEVEL"`
	Mode     string
}

type Database struct {
	DSN string `env:"DATABASE_URI"`
}

type HTTP struct {
	HostString string `env:"RUN_ADDRESS"`
}

type Payment struct {
	APIBase       string `env:"PAYMENT_API_BASE"`
	SecretKey     string `env:"PAYMENT_SECRET_KEY"`
	WebhookSecret string `env:"PAYMENT_WEBHOOK_SECRET"`
	SuccessURL    string `env:"PAYMENT_SUCCESS_URL"`
	CancelURL     string `env:"PAYMENT_CANCEL_URL"`
}

type Redis struct {
	Addr string `env:"REDIS_ADDRESS"`
}

type Notify struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"KAFKA_EVENTS_TOPIC"`
}

func NewConfig() (*Config, error) {
	var db Database
	var http HTTP
	var payment Payment
	var redis Redis
	var notify Notify
	var app App

	flag.StringVar(&db.DSN, "d", "", "Database string")
	flag.StringVar(&http.HostString, "a", `localhost:8080`, "HTTP server endpoint")
	flag.StringVar(&payment.APIBase, "p", `https://api.stripe.com`, "Payment gateway API base")
	flag.StringVar(&redis.Addr, "r", `localhost:6379`, "Redis address")
	flag.StringVar(&app.LogLevel, "l", `error`, "Log level")
	flag.StringVar(&app.Mode, "m", `DEV`, "PROD / DEV")
	flag.Parse()

	for name, target := range map[string]any{
		"database": &db,
		"http":     &http,
		"payment":  &payment,
		"redis":    &redis,
		"notify":   &notify,
		"app":      &app,
	} {
		if err := env.Parse(target); err != nil {
			return nil, fmt.Errorf("error parsing %s config: %w", name, err)
		}
	}

	config := Config{
		Database: &db,
		HTTP:     &http,
		Payment:  &payment,
		Redis:    &redis,
		Notify:   &notify,
		App:      &app,
	}

	return &config, nil
}
