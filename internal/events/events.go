// Package events publishes auth lifecycle audit events to Kafka.
// The producer is optional infrastructure: when no broker is configured the
// orchestrator simply runs without one.
package events

import (
	"fmt"
	"os"
	"time"
)

// Auth event types.
const (
	TypeLogin     = "login"
	TypeSignup    = "signup"
	TypeAutoLogin = "auto_login"
	TypeLogout    = "logout"
	TypeExpired   = "session_expired"
)

// AuthEvent records one auth lifecycle transition.
type AuthEvent struct {
	Type   string    `json:"type"`
	Email  string    `json:"email,omitempty"`
	UserID string    `json:"user_id,omitempty"`
	At     time.Time `json:"at"`
}

// Config holds Kafka producer configuration.
type Config struct {
	Brokers string
	Topic   string
}

// LoadConfig loads Kafka configuration from environment variables.
func LoadConfig() (*Config, error) {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		return nil, fmt.Errorf("KAFKA_BROKERS environment variable is required")
	}

	topic := os.Getenv("KAFKA_TOPIC_AUTH_EVENTS")
	if topic == "" {
		topic = "auth-events"
	}

	return &Config{
		Brokers: brokers,
		Topic:   topic,
	}, nil
}
