package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port          int
	LogLevel      string
	DatabaseURL   string
	NatsURL       string
	NatsToken     string
	LLMProxyURL   string
	LLMProxyToken string
	LLMModel      string
	APIToken      string
	GoalDays      int

	TurnTimeout     time.Duration
	ExtractTimeout  time.Duration
	SyllabusTimeout time.Duration
}

func Load() Config {
	return Config{
		Port:          envInt("COACH_PORT", 8080),
		LogLevel:      envStr("LOG_LEVEL", "info"),
		DatabaseURL:   envStr("DATABASE_URL", ""),
		NatsURL:       envStr("NATS_URL", ""),
		NatsToken:     envStr("NATS_TOKEN", ""),
		LLMProxyURL:   envStr("LLM_PROXY_URL", ""),
		LLMProxyToken: envStr("LLM_PROXY_TOKEN", ""),
		LLMModel:      envStr("COACH_MODEL", "gpt-4o-mini"),
		APIToken:      envStr("COACH_API_TOKEN", ""),
		GoalDays:      envInt("COACH_GOAL_DAYS", 100),

		TurnTimeout:     envSeconds("COACH_TURN_TIMEOUT_SECS", 45),
		ExtractTimeout:  envSeconds("COACH_EXTRACT_TIMEOUT_SECS", 60),
		SyllabusTimeout: envSeconds("COACH_SYLLABUS_TIMEOUT_SECS", 150),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envSeconds(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Second
}
