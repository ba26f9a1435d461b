package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port             string
	FrontendURL      string
	AdvertURL        string
	AnalyticsURL     string
	HTTPTimeout      time.Duration
	RateLimitWindow  time.Duration
	RateLimitMax     int
	ChunkConcurrency int
	LogLevel         string
	Env              string
	ServiceName      string

	TracingEnabled    bool
	TracingEndpoint   string
	TracingSampleRate float64
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "5000")
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("WB_API_BASE_URL", "https://advert-api.wildberries.ru")
	v.SetDefault("WB_ANALYTICS_API_BASE_URL", "https://analytics-api.wildberries.ru")
	v.SetDefault("HTTP_TIMEOUT_SECONDS", 30)
	v.SetDefault("RATE_LIMIT_WINDOW_MS", 60000)
	v.SetDefault("RATE_LIMIT_MAX_REQUESTS", 100)
	v.SetDefault("CHUNK_CONCURRENCY", 4)
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("ENV", "production")
	v.SetDefault("SERVICE_NAME", "wb-ads-dashboard")
	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_ENDPOINT", "localhost:4317")
	v.SetDefault("TRACING_SAMPLE_RATE", 1.0)
}

// FromEnv reads configuration from the environment, optionally layered over
// the file named by CONFIG_FILE.
func FromEnv() (Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	timeout := v.GetInt("HTTP_TIMEOUT_SECONDS")
	if timeout <= 0 {
		timeout = 30
	}
	window := v.GetInt("RATE_LIMIT_WINDOW_MS")
	if window <= 0 {
		window = 60000
	}
	conc := v.GetInt("CHUNK_CONCURRENCY")
	if conc <= 0 {
		conc = 1
	}

	return Config{
		Port:              v.GetString("PORT"),
		FrontendURL:       v.GetString("FRONTEND_URL"),
		AdvertURL:         strings.TrimRight(v.GetString("WB_API_BASE_URL"), "/"),
		AnalyticsURL:      strings.TrimRight(v.GetString("WB_ANALYTICS_API_BASE_URL"), "/"),
		HTTPTimeout:       time.Duration(timeout) * time.Second,
		RateLimitWindow:   time.Duration(window) * time.Millisecond,
		RateLimitMax:      v.GetInt("RATE_LIMIT_MAX_REQUESTS"),
		ChunkConcurrency:  conc,
		LogLevel:          v.GetString("LOG_LEVEL"),
		Env:               strings.ToLower(v.GetString("ENV")),
		ServiceName:       v.GetString("SERVICE_NAME"),
		TracingEnabled:    v.GetBool("TRACING_ENABLED"),
		TracingEndpoint:   v.GetString("TRACING_ENDPOINT"),
		TracingSampleRate: v.GetFloat64("TRACING_SAMPLE_RATE"),
	}, nil
}
