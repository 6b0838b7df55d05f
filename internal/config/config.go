package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Env            string
	Port           int
	APIURL         string
	AuthURL        string
	SocketURL      string
	AuthJWTSecret  string
	DatabaseURL    string
	KioskID        string
	LogJSON        bool
	LogLevel       string
	ReconnectDelay time.Duration
	HTTPTimeout    time.Duration
}

func Default() Config {
	return Config{
		Env:            "dev",
		Port:           5000,
		APIURL:         "http://127.0.0.1:4000",
		AuthURL:        "http://127.0.0.1:4000",
		SocketURL:      "",
		AuthJWTSecret:  "",
		DatabaseURL:    "",
		KioskID:        "",
		LogJSON:        true,
		LogLevel:       "info",
		ReconnectDelay: 2 * time.Second,
		HTTPTimeout:    10 * time.Second,
	}
}

func EnvDefaults() Config {
	return fromEnv(Default())
}

// Socket is the realtime endpoint, which lives on the API host unless set.
func (c Config) Socket() string {
	if c.SocketURL != "" {
		return c.SocketURL
	}
	return c.APIURL
}

func fromEnv(c Config) Config {
	if v := os.Getenv("RENDEZVOUS_ENV"); v != "" {
		c.Env = v
	}
	if v := os.Getenv("RENDEZVOUS_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Port = p
		}
	}
	if v := os.Getenv("RENDEZVOUS_API_URL"); v != "" {
		c.APIURL = v
		c.AuthURL = v
	}
	if v := os.Getenv("RENDEZVOUS_AUTH_URL"); v != "" {
		c.AuthURL = v
	}
	if v := os.Getenv("RENDEZVOUS_SOCKET_URL"); v != "" {
		c.SocketURL = v
	}
	if v := os.Getenv("RENDEZVOUS_AUTH_JWT_SECRET"); v != "" {
		c.AuthJWTSecret = v
	}
	if v := os.Getenv("RENDEZVOUS_DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("RENDEZVOUS_KIOSK_ID"); v != "" {
		c.KioskID = v
	}
	if v := os.Getenv("RENDEZVOUS_LOG_JSON"); v != "" {
		switch v {
		case "1", "true", "TRUE":
			c.LogJSON = true
		case "0", "false", "FALSE":
			c.LogJSON = false
		}
	}
	if v := os.Getenv("RENDEZVOUS_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("RENDEZVOUS_RECONNECT_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.ReconnectDelay = d
		}
	}
	if v := os.Getenv("RENDEZVOUS_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.HTTPTimeout = d
		}
	}
	return c
}
