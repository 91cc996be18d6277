package core

import (
	"time"
)

type Config struct {
	Storage StorageConfig
	Remote  RemoteConfig
	Server  ServerConfig
	Log     LogConfig
	App     AppConfig
}

type StorageConfig struct {
	Path string
}

type RemoteConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type AppConfig struct {
	HistoryLimit   int
	MediaIndexSize int
}

func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path: "./tunedeck.db",
		},
		Remote: RemoteConfig{
			Timeout: 15 * time.Second,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		App: AppConfig{
			HistoryLimit:   200,
			MediaIndexSize: 10000,
		},
	}
}
