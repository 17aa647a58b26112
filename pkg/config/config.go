// Package config provides centralized configuration management for the Webex news bridge.
package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Config holds the complete configuration for the application
type Config struct {
	// Webex configuration
	Webex struct {
		AccessToken string
		APIURL      string
	}

	// News feed configuration
	News struct {
		FeedURL    string
		Locale     string
		WindowDays int
	}

	// Server configuration
	Server struct {
		Host string
		Port int
	}

	// HTTP client configuration, shared by all outbound calls
	HTTP struct {
		Timeout time.Duration
	}
}

var (
	once   sync.Once
	config *Config
)

// Load initializes and loads the configuration from environment variables
func Load() *Config {
	once.Do(func() {
		v := viper.New()

		// Set default values
		v.SetDefault("webex.api_url", "https://webexapis.com/v1")
		v.SetDefault("news.feed_url", "https://news.google.com/rss/search")
		v.SetDefault("news.locale", "hl=en-US&gl=US&ceid=US:en")
		v.SetDefault("news.window_days", 7)
		v.SetDefault("server.host", "127.0.0.1")
		v.SetDefault("server.port", 3000)
		v.SetDefault("http.timeout", 10*time.Second)

		// Load from environment variables
		v.AutomaticEnv()

		config = &Config{}

		// Webex
		config.Webex.AccessToken = os.Getenv("WEBEX_ACCESS_TOKEN")
		config.Webex.APIURL = os.Getenv("WEBEX_API_URL")
		if config.Webex.APIURL == "" {
			config.Webex.APIURL = v.GetString("webex.api_url")
		}

		// News feed
		config.News.FeedURL = os.Getenv("NEWS_FEED_URL")
		if config.News.FeedURL == "" {
			config.News.FeedURL = v.GetString("news.feed_url")
		}
		config.News.Locale = os.Getenv("NEWS_FEED_LOCALE")
		if config.News.Locale == "" {
			config.News.Locale = v.GetString("news.locale")
		}
		config.News.WindowDays = v.GetInt("news.window_days")

		// Server
		config.Server.Host = os.Getenv("HOST")
		if config.Server.Host == "" {
			config.Server.Host = v.GetString("server.host")
		}
		config.Server.Port = v.GetInt("server.port")
		if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
			config.Server.Port = port
		}

		config.HTTP.Timeout = v.GetDuration("http.timeout")
	})

	return config
}

// Validate checks if all required configuration values are set
func (c *Config) Validate() error {
	// List of validation errors
	var errors []string

	// The token is the one secret; without it the send tools return an
	// auth error per call but the news tool still works.
	if c.Webex.AccessToken == "" {
		errors = append(errors, "WEBEX_ACCESS_TOKEN is not set, Webex tools will fail")
	}

	if c.News.FeedURL == "" {
		errors = append(errors, "news feed URL is empty")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid server port: %d", c.Server.Port))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errors)
	}

	return nil
}
