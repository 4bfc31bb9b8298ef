package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		Feeds: []FeedEntry{
			{Name: "Example", URL: "http://x/feed"},
		},
		Feed: FeedConfig{
			HTTPTimeout:  5 * time.Second,
			UserAgent:    "fred-test/1.0",
			AllowPrivate: true,
		},
		UI:   defaultConfig().UI,
		Keys: defaultConfig().Keys,
		Log:  LogConfig{Level: "off"},
	}
}
