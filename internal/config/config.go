package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/pders01/fred/internal/validation"
)

type Config struct {
	Feeds []FeedEntry `mapstructure:"feeds"`
	Feed  FeedConfig  `mapstructure:"feed"`
	UI    UIConfig    `mapstructure:"ui"`
	Keys  KeyConfig   `mapstructure:"keys"`
	Log   LogConfig   `mapstructure:"log"`
}

// FeedEntry is one configured subscription. Order is significant.
type FeedEntry struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}

type FeedConfig struct {
	HTTPTimeout  time.Duration `mapstructure:"http_timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
	AllowPrivate bool          `mapstructure:"allow_private"`
}

type UIConfig struct {
	TickRate time.Duration `mapstructure:"tick_rate"`
	Colors   UIColors      `mapstructure:"colors"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Text      string `mapstructure:"text"`
	Muted     string `mapstructure:"muted"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit       string `mapstructure:"quit"`
	ToggleView string `mapstructure:"toggle_view"`
	Next       string `mapstructure:"next"`
	Previous   string `mapstructure:"previous"`
	Unselect   string `mapstructure:"unselect"`
	Activate   string `mapstructure:"activate"`
	Find       string `mapstructure:"find"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// Error reports a configuration that cannot be used. It is always fatal.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid configuration: %v", e.Err)
	}
	return fmt.Sprintf("invalid configuration %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// SeedFeeds is used when no feeds are configured.
func SeedFeeds() []FeedEntry {
	return []FeedEntry{
		{Name: "Hacker News", URL: "https://hnrss.org/frontpage"},
		{Name: "SweClockers", URL: "http://www.sweclockers.com/feeds/nyheter"},
		{Name: "Aftonbladet", URL: "https://rss.aftonbladet.se/rss2/small/pages/sections/senastenytt/"},
		{Name: "SVT Nyheter", URL: "https://www.svt.se/nyheter/rss.xml"},
	}
}

func defaultConfig() *Config {
	return &Config{
		Feeds: SeedFeeds(),
		Feed: FeedConfig{
			HTTPTimeout: 30 * time.Second,
			UserAgent:   "fred/1.0 (terminal feed reader)",
		},
		UI: UIConfig{
			TickRate: 250 * time.Millisecond,
			Colors: UIColors{
				Primary:   "#FF6B6B",
				Secondary: "#4ECDC4",
				Accent:    "#95E1D3",
				Text:      "#EAEAEA",
				Muted:     "#94A3B8",
				Error:     "#F87171",
				Success:   "#4ADE80",
			},
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:       "q",
				ToggleView: "t",
				Next:       "j",
				Previous:   "k",
				Unselect:   "h",
				Activate:   "enter",
				Find:       "/",
			},
		},
		Log: LogConfig{
			Level: "off",
		},
	}
}

// DefaultPath is where Load looks when no explicit path is given.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "fred", "config.toml")
}

// Load reads configuration from configPath, or from the default locations
// when configPath is empty. A missing default file is not an error; every
// other failure is returned as *Error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v, defaultConfig())

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, &Error{Path: configPath, Err: err}
		}
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("FRED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, &Error{Path: configPath, Err: fmt.Errorf("reading config: %w", err)}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, &Error{Path: v.ConfigFileUsed(), Err: fmt.Errorf("unmarshaling config: %w", err)}
	}

	if len(config.Feeds) == 0 {
		config.Feeds = SeedFeeds()
	}

	if err := config.Validate(); err != nil {
		return nil, &Error{Path: v.ConfigFileUsed(), Err: err}
	}

	config.Log.Path = expandPath(config.Log.Path)

	return &config, nil
}

// setDefaults registers leaf keys so a partial table in the file does not
// hide the defaults of its siblings.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("feeds", cfg.Feeds)

	v.SetDefault("feed.http_timeout", cfg.Feed.HTTPTimeout)
	v.SetDefault("feed.user_agent", cfg.Feed.UserAgent)
	v.SetDefault("feed.allow_private", cfg.Feed.AllowPrivate)

	v.SetDefault("ui.tick_rate", cfg.UI.TickRate)
	v.SetDefault("ui.colors.primary", cfg.UI.Colors.Primary)
	v.SetDefault("ui.colors.secondary", cfg.UI.Colors.Secondary)
	v.SetDefault("ui.colors.accent", cfg.UI.Colors.Accent)
	v.SetDefault("ui.colors.text", cfg.UI.Colors.Text)
	v.SetDefault("ui.colors.muted", cfg.UI.Colors.Muted)
	v.SetDefault("ui.colors.error", cfg.UI.Colors.Error)
	v.SetDefault("ui.colors.success", cfg.UI.Colors.Success)

	v.SetDefault("keys.modifier", cfg.Keys.Modifier)
	v.SetDefault("keys.bindings.quit", cfg.Keys.Bindings.Quit)
	v.SetDefault("keys.bindings.toggle_view", cfg.Keys.Bindings.ToggleView)
	v.SetDefault("keys.bindings.next", cfg.Keys.Bindings.Next)
	v.SetDefault("keys.bindings.previous", cfg.Keys.Bindings.Previous)
	v.SetDefault("keys.bindings.unselect", cfg.Keys.Bindings.Unselect)
	v.SetDefault("keys.bindings.activate", cfg.Keys.Bindings.Activate)
	v.SetDefault("keys.bindings.find", cfg.Keys.Bindings.Find)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.path", cfg.Log.Path)
}

// Validate checks every feed entry and normalises its URL in place.
func (c *Config) Validate() error {
	validator := validation.NewFeedURLValidator()
	if c.Feed.AllowPrivate {
		validator = validation.NewPermissiveFeedURLValidator()
	}

	for i := range c.Feeds {
		entry := &c.Feeds[i]
		entry.Name = strings.TrimSpace(entry.Name)
		if entry.Name == "" {
			return fmt.Errorf("feed %d: name cannot be empty", i+1)
		}
		normalized, err := validator.ValidateAndNormalize(entry.URL)
		if err != nil {
			return fmt.Errorf("feed %q: %w", entry.Name, err)
		}
		entry.URL = normalized
	}

	if c.UI.TickRate <= 0 {
		return fmt.Errorf("ui.tick_rate must be positive, got %s", c.UI.TickRate)
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func Save(config *Config, path string) error {
	feeds := make([]map[string]interface{}, 0, len(config.Feeds))
	for _, f := range config.Feeds {
		feeds = append(feeds, map[string]interface{}{
			"name": f.Name,
			"url":  f.URL,
		})
	}

	// Durations are written as strings for TOML readability
	doc := map[string]interface{}{
		"feeds": feeds,
		"feed": map[string]interface{}{
			"http_timeout":  config.Feed.HTTPTimeout.String(),
			"user_agent":    config.Feed.UserAgent,
			"allow_private": config.Feed.AllowPrivate,
		},
		"ui": map[string]interface{}{
			"tick_rate": config.UI.TickRate.String(),
			"colors": map[string]interface{}{
				"primary":   config.UI.Colors.Primary,
				"secondary": config.UI.Colors.Secondary,
				"accent":    config.UI.Colors.Accent,
				"text":      config.UI.Colors.Text,
				"muted":     config.UI.Colors.Muted,
				"error":     config.UI.Colors.Error,
				"success":   config.UI.Colors.Success,
			},
		},
		"keys": map[string]interface{}{
			"modifier": config.Keys.Modifier,
			"bindings": map[string]interface{}{
				"quit":        config.Keys.Bindings.Quit,
				"toggle_view": config.Keys.Bindings.ToggleView,
				"next":        config.Keys.Bindings.Next,
				"previous":    config.Keys.Bindings.Previous,
				"unselect":    config.Keys.Bindings.Unselect,
				"activate":    config.Keys.Bindings.Activate,
				"find":        config.Keys.Bindings.Find,
			},
		},
		"log": map[string]interface{}{
			"level": config.Log.Level,
			"path":  config.Log.Path,
		},
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
