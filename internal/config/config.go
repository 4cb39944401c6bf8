package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Target selects what the suite drives.
const (
	TargetAuto     = "auto"     // use BaseURL when reachable, otherwise start the contract stub
	TargetExternal = "external" // always use BaseURL
	TargetStub     = "stub"     // always start the contract stub
)

var dotEnvOnce sync.Once

// Config represents the suite configuration
type Config struct {
	BaseURL   string          `mapstructure:"base_url"`
	Target    string          `mapstructure:"target"`
	Browser   BrowserConfig   `mapstructure:"browser"`
	Timeouts  TimeoutConfig   `mapstructure:"timeouts"`
	Artifacts ArtifactsConfig `mapstructure:"artifacts"`
	Fixtures  FixturesConfig  `mapstructure:"fixtures"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type BrowserConfig struct {
	Headless  bool           `mapstructure:"headless"`
	NoSandbox bool           `mapstructure:"no_sandbox"`
	SlowMo    int            `mapstructure:"slow_mo"` // milliseconds
	Viewport  ViewportConfig `mapstructure:"viewport"`
	Install   bool           `mapstructure:"install"`
}

type ViewportConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// TimeoutConfig holds the bounds for every wait the page objects perform.
type TimeoutConfig struct {
	Default    time.Duration `mapstructure:"default"`
	Presence   time.Duration `mapstructure:"presence"`
	Probe      time.Duration `mapstructure:"probe"`
	Implicit   time.Duration `mapstructure:"implicit"`
	Navigation time.Duration `mapstructure:"navigation"`
}

type ArtifactsConfig struct {
	Screenshots bool   `mapstructure:"screenshots"`
	Dir         string `mapstructure:"dir"`
}

type FixturesConfig struct {
	Dir string `mapstructure:"dir"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() *Config {
	return &Config{
		BaseURL: "http://127.0.0.1:8000",
		Target:  TargetAuto,
		Browser: BrowserConfig{
			Headless:  true,
			NoSandbox: true,
			Viewport:  ViewportConfig{Width: 1920, Height: 1080},
			Install:   true,
		},
		Timeouts: TimeoutConfig{
			Default:    10 * time.Second,
			Presence:   5 * time.Second,
			Probe:      time.Second,
			Implicit:   10 * time.Second,
			Navigation: 30 * time.Second,
		},
		Artifacts: ArtifactsConfig{
			Screenshots: true,
			Dir:         "./test-results",
		},
		Fixtures: FixturesConfig{Dir: "testdata"},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("target", d.Target)
	v.SetDefault("browser.headless", d.Browser.Headless)
	v.SetDefault("browser.no_sandbox", d.Browser.NoSandbox)
	v.SetDefault("browser.slow_mo", d.Browser.SlowMo)
	v.SetDefault("browser.viewport.width", d.Browser.Viewport.Width)
	v.SetDefault("browser.viewport.height", d.Browser.Viewport.Height)
	v.SetDefault("browser.install", d.Browser.Install)
	v.SetDefault("timeouts.default", d.Timeouts.Default)
	v.SetDefault("timeouts.presence", d.Timeouts.Presence)
	v.SetDefault("timeouts.probe", d.Timeouts.Probe)
	v.SetDefault("timeouts.implicit", d.Timeouts.Implicit)
	v.SetDefault("timeouts.navigation", d.Timeouts.Navigation)
	v.SetDefault("artifacts.screenshots", d.Artifacts.Screenshots)
	v.SetDefault("artifacts.dir", d.Artifacts.Dir)
	v.SetDefault("fixtures.dir", d.Fixtures.Dir)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// bindLegacyEnv keeps the plain variable names older CI jobs export.
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("base_url", "EMSUITE_BASE_URL", "BASE_URL")
	_ = v.BindEnv("browser.headless", "EMSUITE_BROWSER_HEADLESS", "HEADLESS")
	_ = v.BindEnv("browser.slow_mo", "EMSUITE_BROWSER_SLOW_MO", "SLOW_MO")
	_ = v.BindEnv("browser.install", "EMSUITE_BROWSER_INSTALL")
	_ = v.BindEnv("artifacts.screenshots", "EMSUITE_ARTIFACTS_SCREENSHOTS", "SCREENSHOTS")
}

// loadDotEnv loads KEY=VALUE lines from .env if present.
// Existing environment variables take precedence and are not overwritten.
func loadDotEnv() {
	dotEnvOnce.Do(func() {
		_ = gotenv.Load(".env")
	})
}

// Load reads configuration from configFile (or emsuite.yaml in . and ./config when
// empty), applies environment overrides and validates the result.
func Load(configFile string) (*Config, error) {
	loadDotEnv()

	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("emsuite")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			// A missing emsuite.yaml is fine, defaults and env cover everything
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("EMSUITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindLegacyEnv(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := NewValidator(cfg).Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad loads configuration and panics on error
func MustLoad(configFile string) *Config {
	cfg, err := Load(configFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}
	return cfg
}

// URL joins path onto the base URL.
func (c *Config) URL(path string) string {
	if path == "" {
		return c.BaseURL + "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.BaseURL + path
}

// WithBaseURL returns a copy of c pointing at baseURL.
func (c *Config) WithBaseURL(baseURL string) *Config {
	cp := *c
	cp.BaseURL = strings.TrimRight(baseURL, "/")
	return &cp
}
