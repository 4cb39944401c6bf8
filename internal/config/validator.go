package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validator collects every problem in a Config before reporting, so a bad
// emsuite.yaml is fixed in one pass.
type Validator struct {
	config *Config
	errors []string
}

func NewValidator(cfg *Config) *Validator {
	return &Validator{
		config: cfg,
		errors: []string{},
	}
}

func (v *Validator) Validate() error {
	v.validateBaseURL()
	v.validateTarget()
	v.validateTimeouts()
	v.validateViewport()
	v.validateLogging()

	if len(v.errors) > 0 {
		return fmt.Errorf("config validation failed:\n%s", strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *Validator) validateBaseURL() {
	u, err := url.Parse(v.config.BaseURL)
	if err != nil {
		v.addError("base_url is not a valid URL: %v", err)
		return
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		v.addError("base_url must use http or https, got %q", v.config.BaseURL)
		return
	}
	if u.Host == "" {
		v.addError("base_url has no host: %q", v.config.BaseURL)
	}
}

func (v *Validator) validateTarget() {
	switch v.config.Target {
	case TargetAuto, TargetExternal, TargetStub:
	default:
		v.addError("target must be one of auto, external, stub; got %q", v.config.Target)
	}
}

func (v *Validator) validateTimeouts() {
	t := v.config.Timeouts
	for _, tc := range []struct {
		name string
		d    time.Duration
	}{
		{"timeouts.default", t.Default},
		{"timeouts.presence", t.Presence},
		{"timeouts.probe", t.Probe},
		{"timeouts.implicit", t.Implicit},
		{"timeouts.navigation", t.Navigation},
	} {
		if tc.d <= 0 {
			v.addError("%s must be positive, got %s", tc.name, tc.d)
		}
	}
}

func (v *Validator) validateViewport() {
	vp := v.config.Browser.Viewport
	if vp.Width <= 0 || vp.Height <= 0 {
		v.addError("browser.viewport must be positive, got %dx%d", vp.Width, vp.Height)
	}
}

func (v *Validator) validateLogging() {
	if !validLogLevels[strings.ToLower(v.config.Logging.Level)] {
		v.addError("logging.level %q is not one of debug, info, warn, error", v.config.Logging.Level)
	}
	switch v.config.Logging.Format {
	case "text", "json":
	default:
		v.addError("logging.format must be text or json, got %q", v.config.Logging.Format)
	}
}

func (v *Validator) addError(format string, args ...interface{}) {
	v.errors = append(v.errors, "  ❌ "+fmt.Sprintf(format, args...))
}
