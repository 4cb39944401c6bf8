package browser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gotrs-io/emsuite/internal/config"
	"github.com/gotrs-io/emsuite/internal/logging"
	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// Session is one isolated browser: driver, browser process, context and a single page.
// A session belongs to exactly one test.
type Session struct {
	Playwright *playwright.Playwright
	Browser    playwright.Browser
	Context    playwright.BrowserContext
	Page       playwright.Page
	Config     *config.Config
	RunID      string
	Log        logrus.FieldLogger

	closeOnce sync.Once
	closeErr  error
}

var installOnce sync.Once
var installErr error

// runDriver starts the playwright driver; tests replace it.
var runDriver = func() (*playwright.Playwright, error) { return playwright.Run() }

func ensureInstalled() error {
	installOnce.Do(func() {
		if os.Getenv("PLAYWRIGHT_PREINSTALLED") == "1" {
			return
		}
		installErr = playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}})
	})
	return installErr
}

// LaunchArgs are the Chromium flags for unattended runs. Sandboxing is off so the
// browser starts inside unprivileged CI containers.
func LaunchArgs(cfg config.BrowserConfig) []string {
	args := []string{
		"--disable-dev-shm-usage",
		fmt.Sprintf("--window-size=%d,%d", cfg.Viewport.Width, cfg.Viewport.Height),
	}
	if cfg.NoSandbox {
		args = append(args, "--no-sandbox")
	}
	return args
}

// NewSession starts playwright and opens a configured page. Setup failures are
// returned as *SessionError and are never retried.
func NewSession(cfg *config.Config, logger logrus.FieldLogger) (*Session, error) {
	s := &Session{
		Config: cfg,
		RunID:  uuid.NewString(),
	}
	s.Log = logging.OrDiscard(logger).WithField("run", s.RunID[:8])

	if cfg.Browser.Install {
		if err := ensureInstalled(); err != nil {
			return nil, newSessionError("install", fmt.Errorf("%w: %v", ErrDriverUnavailable, err))
		}
	}

	pw, err := runDriver()
	if err != nil {
		return nil, newSessionError("start", fmt.Errorf("%w: %v", ErrDriverUnavailable, err))
	}
	s.Playwright = pw

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Browser.Headless),
		SlowMo:   playwright.Float(float64(cfg.Browser.SlowMo)),
		Args:     LaunchArgs(cfg.Browser),
	})
	if err != nil {
		_ = s.Close()
		return nil, newSessionError("launch", err)
	}
	s.Browser = b

	bctx, err := b.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  cfg.Browser.Viewport.Width,
			Height: cfg.Browser.Viewport.Height,
		},
		BaseURL:         playwright.String(cfg.BaseURL),
		AcceptDownloads: playwright.Bool(true),
	})
	if err != nil {
		_ = s.Close()
		return nil, newSessionError("context", err)
	}
	s.Context = bctx

	page, err := bctx.NewPage()
	if err != nil {
		_ = s.Close()
		return nil, newSessionError("page", err)
	}
	s.Page = page

	// Implicit wait for any engine call that does not pass its own timeout
	page.SetDefaultTimeout(float64(cfg.Timeouts.Implicit.Milliseconds()))
	page.SetDefaultNavigationTimeout(float64(cfg.Timeouts.Navigation.Milliseconds()))

	s.Log.WithFields(logrus.Fields{
		"base_url": cfg.BaseURL,
		"headless": cfg.Browser.Headless,
	}).Info("browser session started")
	return s, nil
}

// Close releases the page, context, browser and driver in that order. Safe to call
// more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if s.Page != nil {
			errs = append(errs, s.Page.Close())
		}
		if s.Context != nil {
			errs = append(errs, s.Context.Close())
		}
		if s.Browser != nil {
			errs = append(errs, s.Browser.Close())
		}
		if s.Playwright != nil {
			errs = append(errs, s.Playwright.Stop())
		}
		s.closeErr = errors.Join(errs...)
		if s.Log != nil {
			s.Log.Info("browser session closed")
		}
	})
	return s.closeErr
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ArtifactName turns a test name into a file name.
func ArtifactName(name, runID string, ext string) string {
	short := runID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("%s_%s%s", unsafeFileChars.ReplaceAllString(name, "_"), short, ext)
}

// Screenshot saves a full-page screenshot under the artifacts directory and returns its path.
func (s *Session) Screenshot(name string) (string, error) {
	if s.Page == nil {
		return "", errors.New("no page to capture")
	}
	dir := filepath.Join(s.Config.Artifacts.Dir, "screenshots")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create screenshot directory: %w", err)
	}
	path := filepath.Join(dir, ArtifactName(name, s.RunID, ".png"))
	if _, err := s.Page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		return "", fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return path, nil
}

// URL joins path onto the session's base URL.
func (s *Session) URL(path string) string {
	return s.Config.URL(path)
}

// ForTest opens a session for t and registers its release with t.Cleanup, so the
// browser goes away whether the test passes, fails or panics. Any setup failure,
// a missing driver included, fails the test immediately.
func ForTest(t testing.TB, cfg *config.Config, logger logrus.FieldLogger) *Session {
	t.Helper()

	start := time.Now()
	s, err := NewSession(cfg, logger)
	if err != nil {
		t.Fatalf("Failed to setup browser: %v", err)
	}
	s.Log.WithField("elapsed", time.Since(start).Round(time.Millisecond)).Debug("session ready")

	t.Cleanup(func() {
		if t.Failed() && cfg.Artifacts.Screenshots {
			if path, err := s.Screenshot(t.Name()); err == nil {
				t.Logf("screenshot saved to %s", path)
			} else {
				t.Logf("screenshot failed: %v", err)
			}
		}
		if err := s.Close(); err != nil {
			t.Logf("browser session close: %v", err)
		}
	})
	return s
}
