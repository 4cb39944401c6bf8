package helpers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gotrs-io/emsuite/internal/config"
	"github.com/gotrs-io/emsuite/internal/logging"
	"github.com/gotrs-io/emsuite/internal/refapp"
	"github.com/gotrs-io/emsuite/internal/testdata"
	"github.com/sirupsen/logrus"
)

// Target is the application the scenarios drive, resolved once per test binary.
type Target struct {
	Config *config.Config
	Log    *logrus.Logger
	// Stub is set when the contract stub was started because nothing else answered.
	Stub *refapp.Server
}

var (
	targetOnce sync.Once
	target     *Target
	targetErr  error
)

// ResolveTarget loads configuration (EMSUITE_CONFIG names the file) and picks the
// application: base_url when target is external, the contract stub when target is
// stub, and for auto whichever of base_url or its local fallbacks answers first,
// starting the stub when none does.
func ResolveTarget() (*Target, error) {
	targetOnce.Do(func() {
		target, targetErr = resolve()
	})
	return target, targetErr
}

func resolve() (*Target, error) {
	cfg, err := config.Load(os.Getenv("EMSUITE_CONFIG"))
	if err != nil {
		return nil, err
	}
	cfg.Fixtures.Dir = fixturesDir(cfg.Fixtures.Dir)
	log := logging.New(cfg.Logging)
	tgt := &Target{Config: cfg, Log: log}

	switch cfg.Target {
	case config.TargetExternal:
		return tgt, nil
	case config.TargetAuto:
		if url, ok := config.DetectReachable(context.Background(), cfg.BaseURL, cfg.Timeouts.Probe); ok {
			tgt.Config = cfg.WithBaseURL(url)
			log.WithField("base_url", url).Info("using running application")
			return tgt, nil
		}
		log.WithField("base_url", cfg.BaseURL).Info("application not reachable, starting contract stub")
	}

	app, err := refapp.New(refapp.Options{
		Seed:     true,
		Fixtures: &testdata.Fixtures{Dir: cfg.Fixtures.Dir},
		Logger:   log,
	})
	if err != nil {
		return nil, fmt.Errorf("contract stub: %w", err)
	}
	srv, err := refapp.Start(app, "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("contract stub: %w", err)
	}
	tgt.Stub = srv
	tgt.Config = cfg.WithBaseURL(srv.URL)
	return tgt, nil
}

// fixturesDir resolves a relative fixtures directory against the working directory
// first and the module root second, since go test runs inside tests/e2e.
func fixturesDir(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	if _, err := os.Stat(dir); err == nil {
		return dir
	}
	root := filepath.Join("..", "..", dir)
	if _, err := os.Stat(root); err == nil {
		return root
	}
	return dir
}

// Shutdown stops the contract stub if one was started.
func Shutdown() {
	if target != nil && target.Stub != nil {
		_ = target.Stub.Close()
	}
}
