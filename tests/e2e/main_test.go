package e2e

import (
	"os"
	"testing"

	"github.com/gotrs-io/emsuite/tests/e2e/helpers"
)

func TestMain(m *testing.M) {
	code := m.Run()
	helpers.Shutdown()
	os.Exit(code)
}
