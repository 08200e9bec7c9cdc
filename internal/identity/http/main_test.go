package http

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paperloop/paperloop/pkg/cryptox"
)

func TestMain(m *testing.M) {
	// Each test run gets its own pepper so hashes never leak between runs.
	dir, err := os.MkdirTemp("", "identity-http-test-*")
	if err != nil {
		panic(err)
	}

	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))
	os.Exit(func() int {
		defer os.RemoveAll(dir)
		return m.Run()
	}())
}
