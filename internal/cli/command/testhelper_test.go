package command

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
)

// harness runs the solbox app against a badger store in a temp dir.
type harness struct {
	t       *testing.T
	dataDir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	return &harness{t: t, dataDir: filepath.Join(t.TempDir(), "data")}
}

// run executes one command with JSON output and returns stdout.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	app := App()
	var stdout, stderr bytes.Buffer
	app.Writer = &stdout
	app.ErrWriter = &stderr

	full := append([]string{"solbox", "--data-dir", h.dataDir, "--output", "json"}, args...)
	err := app.Run(full)
	return stdout.String(), err
}

// mustRun runs a command that must succeed and decodes its JSON output.
func (h *harness) mustRun(out any, args ...string) {
	h.t.Helper()
	stdout, err := h.run(args...)
	if err != nil {
		h.t.Fatalf("%v: %v", args, err)
	}
	if out == nil {
		return
	}
	if err := json.Unmarshal([]byte(stdout), out); err != nil {
		h.t.Fatalf("%v: decode output %q: %v", args, stdout, err)
	}
}
