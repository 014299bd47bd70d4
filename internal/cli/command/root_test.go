package command

import (
	"bytes"
	"strings"
	"testing"
)

func TestApp(t *testing.T) {
	app := App()
	if app.Name != "solbox" {
		t.Errorf("Name = %q, want solbox", app.Name)
	}

	names := make(map[string]bool)
	for _, cmd := range app.Commands {
		names[cmd.Name] = true
	}
	for _, name := range []string{"address", "mailbox", "message", "inbox", "instruction", "store", "config", "version", "shell"} {
		if !names[name] {
			t.Errorf("missing command: %s", name)
		}
	}
}

func TestApp_GlobalFlags(t *testing.T) {
	flags := make(map[string]bool)
	for _, f := range App().Flags {
		flags[f.Names()[0]] = true
	}
	for _, name := range []string{"config", "data-dir", "engine", "output", "wide", "verbose"} {
		if !flags[name] {
			t.Errorf("missing flag: %s", name)
		}
	}
}

func TestGlobalFlags_Overrides(t *testing.T) {
	f := &GlobalFlags{DataDir: "/d", Engine: "memory", Output: "yaml", Verbose: true}
	m := f.overrides()
	if m["storage.data_dir"] != "/d" || m["storage.engine"] != "memory" ||
		m["output.format"] != "yaml" || m["log.level"] != "debug" {
		t.Errorf("overrides() = %v", m)
	}
	if len((&GlobalFlags{}).overrides()) != 0 {
		t.Error("unset flags should not override configuration")
	}
}

func TestBefore_InvalidConfig(t *testing.T) {
	h := newHarness(t)
	if _, err := h.run("--engine", "bolt", "address", "sentinel"); err == nil {
		t.Error("unknown engine should fail before the command runs")
	}
}

func TestVersionCommand(t *testing.T) {
	h := newHarness(t)
	var info struct {
		Version   string `json:"version"`
		GoVersion string `json:"go_version"`
	}
	h.mustRun(&info, "version")
	if info.Version == "" || info.GoVersion == "" {
		t.Errorf("version output = %+v", info)
	}
}

func TestConfigShow_TableOutput(t *testing.T) {
	newHarness(t)
	app := App()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &bytes.Buffer{}

	if err := app.Run([]string{"solbox", "--engine", "memory", "config", "show"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "storage.engine") || !strings.Contains(out.String(), "memory") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}
