package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/iocboot/bootstrap"
	"github.com/kbukum/iocboot/di"
	"github.com/kbukum/iocboot/logger"
)

// writeConfig writes a config file whose database lives in a temporary
// directory, so state survives between commands of one test.
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	content := fmt.Sprintf(`name: greeter
environment: test
logging:
  level: error
database:
  dsn: "file:%s"
  auto_migrate: true
  log_level: silent
`, filepath.Join(dir, "greeter.db"))

	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func execute(t *testing.T, cfgFile string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(
		bootstrap.WithPrivateContainer(),
		bootstrap.WithLogger(logger.Nop()),
		bootstrap.WithSummaryOutput(io.Discard),
	)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--config", cfgFile, "--hosted=false"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestGreetAndHistory(t *testing.T) {
	cfg := writeConfig(t)

	out, err := execute(t, cfg, "greet", "Ada", "Bob")
	if err != nil {
		t.Fatalf("greet failed: %v", err)
	}
	if out != "Hello, Ada!\nHello, Bob!\n" {
		t.Errorf("greet output = %q", out)
	}

	out, err = execute(t, cfg, "greet", "--lang", "fr", "Ada")
	if err != nil {
		t.Fatalf("greet --lang fr failed: %v", err)
	}
	if out != "Bonjour, Ada !\n" {
		t.Errorf("greet --lang fr output = %q", out)
	}
	if _, err := execute(t, cfg, "greet", "--lang", "fr", "Ada"); err != nil {
		t.Fatalf("second greet failed: %v", err)
	}

	out, err = execute(t, cfg, "history", "--filter", "language=eq.fr")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("history output = %q", out)
	}
	if fields := strings.Fields(lines[1]); len(fields) != 3 || fields[0] != "Ada" || fields[2] != "2" {
		t.Errorf("history row = %q", lines[1])
	}
	if lines[2] != "page 1/1, 1 total" {
		t.Errorf("history footer = %q", lines[2])
	}
}

func TestGreet_UnsupportedLanguage(t *testing.T) {
	_, err := execute(t, writeConfig(t), "greet", "--lang", "xx", "Ada")
	if err == nil || !strings.Contains(err.Error(), "INVALID_INPUT") {
		t.Errorf("greet --lang xx = %v, want INVALID_INPUT", err)
	}
}

func TestForget(t *testing.T) {
	cfg := writeConfig(t)
	if _, err := execute(t, cfg, "greet", "Ada"); err != nil {
		t.Fatalf("greet failed: %v", err)
	}
	out, err := execute(t, cfg, "forget", "Ada")
	if err != nil {
		t.Fatalf("forget failed: %v", err)
	}
	if out != "forgot 1 greeting(s) for Ada\n" {
		t.Errorf("forget output = %q", out)
	}
	if _, err := execute(t, cfg, "forget", "Ada"); err == nil {
		t.Error("forgetting twice should fail")
	}
}

func TestHistory_InvalidFilter(t *testing.T) {
	if _, err := execute(t, writeConfig(t), "history", "--filter", "nonsense"); err == nil {
		t.Error("history with an invalid filter should fail")
	}
}

func TestBindings(t *testing.T) {
	out, err := execute(t, writeConfig(t), "bindings", "--json")
	if err != nil {
		t.Fatalf("bindings failed: %v", err)
	}
	var infos []di.RegistrationInfo
	if err := json.Unmarshal([]byte(out), &infos); err != nil {
		t.Fatalf("decoding bindings: %v\n%s", err, out)
	}

	byContract := make(map[string]di.RegistrationInfo, len(infos))
	for _, info := range infos {
		byContract[info.Contract] = info
	}
	for _, contract := range []string{"greeter.Greeter", "*database.DB", "*database.Component", "*logger.Logger"} {
		if _, ok := byContract[contract]; !ok {
			t.Errorf("missing binding for %s", contract)
		}
	}
	if got := byContract["greeter.Phrasebook"].Overrides; got != 1 {
		t.Errorf("Phrasebook overrides = %d, want 1 (locale overrides greeter)", got)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, writeConfig(t), "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "greeter dev") {
		t.Errorf("version output = %q", out)
	}
}
