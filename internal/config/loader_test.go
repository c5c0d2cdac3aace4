package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadYAML(t *testing.T) {
	data := []byte(`
tools:
  spades:
    path: /opt/spades/bin/spades.py
    args: ["--careful"]
  quast:
    path: /usr/local/bin/quast.py
min_q30: 0.7
`)
	c, err := Load(data, ".yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := &Config{
		Tools: map[string]Tool{
			"spades": {Path: "/opt/spades/bin/spades.py", Args: []string{"--careful"}},
			"quast":  {Path: "/usr/local/bin/quast.py"},
		},
		MinQ30: 0.7,
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadJSONDetectedFromContent(t *testing.T) {
	data := []byte(`{"tools": {"skesa": {"path": "/opt/skesa"}}}`)
	c, err := Load(data, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := c.ToolPath("skesa"); got != "/opt/skesa" {
		t.Errorf("ToolPath(skesa) = %q", got)
	}
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proksee.yml")
	if err := os.WriteFile(path, []byte("min_q30: 0.55\n"), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if c.MinQ30 != 0.55 {
		t.Errorf("MinQ30 = %v, want 0.55", c.MinQ30)
	}
}

func TestToolPathDefaults(t *testing.T) {
	var c *Config
	if got := c.ToolPath("mash"); got != "mash" {
		t.Errorf("nil config ToolPath = %q, want mash", got)
	}
	c = &Config{}
	if got := c.ToolPath("fastp"); got != "fastp" {
		t.Errorf("empty config ToolPath = %q, want fastp", got)
	}
	if got := c.ToolPath("spades", "spades.py"); got != "spades.py" {
		t.Errorf("ToolPath with default = %q, want spades.py", got)
	}
	c.Tools = map[string]Tool{"spades": {Path: "/opt/spades.py"}}
	if got := c.ToolPath("spades", "spades.py"); got != "/opt/spades.py" {
		t.Errorf("configured ToolPath = %q", got)
	}
	if args := c.ToolArgs("fastp"); args != nil {
		t.Errorf("ToolArgs = %v, want nil", args)
	}
}

func TestLoadBadYAML(t *testing.T) {
	if _, err := Load([]byte(":\n bad"), ".yaml"); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
