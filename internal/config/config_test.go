package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/axonmocap/mxtpd/internal/mxtp"
)

func TestLoadOverridesOnlyDefinedKeys(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "mxtpd.toml")
	body := `
udp_addr = ":19763"
point_id_multiplier = 100
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.UDPAddr != ":19763" {
		t.Errorf("UDPAddr = %q, want :19763", cfg.UDPAddr)
	}
	if cfg.Mxtp.PointIDMultiplier != mxtp.PointIDMultiplier100 {
		t.Errorf("PointIDMultiplier = %d, want 100", cfg.Mxtp.PointIDMultiplier)
	}
	// Untouched keys retain Default()'s values.
	if cfg.DebugAPIAddr != ":9764" {
		t.Errorf("DebugAPIAddr = %q, want default :9764", cfg.DebugAPIAddr)
	}
	if cfg.Mxtp.ReassemblyWindowSamples != 64 {
		t.Errorf("ReassemblyWindowSamples = %d, want default 64", cfg.Mxtp.ReassemblyWindowSamples)
	}
}

func TestLoadRejectsInvalidMultiplier(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "mxtpd.toml")
	if err := os.WriteFile(path, []byte("point_id_multiplier = 7\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid point_id_multiplier")
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	if _, err := Load("/nonexistent/mxtpd.toml"); err == nil {
		t.Error("expected error for missing file")
	}
}
