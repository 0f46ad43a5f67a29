package builder

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSettingsRoundTrip(t *testing.T) {
	dir := t.TempDir()

	in := settings{
		OperationMode: "project-file",
		DecoderMethod: "base64",
		SchemaPath:    "/tmp/project.json",
	}
	if err := saveSettings(dir, in); err != nil {
		t.Fatalf("saveSettings: %v", err)
	}

	out, err := loadSettings(dir)
	if err != nil {
		t.Fatalf("loadSettings: %v", err)
	}
	if out.OperationMode != in.OperationMode {
		t.Errorf("mode = %q, want %q", out.OperationMode, in.OperationMode)
	}
	if out.DecoderMethod != in.DecoderMethod {
		t.Errorf("method = %q, want %q", out.DecoderMethod, in.DecoderMethod)
	}
	if out.SchemaPath != in.SchemaPath {
		t.Errorf("schema path = %q, want %q", out.SchemaPath, in.SchemaPath)
	}
	if out.UpdatedAt.IsZero() {
		t.Error("updated_at not stamped")
	}
}

func TestSaveSettingsCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	if err := saveSettings(dir, settings{OperationMode: "quick-plot"}); err != nil {
		t.Fatalf("saveSettings: %v", err)
	}
	if _, err := os.Stat(settingsFile(dir)); err != nil {
		t.Fatalf("settings file missing: %v", err)
	}
}

func TestLoadSettingsMissing(t *testing.T) {
	if _, err := loadSettings(t.TempDir()); err == nil {
		t.Fatal("expected error for missing settings file")
	}
}
