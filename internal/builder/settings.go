package builder

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// settings is the on-disk mirror of the builder state that survives
// restarts. It is rewritten on every successful state change.
type settings struct {
	OperationMode string    `json:"operation_mode"`
	DecoderMethod string    `json:"decoder_method"`
	SchemaPath    string    `json:"schema_path"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func settingsFile(dir string) string { return filepath.Join(dir, "settings.json") }

func loadSettings(dir string) (settings, error) {
	b, err := os.ReadFile(settingsFile(dir))
	if err != nil {
		return settings{}, err
	}
	var s settings
	if err := json.Unmarshal(b, &s); err != nil {
		return settings{}, err
	}
	return s, nil
}

func saveSettings(dir string, s settings) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	s.UpdatedAt = time.Now()
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	tmp := settingsFile(dir) + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, settingsFile(dir))
}
