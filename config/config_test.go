package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  model: qwen2.5-coder:7b\n"), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "qwen2.5-coder:7b", cfg.LLM.Model)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, float32(0.7), cfg.LLM.Temperature)
	assert.True(t, cfg.Safety.Enabled)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: [not a mapping"), 0o644))

	_, err := LoadFrom(path)
	require.ErrorContains(t, err, "parse config")
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.LLM.Model = "mistral"
	cfg.LLM.Temperature = 0.2
	cfg.Safety.AllowSystemCommands = true
	require.NoError(t, cfg.SaveTo(path))

	got, err := LoadFrom(path)
	require.NoError(t, err)

	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("roundtrip mismatch (-want +got):\n%s", diff)
	}
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	cases := []struct {
		key   string
		value string
	}{
		{"llm.provider", "ollama"},
		{"llm.model", "llama3.2:70b"},
		{"llm.temperature", "0.35"},
		{"llm.max_tokens", "8192"},
		{"llm.timeout_seconds", "120"},
		{"ui.theme", "dark"},
		{"ui.show_line_numbers", "false"},
		{"ui.auto_save", "true"},
		{"safety.enabled", "false"},
		{"safety.max_file_size_mb", "25"},
	}

	for _, tt := range cases {
		t.Run(tt.key, func(t *testing.T) {
			require.NoError(t, cfg.Set(tt.key, tt.value))

			got, err := cfg.Get(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestSetInvalidValue(t *testing.T) {
	cfg := Default()

	assert.Error(t, cfg.Set("llm.temperature", "warm"))
	assert.Error(t, cfg.Set("llm.max_tokens", "many"))
	assert.Error(t, cfg.Set("safety.enabled", "maybe"))
}

func TestUnknownKey(t *testing.T) {
	cfg := Default()

	_, err := cfg.Get("llm.nope")
	assert.ErrorIs(t, err, errUnknownKey)
	assert.ErrorIs(t, cfg.Set("nope", "x"), errUnknownKey)
}

func TestKeysAllResolvable(t *testing.T) {
	cfg := Default()
	for _, key := range Keys() {
		_, err := cfg.Get(key)
		assert.NoError(t, err, key)
	}
}

func TestTimeoutDuration(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "30s", cfg.LLM.TimeoutDuration().String())

	cfg.LLM.Timeout = 0
	assert.Zero(t, cfg.LLM.TimeoutDuration())
}
