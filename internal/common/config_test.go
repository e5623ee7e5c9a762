package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()
	assert.Equal(t, "./json", cfg.JSONDir)
	assert.Equal(t, []string{"./docx", "./pdf"}, cfg.InputDirs)
	assert.Equal(t, "gpt-3.5-turbo-16k", cfg.LLM.Model)
	assert.Equal(t, float32(1), cfg.LLM.Temperature)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("RESUME_JSON_DIR", "/data/json")
	t.Setenv("RESUME_INPUT_DIRS", "/data/docx, /data/pdf,")
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")
	t.Setenv("OPENAI_TEMPERATURE", "0.5")
	t.Setenv("OPENAI_TIMEOUT", "90s")

	cfg := LoadConfig()
	assert.Equal(t, "/data/json", cfg.JSONDir)
	assert.Equal(t, []string{"/data/docx", "/data/pdf"}, cfg.InputDirs)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, float32(0.5), cfg.LLM.Temperature)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
}

func TestValidateRejectsEmptyJSONDir(t *testing.T) {
	cfg := LoadConfig()
	cfg.JSONDir = ""
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.InputDirs = nil
	assert.Error(t, cfg.Validate())
}
