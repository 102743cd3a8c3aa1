package provider

import (
	"io"
	"testing"

	"triage_server/pkg/apperr"
	"triage_server/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.LevelError, Output: io.Discard})
}

func TestNewOpenAIModelDefaults(t *testing.T) {
	m, err := NewOpenAIModel(OpenAIConfig{APIKey: "sk-test"}, testLogger())
	if err != nil {
		t.Fatalf("NewOpenAIModel: %v", err)
	}
	if m.model != "gpt-4o-mini" {
		t.Errorf("default model = %q, want %q", m.model, "gpt-4o-mini")
	}
	if m.maxTok != 1024 {
		t.Errorf("default max tokens = %d, want 1024", m.maxTok)
	}
}

func TestNewOpenAIModelRequiresKey(t *testing.T) {
	_, err := NewOpenAIModel(OpenAIConfig{}, testLogger())
	if !apperr.IsCode(err, apperr.CodeConfigError) {
		t.Fatalf("err = %v, want %s", err, apperr.CodeConfigError)
	}
}
