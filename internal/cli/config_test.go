package cli

import (
	"os"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/verifact/verifact/internal/model"
)

func TestConfigInit_CreatesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := configInitCmd.RunE(configInitCmd, nil); err != nil {
		t.Fatalf("expected config init to succeed, got %v", err)
	}

	home, _ := os.UserHomeDir()
	data, err := os.ReadFile(home + "/.verifact/config.yaml")
	if err != nil {
		t.Fatalf("expected config file to exist, got %v", err)
	}

	content := string(data)
	if !strings.HasPrefix(content, "# Verifact Configuration File") {
		t.Errorf("expected header comment, got %q", content[:40])
	}
	if !strings.Contains(content, "OPENAI_API_KEY") {
		t.Error("expected API key guidance in footer comments")
	}

	// Everything between the comments must round-trip as a Config.
	var cfg model.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("expected generated file to parse as config, got %v", err)
	}
}

func TestConfigInit_RefusesOverwrite(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := configInitCmd.RunE(configInitCmd, nil); err != nil {
		t.Fatalf("expected first init to succeed, got %v", err)
	}

	err := configInitCmd.RunE(configInitCmd, nil)
	if err == nil {
		t.Fatal("expected second init to refuse overwriting")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("expected already-exists error, got %v", err)
	}
}
