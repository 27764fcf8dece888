package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jo-hoe/quadsplit/internal/quadrant"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}
	return configPath
}

func TestDefault_IsValid(t *testing.T) {
	config := Default()
	if err := config.Validate(); err != nil {
		t.Fatalf("Expected default config to be valid, got %v", err)
	}
	if config.Margin != 0.05 {
		t.Errorf("Expected default margin 0.05, got %v", config.Margin)
	}
	if config.IndexFile != "index.json" || config.SeedFile != "designs_seed.csv" {
		t.Errorf("Unexpected default output names: %s, %s", config.IndexFile, config.SeedFile)
	}
}

func TestLoadConfig_Success(t *testing.T) {
	configPath := writeConfig(t, `margin: 0.1
jpegQuality: 90
imageUrlPrefix: "https://cdn.example.com/designs/"
extensions: ["PNG", "webp"]
designSetsFile: design_sets_seed.csv`)

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Margin != 0.1 {
		t.Errorf("Expected margin 0.1, got %v", config.Margin)
	}
	if config.JPEGQuality != 90 {
		t.Errorf("Expected jpegQuality 90, got %d", config.JPEGQuality)
	}
	if config.ImageURLPrefix != "https://cdn.example.com/designs/" {
		t.Errorf("Unexpected imageUrlPrefix %q", config.ImageURLPrefix)
	}
	if len(config.Extensions) != 2 || config.Extensions[0] != ".png" || config.Extensions[1] != ".webp" {
		t.Errorf("Expected normalized extensions [.png .webp], got %v", config.Extensions)
	}
	if config.DesignSetsFile != "design_sets_seed.csv" {
		t.Errorf("Unexpected designSetsFile %q", config.DesignSetsFile)
	}
	// unspecified fields keep their defaults
	if config.IndexFile != "index.json" {
		t.Errorf("Expected default indexFile, got %q", config.IndexFile)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	config, err := LoadConfig("/path/that/does/not/exist/config.yaml")
	if err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}
	if config != nil {
		t.Error("Expected config to be nil when file doesn't exist")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, "margin: [unterminated")

	if _, err := LoadConfig(configPath); err == nil {
		t.Fatal("Expected error for invalid YAML, got nil")
	}
}

func TestLoadConfig_InvalidMargin(t *testing.T) {
	configPath := writeConfig(t, "margin: 0.3")

	_, err := LoadConfig(configPath)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
	if !errors.Is(err, quadrant.ErrInvalidMargin) {
		t.Errorf("Expected ErrInvalidMargin, got %v", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"Negative margin", func(c *Config) { c.Margin = -0.1 }},
		{"Quality too low", func(c *Config) { c.JPEGQuality = 0 }},
		{"Quality too high", func(c *Config) { c.JPEGQuality = 101 }},
		{"No extensions", func(c *Config) { c.Extensions = nil }},
		{"Unknown extension", func(c *Config) { c.Extensions = []string{".psd"} }},
		{"Duplicate extension", func(c *Config) { c.Extensions = []string{".png", "PNG"} }},
		{"Empty index file", func(c *Config) { c.IndexFile = "" }},
		{"Empty seed file", func(c *Config) { c.SeedFile = "" }},
		{"Negative svg fallback", func(c *Config) { c.SVGFallbackWidth = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.modify(config)

			err := config.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestDecoderParams(t *testing.T) {
	config := Default()
	config.SVGFallbackWidth = 640
	config.SVGFallbackHeight = 480

	params := config.DecoderParams()
	if params["svgFallbackWidth"] != 640 || params["svgFallbackHeight"] != 480 {
		t.Errorf("Unexpected decoder params %v", params)
	}
}
