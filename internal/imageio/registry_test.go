package imageio

import (
	"errors"
	"image"
	"io"
	"testing"
)

func TestNormalizeExtension(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{".png", ".png"},
		{"PNG", ".png"},
		{" .JpEg ", ".jpeg"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeExtension(tt.input); got != tt.expected {
			t.Errorf("NormalizeExtension(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestDecoderRegistry_Register(t *testing.T) {
	registry := NewDecoderRegistry()
	factory := func(map[string]any) (DecodeFunc, error) {
		return func(io.Reader) (image.Image, error) { return nil, nil }, nil
	}

	if err := registry.Register("PNG", factory); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if !registry.IsRegistered(".png") {
		t.Error("Expected .png to be registered")
	}
	if err := registry.Register(".png", factory); err == nil {
		t.Error("Expected error for duplicate registration")
	}
	if err := registry.Register("", factory); err == nil {
		t.Error("Expected error for empty extension")
	}
	if err := registry.Register(".gif", nil); err == nil {
		t.Error("Expected error for nil factory")
	}
}

func TestDecoderRegistry_CreateUnknown(t *testing.T) {
	registry := NewDecoderRegistry()

	_, err := registry.Create(".png", nil)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestDecoderRegistry_CreateFactoryError(t *testing.T) {
	registry := NewDecoderRegistry()
	err := registry.Register(".bad", func(map[string]any) (DecodeFunc, error) {
		return nil, errors.New("boom")
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := registry.Create(".bad", nil); err == nil {
		t.Error("Expected error from failing factory")
	}
}

func TestDefaultRegistry_HasBuiltInDecoders(t *testing.T) {
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".webp", ".svg"} {
		if !DefaultRegistry.IsRegistered(ext) {
			t.Errorf("Expected %s to be registered in DefaultRegistry", ext)
		}
	}

	names := DefaultRegistry.GetRegisteredNames()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("Expected sorted names, got %v", names)
		}
	}
}

func TestGetIntParam(t *testing.T) {
	params := map[string]any{
		"int":    5,
		"int64":  int64(6),
		"float":  float64(7),
		"string": "8",
	}

	if got := GetIntParam(params, "int", 0); got != 5 {
		t.Errorf("Expected 5, got %d", got)
	}
	if got := GetIntParam(params, "int64", 0); got != 6 {
		t.Errorf("Expected 6, got %d", got)
	}
	if got := GetIntParam(params, "float", 0); got != 7 {
		t.Errorf("Expected 7, got %d", got)
	}
	if got := GetIntParam(params, "string", 9); got != 9 {
		t.Errorf("Expected default 9 for string value, got %d", got)
	}
	if got := GetIntParam(params, "missing", 1); got != 1 {
		t.Errorf("Expected default 1, got %d", got)
	}
}
