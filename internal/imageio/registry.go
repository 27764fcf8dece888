package imageio

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sort"
	"strings"
)

// ErrUnsupportedFormat is returned when no decoder is registered for an extension.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// DecodeFunc decodes a single image from r.
type DecodeFunc func(r io.Reader) (image.Image, error)

// DecoderFactory creates a decoder from configuration parameters
type DecoderFactory func(params map[string]any) (DecodeFunc, error)

// DecoderRegistry maps file extensions to decoder factories
type DecoderRegistry struct {
	factories map[string]DecoderFactory
}

// NewDecoderRegistry creates an empty registry
func NewDecoderRegistry() *DecoderRegistry {
	return &DecoderRegistry{
		factories: make(map[string]DecoderFactory),
	}
}

// NormalizeExtension lower-cases ext and makes sure it starts with a dot.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Register adds a decoder factory for the given extension
func (r *DecoderRegistry) Register(ext string, factory DecoderFactory) error {
	ext = NormalizeExtension(ext)
	if ext == "" {
		return fmt.Errorf("extension cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("decoder factory cannot be nil")
	}
	if _, exists := r.factories[ext]; exists {
		return fmt.Errorf("decoder for %s is already registered", ext)
	}
	r.factories[ext] = factory
	return nil
}

// Create instantiates the decoder for ext with the given parameters
func (r *DecoderRegistry) Create(ext string, params map[string]any) (DecodeFunc, error) {
	ext = NormalizeExtension(ext)
	factory, exists := r.factories[ext]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	decode, err := factory(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder for %s: %w", ext, err)
	}
	return decode, nil
}

// IsRegistered checks if a decoder exists for ext
func (r *DecoderRegistry) IsRegistered(ext string) bool {
	_, exists := r.factories[NormalizeExtension(ext)]
	return exists
}

// GetRegisteredNames returns all registered extensions in sorted order
func (r *DecoderRegistry) GetRegisteredNames() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry holds every decoder this package ships with
var DefaultRegistry = NewDecoderRegistry()

// GetIntParam safely extracts an int parameter from the params map
func GetIntParam(params map[string]any, key string, defaultValue int) int {
	if val, ok := params[key]; ok {
		switch v := val.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return defaultValue
}
