package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator"
	"gopkg.in/yaml.v3"

	"github.com/jo-hoe/quadsplit/internal/imageio"
	"github.com/jo-hoe/quadsplit/internal/quadrant"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config controls a single split run
type Config struct {
	Margin            float64  `yaml:"margin"`
	JPEGQuality       int      `yaml:"jpegQuality" validate:"min=1,max=100"`
	ImageURLPrefix    string   `yaml:"imageUrlPrefix"`
	Extensions        []string `yaml:"extensions" validate:"required,min=1,dive,imageext"`
	IndexFile         string   `yaml:"indexFile" validate:"required"`
	SeedFile          string   `yaml:"seedFile" validate:"required"`
	DesignSetsFile    string   `yaml:"designSetsFile"`
	SVGFallbackWidth  int      `yaml:"svgFallbackWidth" validate:"min=0"`
	SVGFallbackHeight int      `yaml:"svgFallbackHeight" validate:"min=0"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Margin:         0.05,
		JPEGQuality:    imageio.DefaultJPEGQuality,
		ImageURLPrefix: "/designs/",
		Extensions:     []string{".png", ".jpg", ".jpeg"},
		IndexFile:      "index.json",
		SeedFile:       "designs_seed.csv",
	}
}

// LoadConfig loads configuration from the specified YAML file on top of Default()
func LoadConfig(configPath string) (*Config, error) {
	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Parse YAML
	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", configPath, err)
	}

	return config, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("imageext", func(fl validator.FieldLevel) bool {
		return imageio.DefaultRegistry.IsRegistered(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("failed to register imageext validation: %v", err))
	}
	return v
}

// Validate normalizes extensions and checks every field. Margin errors also
// match quadrant.ErrInvalidMargin.
func (c *Config) Validate() error {
	if err := quadrant.ValidateMargin(c.Margin); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	for i, ext := range c.Extensions {
		c.Extensions[i] = imageio.NormalizeExtension(ext)
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := validateExtensions(c.Extensions); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// validateExtensions ensures no extension is listed twice
func validateExtensions(extensions []string) error {
	seen := make(map[string]bool)

	for _, ext := range extensions {
		if seen[ext] {
			return fmt.Errorf("duplicate extension: %s", ext)
		}
		seen[ext] = true
	}

	return nil
}

// DecoderParams returns the parameters handed to decoder factories
func (c *Config) DecoderParams() map[string]any {
	return map[string]any{
		"svgFallbackWidth":  c.SVGFallbackWidth,
		"svgFallbackHeight": c.SVGFallbackHeight,
	}
}
