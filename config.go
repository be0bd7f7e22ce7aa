package sheetcore

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"

	"github.com/aerissecure/sheetcore/styles"
)

//go:embed config.yaml
var defaultConfig []byte

type (
	StyleConfig struct {
		FontName     string  `yaml:"font_name" validate:"required"`
		FontSize     float64 `yaml:"font_size" validate:"gt=0,lte=409"`
		FontColor    string  `yaml:"font_color" validate:"omitempty,hexadecimal,len=6|len=8"`
		NumberFormat string  `yaml:"number_format" validate:"required"`
	}

	PreviewConfig struct {
		PxPerChar          float64 `yaml:"px_per_char" validate:"gt=0"`
		DefaultColumnChars float64 `yaml:"default_column_chars" validate:"gt=0"`
		DefaultRowHeightPt float64 `yaml:"default_row_height_pt" validate:"gt=0"`
		BorderColor        string  `yaml:"border_color" validate:"hexadecimal,len=6"`
	}

	Config struct {
		Version      int           `yaml:"version" validate:"eq=1"`
		DefaultStyle StyleConfig   `yaml:"default_style"`
		Preview      PreviewConfig `yaml:"preview"`
	}
)

func unmarshalConfig(data []byte, cfg *Config) (*Config, error) {
	// only fields defined above are accepted
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns the embedded configuration.
func DefaultConfig() *Config {
	cfg, err := unmarshalConfig(defaultConfig, &Config{})
	if err != nil {
		panic(fmt.Sprintf("embedded configuration is broken: %v", err))
	}
	return cfg
}

// ParseConfig superimposes data on top of the embedded defaults and
// validates the result.
func ParseConfig(data []byte) (*Config, error) {
	return unmarshalConfig(data, DefaultConfig())
}

// LoadConfig reads the configuration file at path. An empty path yields the
// embedded defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file %s: %w", path, err)
	}
	return cfg, nil
}

// Descriptor returns the default cell style described by the configuration.
func (c StyleConfig) Descriptor() styles.Descriptor {
	d := styles.Default()
	d.Font.Name = c.FontName
	d.Font.Size = c.FontSize
	d.Font.Color = c.FontColor
	d.NumberFormat = c.NumberFormat
	return d
}
