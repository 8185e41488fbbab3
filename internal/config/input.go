package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rgehrsitz/refundcast/internal/dataset"
	"github.com/rgehrsitz/refundcast/internal/domain"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of model input files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads the model input from a YAML (or JSON) file. A relative
// filepath in the file is resolved against the directory holding it.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	config, err := ip.Parse(data)
	if err != nil {
		return nil, err
	}

	config.FilePath = ResolveDataPath(filename, config.FilePath)
	return config, nil
}

// Parse decodes and validates a model input document
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if config == nil {
		return fmt.Errorf("configuration is required")
	}
	if strings.TrimSpace(config.FilePath) == "" {
		return fmt.Errorf("filepath is required")
	}
	return nil
}

// LoadPortfolio loads the configuration and the client dataset it points at
func (ip *InputParser) LoadPortfolio(filename string) (*domain.Configuration, domain.Portfolio, error) {
	config, err := ip.LoadFromFile(filename)
	if err != nil {
		return nil, domain.Portfolio{}, err
	}

	portfolio, err := dataset.Load(config.FilePath)
	if err != nil {
		return nil, domain.Portfolio{}, fmt.Errorf("failed to load client dataset: %w", err)
	}
	return config, portfolio, nil
}

// ResolveDataPath joins a relative dataset path onto the config file's directory
func ResolveDataPath(configPath, dataPath string) string {
	if dataPath == "" || filepath.IsAbs(dataPath) {
		return dataPath
	}
	return filepath.Join(filepath.Dir(configPath), dataPath)
}
