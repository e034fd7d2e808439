package application

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config controls report rendering.
type Config struct {
	// StorageRoot is where generated PDF previews are written. Empty
	// disables the preview copy; exports still stream to the client.
	StorageRoot string `yaml:"storage_root"`
	// DefaultCompany and DefaultIndustry fill report headers when the
	// window carries neither.
	DefaultCompany  string `yaml:"default_company"`
	DefaultIndustry string `yaml:"default_industry"`
}

// LoadConfig loads rendering config from REPORT_CONFIG yaml, with env
// fallbacks for individual fields.
func LoadConfig() (Config, error) {
	cfg := Config{
		StorageRoot:     getenvDefault("REPORT_STORAGE_ROOT", filepath.FromSlash("var/reports")),
		DefaultCompany:  os.Getenv("REPORT_DEFAULT_COMPANY"),
		DefaultIndustry: os.Getenv("REPORT_DEFAULT_INDUSTRY"),
	}

	if path := os.Getenv("REPORT_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
