package plans

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Style is one entry of the generation style catalog.
type Style struct {
	Key         string `yaml:"key"`
	DisplayName string `yaml:"display_name"`
}

// Plan is one subscription tier.
type Plan struct {
	// DailyGenerations caps generations per user per UTC day. 0 means unlimited.
	DailyGenerations int `yaml:"daily_generations"`
}

// Config is the styles/plans catalog, loadable from YAML.
type Config struct {
	Styles []Style         `yaml:"styles"`
	Plans  map[string]Plan `yaml:"plans"`
}

// DefaultStyleKey is applied when a generation request omits the style.
const DefaultStyleKey = "futuristic"

// Default mirrors the launch catalog; a YAML file overrides it wholesale.
func Default() Config {
	return Config{
		Styles: []Style{
			{Key: "realistic", DisplayName: "Realistic"},
			{Key: "cartoon", DisplayName: "Cartoon"},
			{Key: "3d", DisplayName: "3D Render"},
			{Key: "digital-art", DisplayName: "Digital Art"},
			{Key: "futuristic", DisplayName: "Futuristic"},
			{Key: "abstract", DisplayName: "Abstract"},
		},
		Plans: map[string]Plan{
			"free": {DailyGenerations: 25},
			"pro":  {DailyGenerations: 250},
		},
	}
}

// LoadFromEnv returns the catalog from the file named by PLANS_CONFIG, or the
// compiled-in default when the variable is unset.
func LoadFromEnv() (Config, error) {
	path := strings.TrimSpace(os.Getenv("PLANS_CONFIG"))
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile parses a YAML catalog file.
func LoadFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read plans config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse plans config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	cfg.fillDisplayNames()
	return cfg, nil
}

// Validate checks the catalog is usable.
func (c Config) Validate() error {
	if len(c.Styles) == 0 {
		return fmt.Errorf("plans config: at least one style is required")
	}
	for _, s := range c.Styles {
		if s.Key == "" {
			return fmt.Errorf("plans config: style with empty key")
		}
	}
	if len(c.Plans) == 0 {
		return fmt.Errorf("plans config: at least one plan is required")
	}
	if _, ok := c.Plans["free"]; !ok {
		return fmt.Errorf("plans config: the free plan is required")
	}
	for name, p := range c.Plans {
		if p.DailyGenerations < 0 {
			return fmt.Errorf("plans config: plan %q has negative daily_generations", name)
		}
	}
	return nil
}

// fillDisplayNames derives a display name from the key for styles that don't
// declare one, e.g. "digital-art" -> "Digital Art".
func (c *Config) fillDisplayNames() {
	titler := cases.Title(language.English)
	for i, s := range c.Styles {
		if s.DisplayName == "" {
			c.Styles[i].DisplayName = titler.String(strings.ReplaceAll(s.Key, "-", " "))
		}
	}
}

// HasStyle reports whether key is part of the catalog.
func (c Config) HasStyle(key string) bool {
	for _, s := range c.Styles {
		if s.Key == key {
			return true
		}
	}
	return false
}

// PlanLimit returns the daily generation cap for a plan name. Unknown plans fall
// back to the free tier.
func (c Config) PlanLimit(name string) int {
	if p, ok := c.Plans[name]; ok {
		return p.DailyGenerations
	}
	return c.Plans["free"].DailyGenerations
}
