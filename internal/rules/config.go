package rules

import (
	"os"

	"gopkg.in/yaml.v3"

	"comply-core/pkg/db"
)

// Config represents a rule entry in YAML.
type Config struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	RuleType    string  `yaml:"rule_type"`
	Threshold   float64 `yaml:"threshold"`
	IsActive    bool    `yaml:"is_active"`
}

// ConfigFile represents the top-level YAML structure.
type ConfigFile struct {
	Rules []Config `yaml:"rules"`
}

// LoadConfig reads rules from a YAML file.
func LoadConfig(path string) ([]Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file ConfigFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	return file.Rules, nil
}

// ToRules converts YAML entries into rule rows, preserving file order.
func ToRules(configs []Config) []db.Rule {
	out := make([]db.Rule, 0, len(configs))
	for _, c := range configs {
		out = append(out, db.Rule{
			Name:        c.Name,
			Description: c.Description,
			RuleType:    c.RuleType,
			Threshold:   c.Threshold,
			IsActive:    c.IsActive,
		})
	}
	return out
}
