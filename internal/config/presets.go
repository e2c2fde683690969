package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type RulePresets struct {
	Rules []RulePreset `yaml:"rules"`
}

type RulePreset struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Priority    int               `yaml:"priority"`
	Active      *bool             `yaml:"active"`
	Conditions  []ConditionPreset `yaml:"conditions"`
	Actions     []ActionPreset    `yaml:"actions"`
}

type ConditionPreset struct {
	Type     string  `yaml:"type"`
	Operator string  `yaml:"operator"`
	Value    float64 `yaml:"value"`
	Field    string  `yaml:"field"`
}

type ActionPreset struct {
	Type   string        `yaml:"type"`
	Value  float64       `yaml:"value"`
	Unit   string        `yaml:"unit"`
	Limits *LimitsPreset `yaml:"limits"`
}

type LimitsPreset struct {
	MinPrice            float64 `yaml:"minPrice"`
	MaxPrice            float64 `yaml:"maxPrice"`
	MaxPercentageChange float64 `yaml:"maxPercentageChange"`
	MinMargin           float64 `yaml:"minMargin"`
}

// IsActive defaults to true when the preset omits the flag.
func (p RulePreset) IsActive() bool {
	return p.Active == nil || *p.Active
}

// LoadRulePresets reads pricing rules to seed on start.
func LoadRulePresets(path string) (RulePresets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RulePresets{}, fmt.Errorf("os.ReadFile: %w", err)
	}

	return ParseRulePresets(data)
}

func ParseRulePresets(data []byte) (RulePresets, error) {
	var presets RulePresets

	if err := yaml.Unmarshal(data, &presets); err != nil {
		return RulePresets{}, fmt.Errorf("yaml.Unmarshal: %w", err)
	}

	return presets, nil
}
