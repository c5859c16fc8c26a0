// Package config loads and validates benchmark plans.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Plan describes one benchmark comparison: the pool shape, the input size
// and the strategies to run.
type Plan struct {
	// Workers is the pool size used by the parallel strategies.
	Workers int `yaml:"workers"`

	// Mode is the worker isolation mode, "isolated" or "shared".
	Mode string `yaml:"mode"`

	// Repetitions is how many times each strategy runs.
	Repetitions int `yaml:"repetitions"`

	// Items is the length of the generated input sequence.
	Items int `yaml:"items"`

	// Strategies selects a subset of the known strategies. Empty means all.
	Strategies []string `yaml:"strategies"`

	// Logging controls log output.
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultPlan returns the default benchmark plan.
func DefaultPlan() *Plan {
	return &Plan{
		Workers:     4,
		Mode:        "isolated",
		Repetitions: 10,
		Items:       10000,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ParsePlan 从 YAML 数据解析计划，未出现的字段保持默认值。
func ParsePlan(data []byte) (*Plan, error) {
	plan := DefaultPlan()
	if err := yaml.Unmarshal(data, plan); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	return plan, nil
}

// LoadFromFile loads a plan from a YAML file.
func LoadFromFile(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	return ParsePlan(data)
}

// Serialize renders the plan as YAML.
func (p *Plan) Serialize() ([]byte, error) {
	return yaml.Marshal(p)
}

// Clone returns a deep copy of the plan.
func (p *Plan) Clone() *Plan {
	dup := *p
	if p.Strategies != nil {
		dup.Strategies = make([]string, len(p.Strategies))
		copy(dup.Strategies, p.Strategies)
	}
	return &dup
}
