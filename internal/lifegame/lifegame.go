// Package lifegame holds the narrative life-simulator content: short
// scenarios where each choice moves the balance and tells you why.
package lifegame

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed scenarios/default.yaml
var defaultScenarios []byte

// Choice is one option in a scenario. Delta is the signed balance effect.
type Choice struct {
	Label   string  `yaml:"label"`
	Delta   float64 `yaml:"delta"`
	Outcome string  `yaml:"outcome"`
}

// Scenario is one life event presented to the player.
type Scenario struct {
	ID      string   `yaml:"id"`
	Title   string   `yaml:"title"`
	Prompt  string   `yaml:"prompt"`
	Choices []Choice `yaml:"choices"`
}

type file struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Default returns the embedded scenario set.
func Default() []Scenario {
	scenarios, err := parse(defaultScenarios)
	if err != nil {
		panic(fmt.Sprintf("embedded scenarios invalid: %v", err))
	}
	return scenarios
}

// Load reads scenarios from a YAML file.
func Load(path string) ([]Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenarios: %w", err)
	}
	return parse(raw)
}

func parse(raw []byte) ([]Scenario, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse scenarios: %w", err)
	}
	if len(f.Scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios defined")
	}
	seen := map[string]bool{}
	for _, s := range f.Scenarios {
		if s.ID == "" {
			return nil, fmt.Errorf("scenario %q missing id", s.Title)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("duplicate scenario id %q", s.ID)
		}
		seen[s.ID] = true
		if len(s.Choices) < 2 {
			return nil, fmt.Errorf("scenario %q needs at least two choices", s.ID)
		}
	}
	return f.Scenarios, nil
}

// Find returns the scenario with the given id.
func Find(scenarios []Scenario, id string) (Scenario, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return Scenario{}, false
}

// Pick resolves a choice index against a scenario.
func Pick(s Scenario, choice int) (Choice, error) {
	if choice < 0 || choice >= len(s.Choices) {
		return Choice{}, fmt.Errorf("choice %d out of range for scenario %q", choice, s.ID)
	}
	return s.Choices[choice], nil
}
