// Package quiz loads question decks and grades answers into ledger rewards.
package quiz

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed decks/basics.yaml
var basicsDeck []byte

// Question is one multiple-choice prompt. Answer indexes into Options.
type Question struct {
	Prompt  string   `yaml:"prompt"`
	Options []string `yaml:"options"`
	Answer  int      `yaml:"answer"`
	Reward  float64  `yaml:"reward"`
}

// Deck is a named set of questions.
type Deck struct {
	Name      string     `yaml:"name"`
	Questions []Question `yaml:"questions"`
}

// Result is the outcome of grading one deck attempt.
type Result struct {
	Correct int
	Total   int
	Reward  float64
}

// DefaultDeck returns the embedded starter deck.
func DefaultDeck() Deck {
	deck, err := parseDeck(basicsDeck)
	if err != nil {
		// The embedded deck ships with the binary; failing to parse it is a
		// build defect, not a runtime condition.
		panic(fmt.Sprintf("embedded quiz deck invalid: %v", err))
	}
	return deck
}

// LoadDeck reads a deck from a YAML file.
func LoadDeck(path string) (Deck, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Deck{}, fmt.Errorf("read deck: %w", err)
	}
	return parseDeck(raw)
}

func parseDeck(raw []byte) (Deck, error) {
	var deck Deck
	if err := yaml.Unmarshal(raw, &deck); err != nil {
		return Deck{}, fmt.Errorf("parse deck: %w", err)
	}
	if len(deck.Questions) == 0 {
		return Deck{}, fmt.Errorf("deck %q has no questions", deck.Name)
	}
	for i, q := range deck.Questions {
		if len(q.Options) < 2 {
			return Deck{}, fmt.Errorf("question %d needs at least two options", i+1)
		}
		if q.Answer < 0 || q.Answer >= len(q.Options) {
			return Deck{}, fmt.Errorf("question %d answer index out of range", i+1)
		}
		if q.Reward < 0 {
			return Deck{}, fmt.Errorf("question %d has a negative reward", i+1)
		}
	}
	return deck, nil
}

// Grade scores the given answers against the deck. Missing answers count as
// wrong; extra answers are ignored.
func Grade(deck Deck, answers []int) Result {
	res := Result{Total: len(deck.Questions)}
	for i, q := range deck.Questions {
		if i < len(answers) && answers[i] == q.Answer {
			res.Correct++
			res.Reward += q.Reward
		}
	}
	return res
}
