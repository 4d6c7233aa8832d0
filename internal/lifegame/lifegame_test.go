package lifegame

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultScenariosValid(t *testing.T) {
	scenarios := Default()
	if len(scenarios) == 0 {
		t.Fatalf("no embedded scenarios")
	}
	for _, s := range scenarios {
		if len(s.Choices) < 2 {
			t.Fatalf("scenario %q has %d choices", s.ID, len(s.Choices))
		}
	}
}

func TestFindAndPick(t *testing.T) {
	scenarios := Default()
	s, ok := Find(scenarios, "side-gig")
	if !ok {
		t.Fatalf("side-gig scenario missing")
	}
	c, err := Pick(s, 0)
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if c.Delta != 120 {
		t.Fatalf("delta = %v, want 120", c.Delta)
	}
	if _, err := Pick(s, 99); err == nil {
		t.Fatalf("expected out-of-range choice to fail")
	}
	if _, ok := Find(scenarios, "nope"); ok {
		t.Fatalf("found a scenario that does not exist")
	}
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.yaml")
	raw := `scenarios:
  - id: a
    title: A
    prompt: p
    choices:
      - {label: x, delta: 1, outcome: o}
      - {label: y, delta: 2, outcome: o}
  - id: a
    title: A again
    prompt: p
    choices:
      - {label: x, delta: 1, outcome: o}
      - {label: y, delta: 2, outcome: o}
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected duplicate ids to fail")
	}
}
