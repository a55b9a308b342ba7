// Package config describes the study: the blood tests to plot and the
// patient groups in plotting order.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Test is a blood test.
type Test struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Unit  string `json:"unit"`
}

// Group is a patient group. Control groups are drawn dotted.
type Group struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Control bool   `json:"control,omitempty"`
}

// Study lists the tests and the groups. The last group is drawn in
// black.
type Study struct {
	Tests  []Test  `json:"tests"`
	Groups []Group `json:"groups"`
}

// Default returns the built-in study.
func Default() *Study {
	return &Study{
		Tests: []Test{
			{ID: "haemoglobin", Title: "Haemoglobin", Unit: "g/L"},
			{ID: "platelets", Title: "Platelets", Unit: "10^9/L"},
			{ID: "mcv", Title: "Mean Cell Volume", Unit: "fL"},
			{ID: "ferritin", Title: "Ferritin", Unit: "ug/L"},
			{ID: "crp", Title: "C-Reactive Protein", Unit: "mg/L"},
			{ID: "albumin", Title: "Albumin", Unit: "g/L"},
			{ID: "alt", Title: "Alanine Aminotransferase", Unit: "U/L"},
		},
		Groups: []Group{
			{ID: "colorectal", Title: "Colorectal cancer"},
			{ID: "oesophagogastric", Title: "Oesophagogastric cancer"},
			{ID: "pancreatic", Title: "Pancreatic cancer"},
			{ID: "hepatobiliary", Title: "Hepatobiliary cancer"},
			{ID: "benign_GI_controls", Title: "Benign GI controls", Control: true},
			{ID: "general_controls", Title: "General controls", Control: true},
		},
	}
}

// Load reads a study from a JSON file and validates it.
func Load(path string) (*Study, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := &Study{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks that the study has tests and groups with unique
// non-empty ids.
func (s *Study) Validate() error {
	if len(s.Tests) == 0 {
		return errors.New("no tests")
	}
	if len(s.Groups) == 0 {
		return errors.New("no groups")
	}
	seen := make(map[string]bool)
	for _, t := range s.Tests {
		if t.ID == "" {
			return errors.New("test without id")
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate test %q", t.ID)
		}
		seen[t.ID] = true
	}
	seen = make(map[string]bool)
	for _, g := range s.Groups {
		if g.ID == "" {
			return errors.New("group without id")
		}
		if seen[g.ID] {
			return fmt.Errorf("duplicate group %q", g.ID)
		}
		seen[g.ID] = true
	}
	return nil
}

// Test returns a test by id.
func (s *Study) Test(id string) (Test, bool) {
	for _, t := range s.Tests {
		if t.ID == id {
			return t, true
		}
	}
	return Test{}, false
}

// Filter returns a copy of the study restricted to the given tests in
// the given order. An empty list keeps all the tests.
func (s *Study) Filter(ids []string) (*Study, error) {
	if len(ids) == 0 {
		return s, nil
	}
	f := &Study{Groups: s.Groups}
	for _, id := range ids {
		t, ok := s.Test(id)
		if !ok {
			return nil, fmt.Errorf("unknown test %q", id)
		}
		f.Tests = append(f.Tests, t)
	}
	return f, nil
}

// Name returns the group title, the id if the title is empty.
func (g Group) Name() string {
	if g.Title == "" {
		return g.ID
	}
	return g.Title
}

// Name returns the test title, the id if the title is empty.
func (t Test) Name() string {
	if t.Title == "" {
		return t.ID
	}
	return t.Title
}
