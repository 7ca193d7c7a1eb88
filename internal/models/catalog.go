package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Question is one item of the fixed screening battery. The catalog is loaded
// once at startup and never mutated.
type Question struct {
	ID           int    `yaml:"id" json:"id"`
	Prompt       string `yaml:"prompt" json:"prompt"`
	ExpectedType string `yaml:"expected_type" json:"expectedType"`
}

// Catalog holds the ordered question battery.
type Catalog struct {
	Questions []Question `yaml:"questions"`
}

// LoadCatalog reads and parses a questions.yaml file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question catalog: %w", err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal question catalog: %w", err)
	}
	if len(catalog.Questions) == 0 {
		return nil, fmt.Errorf("question catalog %s contains no questions", path)
	}

	return &catalog, nil
}

// DefaultCatalog returns the built-in screening battery, used when no
// questions.yaml is present.
func DefaultCatalog() *Catalog {
	return &Catalog{Questions: []Question{
		{ID: 1, Prompt: "Could you please tell me your full name, your age, and the name of a person you are very close to?", ExpectedType: "Personal Orientation"},
		{ID: 2, Prompt: "I am going to give you 5 words to remember: Apple, Watch, Penny, Desk, Cloud. Please repeat them back to me now.", ExpectedType: "Immediate Memory Registration"},
		{ID: 3, Prompt: "What is today's date (day, month, and year)?", ExpectedType: "Orientation to Time"},
		{ID: 4, Prompt: "Can you tell me where we are right now (place and city)?", ExpectedType: "Orientation to Place"},
		{ID: 5, Prompt: "Can you count backwards from 100 by subtracting 7 each time?", ExpectedType: "Attention & Calculation"},
		{ID: 6, Prompt: "Please spell the word 'WORLD' backwards.", ExpectedType: "Attention & Language"},
		{ID: 7, Prompt: "What do people usually use a watch and a pen for?", ExpectedType: "Language & Semantic Memory"},
		{ID: 8, Prompt: "Can you repeat this sentence exactly: 'No ifs, ands, or buts.'", ExpectedType: "Language Repetition"},
		{ID: 9, Prompt: "Please name as many animals as you can in one minute.", ExpectedType: "Verbal Fluency"},
		{ID: 10, Prompt: "What were the 5 words I asked you to remember earlier in the test?", ExpectedType: "Delayed Recall"},
	}}
}
