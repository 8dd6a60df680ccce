package triage

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrCatalogUnavailable is returned alongside an empty catalog when the
// source file is missing or cannot be parsed.
var ErrCatalogUnavailable = errors.New("triage catalog unavailable")

// QuestionDef is one step of the questionnaire.
type QuestionDef struct {
	ID       Field  `yaml:"id" json:"id"`
	Prompt   string `yaml:"prompt" json:"question"`
	Helper   string `yaml:"helper" json:"helper"`
	ImageRef string `yaml:"image" json:"image"`
	YesValue int    `yaml:"yes_value" json:"yes_value"`
	NoValue  int    `yaml:"no_value" json:"no_value"`
}

type catalogFile struct {
	Questions []QuestionDef `yaml:"questions"`
}

// Catalog is the ordered, read-only question list.
type Catalog struct {
	questions []QuestionDef
	byID      map[Field]QuestionDef
}

func NewCatalog(questions []QuestionDef) *Catalog {
	c := &Catalog{
		questions: append([]QuestionDef{}, questions...),
		byID:      make(map[Field]QuestionDef, len(questions)),
	}
	for _, q := range c.questions {
		c.byID[q.ID] = q
	}
	return c
}

// LoadCatalog reads the catalog from a YAML file. A missing or unparsable
// file yields an empty catalog together with an error wrapping
// ErrCatalogUnavailable; callers may continue in degraded mode. A file that
// parses but does not match the answer fields yields a nil catalog.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return NewCatalog(nil), fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return NewCatalog(nil), fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	c := NewCatalog(file.Questions)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that the catalog ids map one-to-one onto the answer
// fields with the age entry first. An empty catalog is valid.
func (c *Catalog) Validate() error {
	if len(c.questions) == 0 {
		return nil
	}
	if c.questions[0].ID != FieldAge {
		return fmt.Errorf("catalog must start with %s, got %q", FieldAge, c.questions[0].ID)
	}

	seen := make(map[Field]bool, len(c.questions))
	for i, q := range c.questions {
		if !q.ID.Valid() {
			return fmt.Errorf("catalog entry %d: unknown question id %q", i, q.ID)
		}
		if seen[q.ID] {
			return fmt.Errorf("catalog entry %d: duplicate question id %q", i, q.ID)
		}
		seen[q.ID] = true
	}
	for _, f := range AllFields {
		if !seen[f] {
			return fmt.Errorf("catalog is missing question %s", f)
		}
	}
	return nil
}

// Questions returns the catalog in evaluation order.
func (c *Catalog) Questions() []QuestionDef {
	return append([]QuestionDef{}, c.questions...)
}

func (c *Catalog) Lookup(id Field) (QuestionDef, bool) {
	q, ok := c.byID[id]
	return q, ok
}

func (c *Catalog) Len() int {
	return len(c.questions)
}
