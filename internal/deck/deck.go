// Package deck loads YAML deck lists and resolves them against the master
// card list into the template pools the engine consumes.
package deck

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ptcgsim/ptcg-server-go/internal/game"
)

// File is the top-level YAML structure of a deck-list file.
type File struct {
	Decks []Entry `yaml:"decks"`
}

// Entry is a single named deck.
type Entry struct {
	Name  string      `yaml:"name"`
	Cards []CardCount `yaml:"cards"`
}

// CardCount is a card id and how many copies the deck runs.
type CardCount struct {
	ID    string `yaml:"id"`
	Count int    `yaml:"count"`
}

// Index resolves card ids to templates.
type Index struct {
	byID map[string]*game.CardTemplate
}

// NewIndex builds an id lookup over a loaded card list.
func NewIndex(templates []game.CardTemplate) *Index {
	idx := &Index{byID: make(map[string]*game.CardTemplate, len(templates))}
	for i := range templates {
		idx.byID[templates[i].ID] = &templates[i]
	}
	return idx
}

// Lookup returns the template for a card id.
func (idx *Index) Lookup(id string) (*game.CardTemplate, bool) {
	tpl, ok := idx.byID[id]
	return tpl, ok
}

// Parse reads a YAML deck-list file.
func Parse(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseBytes(data)
}

// ParseBytes parses YAML deck-list content.
func ParseBytes(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse deck YAML: %w", err)
	}
	return &f, nil
}

// Resolve expands every deck in the file into a template pool, one template
// per copy. Unknown card ids fail the whole file.
func (f *File) Resolve(idx *Index) (map[string][]game.CardTemplate, error) {
	decks := make(map[string][]game.CardTemplate, len(f.Decks))
	for _, entry := range f.Decks {
		pool, err := entry.Resolve(idx)
		if err != nil {
			return nil, err
		}
		decks[entry.Name] = pool
	}
	return decks, nil
}

// Resolve expands one deck entry into a template pool.
func (e *Entry) Resolve(idx *Index) ([]game.CardTemplate, error) {
	var pool []game.CardTemplate
	for _, cc := range e.Cards {
		tpl, ok := idx.Lookup(cc.ID)
		if !ok {
			return nil, fmt.Errorf("deck %q: unknown card id %q", e.Name, cc.ID)
		}
		if cc.Count < 1 {
			return nil, fmt.Errorf("deck %q: card %q has count %d", e.Name, cc.ID, cc.Count)
		}
		for i := 0; i < cc.Count; i++ {
			pool = append(pool, *tpl)
		}
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("deck %q resolves to no cards", e.Name)
	}
	return pool, nil
}

// ByName returns the named deck entry.
func (f *File) ByName(name string) (*Entry, error) {
	for i := range f.Decks {
		if f.Decks[i].Name == name {
			return &f.Decks[i], nil
		}
	}
	return nil, fmt.Errorf("deck %q not found (have %d decks)", name, len(f.Decks))
}
