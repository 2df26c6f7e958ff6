package data

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed spells.yaml
var defaultDefinitions []byte

// definitionFile is the on-disk layout of a definition file.
type definitionFile struct {
	Spells    []*Spell            `yaml:"spells"`
	Creatures []*CreatureTemplate `yaml:"creatures"`
	Items     []*ItemTemplate     `yaml:"items"`
}

// Store holds all static definitions keyed by id.
// Read-only after construction; safe for concurrent readers.
type Store struct {
	spells    map[uint32]*Spell
	creatures map[uint32]*CreatureTemplate
	items     map[uint32]*ItemTemplate
}

// NewStore builds a store from spell definitions. Used by tests and by the loader.
func NewStore(spells ...*Spell) *Store {
	s := &Store{
		spells:    make(map[uint32]*Spell, len(spells)),
		creatures: make(map[uint32]*CreatureTemplate),
		items:     make(map[uint32]*ItemTemplate),
	}
	for _, sp := range spells {
		s.AddSpell(sp)
	}
	return s
}

// AddSpell registers a spell, normalizing effect indices and base id.
// Only valid before the store is shared.
func (s *Store) AddSpell(sp *Spell) {
	if sp.BaseID == 0 {
		sp.BaseID = sp.ID
	}
	for i := range sp.Effects {
		sp.Effects[i].Index = i
	}
	s.spells[sp.ID] = sp
}

// AddCreature registers a creature template.
func (s *Store) AddCreature(c *CreatureTemplate) {
	s.creatures[c.ID] = c
}

// AddItem registers an item template.
func (s *Store) AddItem(it *ItemTemplate) {
	s.items[it.ID] = it
}

// Spell returns the spell with the given id or nil.
func (s *Store) Spell(id uint32) *Spell {
	return s.spells[id]
}

// Creature returns the creature template with the given id or nil.
func (s *Store) Creature(id uint32) *CreatureTemplate {
	return s.creatures[id]
}

// Item returns the item template with the given id or nil.
func (s *Store) Item(id uint32) *ItemTemplate {
	return s.items[id]
}

// SpellCount returns the number of loaded spells.
func (s *Store) SpellCount() int {
	return len(s.spells)
}

// LoadStore reads definitions from a YAML file.
// An empty path loads the embedded default set.
func LoadStore(path string) (*Store, error) {
	raw := defaultDefinitions
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading definitions %s: %w", path, err)
		}
		raw = b
	}

	store, err := ParseStore(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing definitions %q: %w", path, err)
	}

	slog.Info("loaded definitions",
		"spells", len(store.spells),
		"creatures", len(store.creatures),
		"items", len(store.items))
	return store, nil
}

// ParseStore decodes a YAML definition document.
func ParseStore(raw []byte) (*Store, error) {
	var f definitionFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}

	store := NewStore()
	for _, sp := range f.Spells {
		if sp.ID == 0 {
			return nil, fmt.Errorf("spell %q has no id", sp.Name)
		}
		if _, dup := store.spells[sp.ID]; dup {
			return nil, fmt.Errorf("duplicate spell id %d", sp.ID)
		}
		store.AddSpell(sp)
	}
	for _, c := range f.Creatures {
		store.AddCreature(c)
	}
	for _, it := range f.Items {
		store.AddItem(it)
	}
	return store, nil
}
