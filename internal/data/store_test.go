package data

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadStore_Defaults tests that the embedded definition set parses.
func TestLoadStore_Defaults(t *testing.T) {
	store, err := LoadStore("")
	if err != nil {
		t.Fatalf("LoadStore() failed: %v", err)
	}

	if store.SpellCount() < 15 {
		t.Errorf("SpellCount: got %d, want >= 15", store.SpellCount())
	}

	fort := store.Spell(1244)
	if fort == nil {
		t.Fatal("Power Word: Fortitude rank 2 (id=1244) not found")
	}
	if fort.BaseID != 1243 {
		t.Errorf("BaseID: got %d, want 1243", fort.BaseID)
	}
	if fort.Rank != 2 {
		t.Errorf("Rank: got %d, want 2", fort.Rank)
	}
	if !fort.HasAuraEffect(AuraModStat) {
		t.Error("fortitude should carry a ModStat effect")
	}

	shield := store.Spell(17)
	if shield == nil {
		t.Fatal("Power Word: Shield (id=17) not found")
	}
	if shield.BaseID != shield.ID {
		t.Errorf("BaseID should default to ID, got %d", shield.BaseID)
	}
	if shield.Effects[0].MiscValueA != int32(SchoolMaskAll) {
		t.Errorf("absorb school mask: got %d, want %d", shield.Effects[0].MiscValueA, SchoolMaskAll)
	}

	passive := store.Spell(1178)
	if passive == nil || !passive.IsPassive() {
		t.Fatal("Bear Form passive (id=1178) should be passive")
	}

	drain := store.Spell(1120)
	if drain == nil {
		t.Fatal("Drain Soul (id=1120) not found")
	}
	if !drain.HasAttribute(AttrChanneled) {
		t.Error("Drain Soul should be channeled")
	}
	if drain.Effects[1].Index != 1 {
		t.Errorf("effect index: got %d, want 1", drain.Effects[1].Index)
	}
	if drain.SchoolMask() != SchoolMaskShadow {
		t.Errorf("school: got %d, want shadow", drain.SchoolMask())
	}

	if store.Item(6265) == nil {
		t.Error("Soul Shard item (id=6265) not found")
	}
	if c := store.Creature(1933); c == nil || c.MaleModel != 856 {
		t.Error("Sheep creature (id=1933) missing or wrong model")
	}
}

func TestParseStore_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"duplicate id", "spells:\n  - { id: 5, name: a }\n  - { id: 5, name: b }\n"},
		{"zero id", "spells:\n  - { name: nameless }\n"},
		{"bad yaml", "spells: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseStore([]byte(tt.raw)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadStore_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spells.yaml")
	raw := "spells:\n  - { id: 42, name: Test, effects: [ { type: 6, aura: 4 } ] }\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := LoadStore(path)
	if err != nil {
		t.Fatalf("LoadStore(%q) failed: %v", path, err)
	}
	if store.SpellCount() != 1 {
		t.Errorf("SpellCount: got %d, want 1", store.SpellCount())
	}
	if sp := store.Spell(42); sp == nil || !sp.Effects[0].IsAura() {
		t.Error("spell 42 should apply a dummy aura")
	}

	if _, err := LoadStore(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestSpell_MechanicMask(t *testing.T) {
	sp := &Spell{Mechanic: MechanicStun}
	if sp.MechanicMask() != 1<<12 {
		t.Errorf("MechanicMask: got %#x, want %#x", sp.MechanicMask(), 1<<12)
	}
	if (&Spell{}).MechanicMask() != 0 {
		t.Error("no mechanic should give an empty mask")
	}
}
