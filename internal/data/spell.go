package data

// SpellEffectType is the top-level effect kind of a spell effect entry.
// Only ApplyAura entries produce aura effects; the rest are resolved by the
// spell execution layer.
type SpellEffectType uint32

const (
	SpellEffectNone         SpellEffectType = 0
	SpellEffectSchoolDamage SpellEffectType = 2
	SpellEffectDummy        SpellEffectType = 3
	SpellEffectApplyAura    SpellEffectType = 6
	SpellEffectHeal         SpellEffectType = 10
	SpellEffectEnergize     SpellEffectType = 30
)

// Spell attribute bits.
const (
	AttrPassive uint32 = 1 << iota
	AttrHiddenClientSide
	AttrDeathPersistent
	AttrChanneled
	AttrNoThreat
	AttrAbility
	// AttrUniquePerTarget makes two applications from different casters
	// overwrite each other instead of coexisting.
	AttrUniquePerTarget
)

// Aura interrupt flags.
const (
	InterruptHitBySpell uint32 = 0x00000001
	InterruptDamage     uint32 = 0x00000002
	InterruptCast       uint32 = 0x00000004
	InterruptMove       uint32 = 0x00000008
	InterruptTurning    uint32 = 0x00000010
	InterruptAttack     uint32 = 0x00000080
	InterruptNotSeated  uint32 = 0x00040000
)

// Spell school masks.
const (
	SchoolMaskNormal uint32 = 1 << iota
	SchoolMaskHoly
	SchoolMaskFire
	SchoolMaskNature
	SchoolMaskFrost
	SchoolMaskShadow
	SchoolMaskArcane

	SchoolMaskSpell = SchoolMaskHoly | SchoolMaskFire | SchoolMaskNature |
		SchoolMaskFrost | SchoolMaskShadow | SchoolMaskArcane
	SchoolMaskAll = SchoolMaskNormal | SchoolMaskSpell
)

// SchoolCount is the number of damage schools.
const SchoolCount = 7

// Dispel types.
const (
	DispelNone    uint32 = 0
	DispelMagic   uint32 = 1
	DispelCurse   uint32 = 2
	DispelDisease uint32 = 3
	DispelPoison  uint32 = 4
	DispelStealth uint32 = 5
)

// Mechanics. A mechanic mask bit is 1 << mechanic.
const (
	MechanicNone       uint32 = 0
	MechanicCharm      uint32 = 1
	MechanicDisorient  uint32 = 2
	MechanicDisarm     uint32 = 3
	MechanicFear       uint32 = 5
	MechanicRoot       uint32 = 7
	MechanicSilence    uint32 = 9
	MechanicSleep      uint32 = 10
	MechanicSnare      uint32 = 11
	MechanicStun       uint32 = 12
	MechanicFreeze     uint32 = 13
	MechanicPolymorph  uint32 = 17
	MechanicShield     uint32 = 19
	MechanicMount      uint32 = 21
	MechanicShapeshift uint32 = 25
)

// Exclusive groups: auras of one group from the same caster replace each other.
const (
	GroupNone  uint32 = 0
	GroupSeal  uint32 = 1
	GroupArmor uint32 = 2
	GroupCurse uint32 = 3
	GroupSting uint32 = 4
)

// Spell families.
const (
	FamilyGeneric uint32 = 0
	FamilyMage    uint32 = 3
	FamilyWarrior uint32 = 4
	FamilyWarlock uint32 = 5
	FamilyPriest  uint32 = 6
	FamilyDruid   uint32 = 7
	FamilyRogue   uint32 = 8
	FamilyHunter  uint32 = 9
	FamilyPaladin uint32 = 10
	FamilyShaman  uint32 = 11
)

// ShapeshiftForm is the misc value of a ModShapeShift effect.
type ShapeshiftForm uint8

const (
	FormNone            ShapeshiftForm = 0
	FormCat             ShapeshiftForm = 1
	FormTree            ShapeshiftForm = 2
	FormTravel          ShapeshiftForm = 3
	FormAqua            ShapeshiftForm = 4
	FormBear            ShapeshiftForm = 5
	FormAmbient         ShapeshiftForm = 6
	FormGhoul           ShapeshiftForm = 7
	FormDireBear        ShapeshiftForm = 8
	FormCreatureBear    ShapeshiftForm = 14
	FormGhostWolf       ShapeshiftForm = 16
	FormBattleStance    ShapeshiftForm = 17
	FormDefensiveStance ShapeshiftForm = 18
	FormBerserkerStance ShapeshiftForm = 19
	FormFlightEpic      ShapeshiftForm = 27
	FormShadow          ShapeshiftForm = 28
	FormFlight          ShapeshiftForm = 29
	FormStealth         ShapeshiftForm = 30
	FormMoonkin         ShapeshiftForm = 31
)

// SpellEffect is one entry of a spell's effect list.
type SpellEffect struct {
	Index         int             `yaml:"-"`
	Type          SpellEffectType `yaml:"type"`
	Aura          AuraType        `yaml:"aura"`
	BasePoints    int32           `yaml:"base_points"`
	DieSides      int32           `yaml:"die_sides"`
	MiscValueA    int32           `yaml:"misc_value_a"`
	MiscValueB    int32           `yaml:"misc_value_b"`
	MultipleValue float32         `yaml:"multiple_value"`
	Amplitude     int32           `yaml:"amplitude"` // ms between ticks
	AffectMask    uint64          `yaml:"affect_mask"`
	ItemType      uint32          `yaml:"item_type"`
	TriggerSpell  uint32          `yaml:"trigger_spell"`
	Mechanic      uint32          `yaml:"mechanic"`
}

// IsAura reports whether the entry applies an aura effect.
func (e *SpellEffect) IsAura() bool {
	return e.Type == SpellEffectApplyAura && e.Aura != AuraNone
}

// Spell is an immutable spell definition. Shared by all instances; never
// modify after loading.
type Spell struct {
	ID                 uint32        `yaml:"id"`
	BaseID             uint32        `yaml:"base_id"`
	Rank               uint32        `yaml:"rank"`
	Name               string        `yaml:"name"`
	Family             uint32        `yaml:"family"`
	FamilyFlags        uint64        `yaml:"family_flags"`
	School             uint32        `yaml:"school"` // school mask
	ExclusiveGroup     uint32        `yaml:"exclusive_group"`
	Attributes         uint32        `yaml:"attributes"`
	Positive           bool          `yaml:"positive"`
	Dispel             uint32        `yaml:"dispel"`
	Mechanic           uint32        `yaml:"mechanic"`
	StackAmount        uint32        `yaml:"stack_amount"`
	ProcCharges        uint32        `yaml:"proc_charges"`
	Duration           int32         `yaml:"duration"` // ms, <= 0 infinite
	MaxDuration        int32         `yaml:"max_duration"`
	AuraInterruptFlags uint32        `yaml:"aura_interrupt_flags"`
	ItemClass          int32         `yaml:"item_class"`
	Effects            []SpellEffect `yaml:"effects"`
}

// HasAttribute reports whether all bits of attr are set.
func (s *Spell) HasAttribute(attr uint32) bool {
	return s.Attributes&attr == attr
}

// IsPassive returns true for passive spells.
func (s *Spell) IsPassive() bool {
	return s.HasAttribute(AttrPassive)
}

// HasAuraEffect reports whether any effect of the spell applies the given aura type.
func (s *Spell) HasAuraEffect(t AuraType) bool {
	for i := range s.Effects {
		if s.Effects[i].IsAura() && s.Effects[i].Aura == t {
			return true
		}
	}
	return false
}

// SchoolMask returns the spell's school mask, physical when unset.
func (s *Spell) SchoolMask() uint32 {
	if s.School == 0 {
		return SchoolMaskNormal
	}
	return s.School
}

// MechanicMask returns the spell-level mechanic as a bit mask, or 0.
func (s *Spell) MechanicMask() uint32 {
	if s.Mechanic == MechanicNone {
		return 0
	}
	return 1 << s.Mechanic
}

// CreatureTemplate holds the display data auras need from creature entries
// (Transform and Mounted effects).
type CreatureTemplate struct {
	ID        uint32  `yaml:"id"`
	Name      string  `yaml:"name"`
	MaleModel uint32  `yaml:"male_model"`
	Scale     float32 `yaml:"scale"`
}

// ItemTemplate is the subset of item data aura handlers reference.
type ItemTemplate struct {
	ID   uint32 `yaml:"id"`
	Name string `yaml:"name"`
}
