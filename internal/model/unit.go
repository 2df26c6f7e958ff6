package model

import (
	"math"
	"math/bits"
)

// UnitTemplate - исходные данные для создания юнита.
type UnitTemplate struct {
	Name        string
	Level       int32
	Class       uint8
	Race        uint8
	Character   bool
	PowerType   PowerType
	BaseHealth  int32
	BasePower   [PowerCount]int32
	BaseStats   [StatCount]int32
	BaseArmor   int32
	BaseResist  [ResistanceCount]int32
	AttackPower int32
	// AttackTime in ms: main hand, off hand, ranged.
	AttackTime [3]int32
	DisplayID  uint32
	Scale      float32
	BaseDodge  float32
	BaseParry  float32
	BaseCrit   float32
	// BaseManaRegen is mana per second from spirit before modifiers.
	BaseManaRegen float32
}

// Unit - живая сущность мира (игрок или существо).
// Holds the update fields and modifier slots aura effects mutate.
//
// Not thread-safe: a Unit is owned by the world tick goroutine and mutated
// only from it.
type Unit struct {
	guid      uint64
	name      string
	character bool

	values  []uint32
	changed []uint64

	mods           [UnitModCount]modifierSlot
	baseAttackTime [3]int32
	classPowerType PowerType
	armorStat      int
	armorStatPct   float32

	baseDodge     float32
	baseParry     float32
	baseManaRegen float32
	manaRegenFlat float32
	regenInCombat float32

	baseCrit  float32
	critBonus [baseCritGroupCount]float32 // бонусы крита от аур

	nativeScale float32

	speedRates [MoveTypeCount]float32
	flightMode bool
	standState uint8

	movementFlags   uint32
	pendingMovement []MovementChange

	mechanicImmunity uint32
	threatMods       [ResistanceCount]float32
	spellMods        []SpellModifier
	combatRatings    [CombatRatingCount]int32
}

// NewUnit создаёт юнита из шаблона с полными HP/MP.
func NewUnit(guid uint64, tmpl UnitTemplate) *Unit {
	u := &Unit{
		guid:           guid,
		name:           tmpl.Name,
		character:      tmpl.Character,
		values:         make([]uint32, FieldCount),
		changed:        make([]uint64, (FieldCount+63)/64),
		baseAttackTime: tmpl.AttackTime,
		classPowerType: tmpl.PowerType,
		baseDodge:      tmpl.BaseDodge,
		baseParry:      tmpl.BaseParry,
		baseManaRegen:  tmpl.BaseManaRegen,
		baseCrit:       tmpl.BaseCrit,
	}
	for i := range u.speedRates {
		u.speedRates[i] = 1.0
	}

	u.SetInt32Value(FieldLevel, tmpl.Level)
	u.SetByteValue(FieldBytes0, 0, tmpl.Race)
	u.SetByteValue(FieldBytes0, 1, tmpl.Class)
	u.SetByteValue(FieldBytes0, 3, uint8(tmpl.PowerType))
	u.SetUInt32Value(FieldDisplayID, tmpl.DisplayID)
	u.SetUInt32Value(FieldNativeDisplayID, tmpl.DisplayID)
	scale := tmpl.Scale
	if scale == 0 {
		scale = 1.0
	}
	u.nativeScale = scale
	u.SetFloatValue(FieldScaleX, scale)
	u.SetFloatValue(FieldModCastSpeed, 1.0)
	u.SetFloatValue(FieldModHealingPct, 1.0)
	u.SetFloatValue(FieldModDamageTakenPct, 1.0)
	for i := range ResistanceCount {
		u.SetFloatValue(FieldModDamageDonePct+i, 1.0)
	}

	u.mods[UnitModHealth].base = float64(tmpl.BaseHealth)
	for p := range PowerCount {
		u.mods[UnitModPowerStart+UnitMod(p)].base = float64(tmpl.BasePower[p])
	}
	for i := range StatCount {
		u.mods[UnitModForStat(i)].base = float64(tmpl.BaseStats[i])
	}
	u.mods[UnitModArmor].base = float64(tmpl.BaseArmor)
	for i := 1; i < ResistanceCount; i++ {
		u.mods[UnitModForResistance(i)].base = float64(tmpl.BaseResist[i])
	}
	u.mods[UnitModAttackPower].base = float64(tmpl.AttackPower)
	u.mods[UnitModAttackSpeed].base = 1.0
	u.mods[UnitModAttackSpeedRanged].base = 1.0

	u.UpdateAllStats()
	u.UpdateDodgePercentage(0)
	u.UpdateParryPercentage(0)
	u.updateCritFields()
	u.updateManaRegenField()

	u.SetHealth(u.MaxHealth())
	for p := range PowerType(PowerCount) {
		if p == PowerRage {
			continue
		}
		u.SetPower(p, u.MaxPower(p))
	}
	u.ClearChanged()
	return u
}

// GUID возвращает уникальный идентификатор юнита.
func (u *Unit) GUID() uint64 { return u.guid }

// Name возвращает имя юнита.
func (u *Unit) Name() string { return u.name }

// IsCharacter reports whether the unit is a player character.
func (u *Unit) IsCharacter() bool { return u.character }

// IsCreature reports whether the unit is an NPC.
func (u *Unit) IsCreature() bool { return !u.character }

// Level возвращает уровень юнита.
func (u *Unit) Level() int32 { return u.GetInt32Value(FieldLevel) }

// Race returns the race id.
func (u *Unit) Race() uint8 { return u.GetByteValue(FieldBytes0, 0) }

// Class returns the class id.
func (u *Unit) Class() uint8 { return u.GetByteValue(FieldBytes0, 1) }

// IsAlliance reports whether the unit's race belongs to the alliance.
// Race 0 (creatures without race) counts as alliance.
func (u *Unit) IsAlliance() bool {
	race := u.Race()
	if race == 0 {
		return true
	}
	return allianceRaceMask&(1<<(race-1)) != 0
}

// GetUInt32Value returns a raw field value.
func (u *Unit) GetUInt32Value(index int) uint32 {
	return u.values[index]
}

// SetUInt32Value writes a raw field value and marks it changed.
func (u *Unit) SetUInt32Value(index int, v uint32) {
	if u.values[index] == v {
		return
	}
	u.values[index] = v
	u.changed[index/64] |= 1 << (index % 64)
}

// GetInt32Value returns a field as a signed value.
func (u *Unit) GetInt32Value(index int) int32 {
	return int32(u.values[index])
}

// SetInt32Value writes a signed field value.
func (u *Unit) SetInt32Value(index int, v int32) {
	u.SetUInt32Value(index, uint32(v))
}

// GetFloatValue returns a float field.
func (u *Unit) GetFloatValue(index int) float32 {
	return math.Float32frombits(u.values[index])
}

// SetFloatValue writes a float field.
func (u *Unit) SetFloatValue(index int, v float32) {
	u.SetUInt32Value(index, math.Float32bits(v))
}

// GetByteValue returns byte offset (0..3) of a packed field.
func (u *Unit) GetByteValue(index int, offset uint8) uint8 {
	return uint8(u.values[index] >> (offset * 8))
}

// SetByteValue writes byte offset (0..3) of a packed field.
func (u *Unit) SetByteValue(index int, offset uint8, v uint8) {
	shift := offset * 8
	cur := u.values[index]
	cur &^= 0xFF << shift
	cur |= uint32(v) << shift
	u.SetUInt32Value(index, cur)
}

// IsChanged reports whether a field changed since the last ClearChanged.
func (u *Unit) IsChanged(index int) bool {
	return u.changed[index/64]&(1<<(index%64)) != 0
}

// ChangedFields returns the indices of fields changed since the last ClearChanged.
func (u *Unit) ChangedFields() []int {
	var out []int
	for w, word := range u.changed {
		for word != 0 {
			b := bits.TrailingZeros64(word)
			out = append(out, w*64+b)
			word &^= 1 << b
		}
	}
	return out
}

// ClearChanged resets change tracking after an update was published.
func (u *Unit) ClearChanged() {
	clear(u.changed)
}

// Health возвращает текущее HP.
func (u *Unit) Health() int32 { return u.GetInt32Value(FieldHealth) }

// MaxHealth возвращает максимальное HP.
func (u *Unit) MaxHealth() int32 { return u.GetInt32Value(FieldMaxHealth) }

// IsAlive reports whether health is above zero.
func (u *Unit) IsAlive() bool { return u.Health() > 0 }

// SetHealth устанавливает HP (clamp 0..maxHP).
func (u *Unit) SetHealth(hp int32) {
	hp = min(max(hp, 0), u.MaxHealth())
	u.SetInt32Value(FieldHealth, hp)
}

// SetMaxHealth устанавливает максимальное HP и обрезает текущее.
func (u *Unit) SetMaxHealth(v int32) {
	v = max(v, 1)
	u.SetInt32Value(FieldMaxHealth, v)
	if u.Health() > v {
		u.SetInt32Value(FieldHealth, v)
	}
}

// ModifyHealth adds delta to health and returns the applied change.
func (u *Unit) ModifyHealth(delta int32) int32 {
	before := u.Health()
	u.SetHealth(before + delta)
	return u.Health() - before
}

// Power returns the current amount of a power type.
func (u *Unit) Power(p PowerType) int32 {
	if p >= PowerCount {
		return 0
	}
	return u.GetInt32Value(FieldPower1 + int(p))
}

// MaxPower returns the maximum of a power type.
func (u *Unit) MaxPower(p PowerType) int32 {
	if p >= PowerCount {
		return 0
	}
	return u.GetInt32Value(FieldMaxPower1 + int(p))
}

// SetPower sets a power value clamped to 0..max.
func (u *Unit) SetPower(p PowerType, v int32) {
	if p >= PowerCount {
		return
	}
	v = min(max(v, 0), u.MaxPower(p))
	u.SetInt32Value(FieldPower1+int(p), v)
}

// SetMaxPower sets a power maximum and clamps the current value.
func (u *Unit) SetMaxPower(p PowerType, v int32) {
	if p >= PowerCount {
		return
	}
	v = max(v, 0)
	u.SetInt32Value(FieldMaxPower1+int(p), v)
	if u.Power(p) > v {
		u.SetInt32Value(FieldPower1+int(p), v)
	}
}

// AddPower adds delta to a power and returns the applied change.
func (u *Unit) AddPower(p PowerType, delta int32) int32 {
	before := u.Power(p)
	u.SetPower(p, before+delta)
	return u.Power(p) - before
}

// PowerType returns the active power type.
func (u *Unit) PowerType() PowerType {
	return PowerType(u.GetByteValue(FieldBytes0, 3))
}

// SetPowerType switches the active power type.
func (u *Unit) SetPowerType(p PowerType) {
	u.SetByteValue(FieldBytes0, 3, uint8(p))
}

// ClassPowerType returns the native power type of the unit's class.
func (u *Unit) ClassPowerType() PowerType {
	return u.classPowerType
}

// NativeScale returns the template scale before aura modifiers.
func (u *Unit) NativeScale() float32 {
	return u.nativeScale
}

// ShapeShiftForm returns the current form id.
func (u *Unit) ShapeShiftForm() uint8 {
	return u.GetByteValue(FieldBytes2, 3)
}

// SetShapeShiftForm sets the current form id.
func (u *Unit) SetShapeShiftForm(form uint8) {
	u.SetByteValue(FieldBytes2, 3, form)
}

// StandState returns the stand state.
func (u *Unit) StandState() uint8 {
	return u.standState
}

// SetStandState sets the stand state.
func (u *Unit) SetStandState(state uint8) {
	u.standState = state
	u.SetByteValue(FieldBytes1, 0, state)
}

// HasUnitFlag reports whether all bits of flag are set.
func (u *Unit) HasUnitFlag(flag uint32) bool {
	return u.GetUInt32Value(FieldFlags)&flag == flag
}

// SetUnitFlag sets or clears unit flag bits.
func (u *Unit) SetUnitFlag(flag uint32, on bool) {
	v := u.GetUInt32Value(FieldFlags)
	if on {
		v |= flag
	} else {
		v &^= flag
	}
	u.SetUInt32Value(FieldFlags, v)
}

// ModifyAuraState sets or clears an aura state bit.
func (u *Unit) ModifyAuraState(state uint8, apply bool) {
	if state == 0 {
		return
	}
	v := u.GetUInt32Value(FieldAuraState)
	bit := uint32(1) << (state - 1)
	if apply {
		v |= bit
	} else {
		v &^= bit
	}
	u.SetUInt32Value(FieldAuraState, v)
}

// HasAuraState reports whether an aura state bit is set.
func (u *Unit) HasAuraState(state uint8) bool {
	if state == 0 {
		return false
	}
	return u.GetUInt32Value(FieldAuraState)&(1<<(state-1)) != 0
}

// GrayLevel returns the highest victim level that yields no reward for an
// attacker of the given level.
func GrayLevel(level int32) int32 {
	switch {
	case level <= 5:
		return 0
	case level <= 39:
		return level - 5 - level/10
	case level <= 59:
		return level - 1 - level/5
	default:
		return level - 9
	}
}
