package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUnit(t *testing.T) *Unit {
	t.Helper()
	u := NewUnit(1, UnitTemplate{
		Name:       "Tester",
		Level:      60,
		Class:      ClassWarrior,
		Race:       RaceOrc,
		Character:  true,
		PowerType:  PowerRage,
		BaseHealth: 100,
		BasePower:  [PowerCount]int32{0, 1000, 0, 100, 0},
		BaseStats:  [StatCount]int32{20, 20, 20, 20, 20},
		BaseArmor:  50,
		AttackTime: [3]int32{2000, 2000, 3000},
		DisplayID:  51,
		BaseDodge:  5,
		BaseParry:  5,
	})
	require.NotNil(t, u)
	return u
}

func TestNewUnit_Defaults(t *testing.T) {
	u := newTestUnit(t)

	assert.Equal(t, int32(120), u.MaxHealth())
	assert.Equal(t, u.MaxHealth(), u.Health())
	assert.Equal(t, PowerRage, u.PowerType())
	assert.Equal(t, int32(0), u.Power(PowerRage), "rage starts empty")
	assert.Equal(t, int32(100), u.Power(PowerEnergy))
	assert.Equal(t, int32(90), u.GetInt32Value(FieldResistance0), "armor = base + agility*2")
	assert.Equal(t, float32(1.0), u.GetFloatValue(FieldScaleX))
	assert.False(t, u.IsAlliance())
	assert.Empty(t, u.ChangedFields())
}

func TestUnit_ByteValues(t *testing.T) {
	u := newTestUnit(t)

	u.SetByteValue(FieldBytes2, 3, 5)
	u.SetByteValue(FieldBytes2, 0, 7)
	assert.Equal(t, uint8(5), u.GetByteValue(FieldBytes2, 3))
	assert.Equal(t, uint8(7), u.GetByteValue(FieldBytes2, 0))
	assert.Equal(t, uint8(5), u.ShapeShiftForm())
	assert.True(t, u.IsChanged(FieldBytes2))
	assert.Contains(t, u.ChangedFields(), FieldBytes2)

	u.ClearChanged()
	assert.False(t, u.IsChanged(FieldBytes2))
}

func TestUnit_StaminaRaisesMaxHealth(t *testing.T) {
	u := newTestUnit(t)

	u.UpdateModifierValue(UnitModStatStamina, ModTotalValue, 10, true)
	assert.Equal(t, int32(30), u.Stat(StatStamina))
	assert.Equal(t, int32(220), u.MaxHealth())

	u.UpdateModifierValue(UnitModStatStamina, ModTotalValue, 10, false)
	assert.Equal(t, int32(120), u.MaxHealth())
	assert.Equal(t, int32(120), u.Health(), "health clamps down with max")
}

func TestUnit_PercentModifiersAreExactlyReversible(t *testing.T) {
	u := newTestUnit(t)
	before := u.ModifiedValue(UnitModHealth)

	for range 1000 {
		u.UpdateModifierValue(UnitModHealth, ModTotalPct, 7, true)
		u.UpdateModifierValue(UnitModHealth, ModTotalPct, -13, true)
		u.UpdateModifierValue(UnitModHealth, ModTotalPct, 7, false)
		u.UpdateModifierValue(UnitModHealth, ModTotalPct, -13, false)
	}

	assert.Equal(t, before, u.ModifiedValue(UnitModHealth))
	assert.Equal(t, 1.0, u.ModifierValue(UnitModHealth, ModTotalPct))
}

func TestUnit_PercentModifiersCompound(t *testing.T) {
	u := newTestUnit(t)

	u.UpdateModifierValue(UnitModStatStrength, ModTotalPct, 10, true)
	u.UpdateModifierValue(UnitModStatStrength, ModTotalPct, 20, true)
	assert.InDelta(t, 1.32, u.ModifierValue(UnitModStatStrength, ModTotalPct), 1e-9)
	assert.Equal(t, int32(20), u.Stat(StatStrength), "total percent leaves the base alone")

	u.UpdateModifierValue(UnitModStatStrength, ModTotalValue, 10, true)
	assert.Equal(t, int32(33), u.Stat(StatStrength), "20 + 10*1.32")
}

func TestUnit_ModifiedValueCombinesTerms(t *testing.T) {
	u := newTestUnit(t)
	mod := UnitModResistanceFire

	u.UpdateModifierValue(mod, ModBaseValue, 100, true)
	u.UpdateModifierValue(mod, ModTotalPct, 10, true)
	assert.Equal(t, 100.0, u.ModifiedValue(mod), "no total to scale")

	u.UpdateModifierValue(mod, ModTotalValue, 50, true)
	assert.InDelta(t, 155.0, u.ModifiedValue(mod), 1e-9)

	u.UpdateModifierValue(mod, ModBasePct, 20, true)
	assert.InDelta(t, 175.0, u.ModifiedValue(mod), 1e-9, "100*1.2 + 50*1.1")
}

func TestUnit_PowerClamp(t *testing.T) {
	u := newTestUnit(t)

	assert.Equal(t, int32(50), u.AddPower(PowerRage, 50))
	assert.Equal(t, int32(950), u.AddPower(PowerRage, 5000))
	assert.Equal(t, int32(-1000), u.AddPower(PowerRage, -5000))
	assert.Equal(t, int32(0), u.Power(PowerRage))
}

func TestUnit_MovementFlags(t *testing.T) {
	u := newTestUnit(t)

	u.SetPendingMovementFlag(MovementChangeRoot, true)
	assert.True(t, u.IsRooted())

	changes := u.TakePendingMovementChanges()
	require.Len(t, changes, 1)
	assert.Equal(t, MovementChangeRoot, changes[0].Type)
	assert.True(t, changes[0].Enable)
	assert.Empty(t, u.TakePendingMovementChanges())

	u.SetPendingMovementFlag(MovementChangeRoot, false)
	assert.False(t, u.IsRooted())
}

func TestUnit_SpellMods(t *testing.T) {
	u := newTestUnit(t)

	flat := SpellModifier{Op: SpellModDuration, Type: SpellModFlat, Value: 1000, SpellID: 1, Mask: 0x1}
	pct := SpellModifier{Op: SpellModDuration, Type: SpellModPct, Value: 50, SpellID: 2, Mask: 0x1}
	u.ModifySpellMod(flat, true)
	u.ModifySpellMod(pct, true)

	assert.Equal(t, int32(4500), u.ApplySpellMod(SpellModDuration, 0x1, 2000))
	assert.Equal(t, int32(2000), u.ApplySpellMod(SpellModDuration, 0x2, 2000), "mask mismatch")

	u.ModifySpellMod(flat, false)
	assert.Equal(t, 1, u.SpellModCount())
	assert.Equal(t, int32(3000), u.ApplySpellMod(SpellModDuration, 0x1, 2000))
}

func TestUnit_AuraState(t *testing.T) {
	u := newTestUnit(t)

	u.ModifyAuraState(AuraStateJudgement, true)
	assert.True(t, u.HasAuraState(AuraStateJudgement))
	u.ModifyAuraState(AuraStateJudgement, false)
	assert.False(t, u.HasAuraState(AuraStateJudgement))
}

func TestGrayLevel(t *testing.T) {
	assert.Equal(t, int32(0), GrayLevel(5))
	assert.Equal(t, int32(13), GrayLevel(20))
	assert.Equal(t, int32(39), GrayLevel(50))
	assert.Equal(t, int32(61), GrayLevel(70))
}
